package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stigoleg/activity-sim/internal/cli"
)

// gen-docs writes shell completions and a roff man page generated from the
// activitysim command tree.

func main() {
	root := cli.NewRootCommand("dev")
	if err := writeCompletions(root, filepath.Join("docs", "completions")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := writeMan(root, "man"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func writeCompletions(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	gens := []struct {
		file string
		gen  func(string) error
	}{
		{cli.Name + ".bash", func(p string) error { return root.GenBashCompletionFileV2(p, true) }},
		{"_" + cli.Name, root.GenZshCompletionFile},
		{cli.Name + ".fish", func(p string) error { return root.GenFishCompletionFile(p, true) }},
	}
	for _, g := range gens {
		if err := g.gen(filepath.Join(dir, g.file)); err != nil {
			return fmt.Errorf("completion %s: %w", g.file, err)
		}
	}
	return nil
}

func writeMan(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, cli.Name+".1"), []byte(manPage(root)), 0o644)
}

func manPage(root *cobra.Command) string {
	var b strings.Builder
	b.WriteString(".TH \"" + strings.ToUpper(cli.Name) + "\" \"1\" \"\" \"activity-sim\" \"User Commands\"\n")
	b.WriteString(".SH NAME\n" + cli.Name + " \\- " + roffEscape(cli.Description) + "\n")
	b.WriteString(".SH SYNOPSIS\n.B " + cli.Name + "\n[flags]\n")
	for _, sub := range root.Commands() {
		if sub.IsAvailableCommand() {
			b.WriteString(".br\n.B " + cli.Name + " " + sub.Name() + "\n")
		}
	}
	b.WriteString(".SH DESCRIPTION\n" + roffEscape(root.Long) + "\n")

	b.WriteString(".SH OPTIONS\n")
	root.Flags().VisitAll(func(f *pflag.Flag) { writeFlag(&b, f) })

	b.WriteString(".SH COMMANDS\n")
	for _, sub := range root.Commands() {
		if !sub.IsAvailableCommand() {
			continue
		}
		b.WriteString(".TP\n\\fB" + sub.Name() + "\\fR\n" + roffEscape(sub.Short) + "\n")
	}

	b.WriteString(".SH EXAMPLES\n")
	b.WriteString(".TP\n\\fB" + cli.Name + "\\fR\nStart the interactive TUI in dry-run mode.\n")
	b.WriteString(".TP\n\\fB" + cli.Name + " \\-\\-dry\\-run=false \\-d 2h30m\\fR\nInject real input for 2 hours 30 minutes.\n")
	b.WriteString(".TP\n\\fB" + cli.Name + " \\-\\-no\\-tui \\-c 17:00 \\-\\-stack go\\fR\nRun headless until 5:00 PM, typing Go snippets.\n")
	b.WriteString(".TP\n\\fB" + cli.Name + " profile > profile.yaml\\fR\nWrite the default behavior profile for editing.\n")
	b.WriteString(".SH SEE ALSO\nProject homepage: https://github.com/stigoleg/activity-sim\n")
	return b.String()
}

func writeFlag(b *strings.Builder, f *pflag.Flag) {
	if f.Hidden {
		return
	}
	names := "\\-\\-" + roffEscape(f.Name)
	if f.Shorthand != "" {
		names = "\\-" + f.Shorthand + ", " + names
	}
	if t := f.Value.Type(); t != "bool" {
		names += " <" + t + ">"
	}
	desc := roffEscape(f.Usage)
	if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" && f.DefValue != "0s" {
		desc += " (default " + roffEscape(f.DefValue) + ")"
	}
	b.WriteString(".TP\n\\fB" + names + "\\fR\n" + desc + "\n")
}

func roffEscape(s string) string {
	return strings.NewReplacer("\\", "\\\\", "-", "\\-").Replace(s)
}
