// Package cli builds the activitysim command tree. It is shared by the
// binary and the docs generator.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stigoleg/activity-sim/internal/config"
)

// Name is the binary name.
const Name = "activitysim"

// Description is the one-line summary used in help and the man page.
const Description = "Simulate realistic mouse, keyboard, scroll and window-focus activity."

// NewRootCommand returns the root command. Running it starts a session.
func NewRootCommand(version string) *cobra.Command {
	var flags config.Flags

	cmd := &cobra.Command{
		Use:   Name,
		Short: Description,
		Long: `activitysim drives synthetic input whose timing and mix resemble a person
at work: eased mouse travel, scrolling, short coding bursts in an editor,
tab and window switches, and typed snippets. It runs in dry-run mode by
default and only injects real input with --dry-run=false.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.Resolve(time.Now())
			if err != nil {
				return err
			}
			return Run(cmd.Context(), cfg, version)
		},
	}
	cmd.SetVersionTemplate("activitysim version {{.Version}}\n")
	cmd.Flags().BoolP("version", "v", false, "show version information")
	flags.Register(cmd.Flags())

	cmd.AddCommand(newProfileCommand(), newDoctorCommand())
	return cmd
}

// Execute runs the command tree until ctx ends and returns the exit code.
func Execute(ctx context.Context, version string) int {
	if err := NewRootCommand(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, config.FormatError(err))
		return 1
	}
	return 0
}

func newProfileCommand() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Print the behavior profile as YAML",
		Long: `Print the effective behavior profile. Without --profile this is the
built-in default, which makes a good starting point for a custom file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := config.LoadProfile(path)
			if err != nil {
				return err
			}
			out, err := config.MarshalProfile(p)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&path, "profile", "", "YAML behavior profile to load and validate")
	return cmd
}
