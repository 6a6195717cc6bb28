package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/stigoleg/activity-sim/internal/keepalive"
)

const progressWidth = 20

// Gradient from purple to green for the progress bar.
var gradientColors = []string{
	"#7D56F4", "#7359F5", "#695CF6", "#5F5FF7", "#5562F8",
	"#4B65F9", "#4168FA", "#376BFB", "#2D6EFC", "#2371FD",
	"#1974FE", "#0F77FF", "#057AFF", "#007DFA", "#0081F0",
	"#0085E6", "#0089DC", "#008DD2", "#0091C8", "#0095BE",
	"#0099B4", "#009DAA", "#00A1A0", "#00A596", "#00A98C",
	"#00AD82", "#00B178", "#00B56E", "#00B964", "#00BD5A",
	"#43BF6D",
}

// View renders the current state of the model to a string.
func View(m Model) string {
	if m.ShowHelp {
		return helpView()
	}

	var body string
	switch m.State {
	case StateMenu:
		body = menuView(m)
	case StateTimedInput:
		body = timedInputView(m)
	case StateRunning:
		body = runningView(m)
	}
	return body + "\n\n" + m.help.View(m.keys.ForState(m.State))
}

func menuView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("Activity Simulator"))
	if m.Options.DryRun {
		b.WriteString(" " + Current.DryRun.Render("[dry run]"))
	}
	b.WriteString("\n\n")
	b.WriteString(Current.Unselected.Render("Select an option:"))
	b.WriteString("\n\n")

	items := [menuItems]string{
		"Run simulation indefinitely",
		"Run simulation for X minutes",
		"Quit",
	}
	for i, opt := range items {
		if i == m.Selected {
			b.WriteString(Current.Selected.Render("> " + opt))
		} else {
			b.WriteString(Current.Unselected.Render("  " + opt))
		}
		b.WriteString("\n")
	}

	if m.Stats.Cycles > 0 {
		b.WriteString("\n" + Current.Unselected.Render(fmt.Sprintf("Last session: %d events over %d cycles", m.Stats.Events(), m.Stats.Cycles)))
	}
	if m.ErrorMessage != "" {
		b.WriteString("\n" + Current.Error.Render(m.ErrorMessage))
	}
	return b.String()
}

func timedInputView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("Enter Duration"))
	b.WriteString("\n\n")
	b.WriteString(Current.Unselected.Render("Enter duration in minutes:"))
	b.WriteString("\n")
	input := m.Input
	if input == "" {
		input = " "
	}
	b.WriteString(Current.InputBox.Render(input))

	if m.ErrorMessage != "" {
		b.WriteString("\n\n" + Current.Error.Render(m.ErrorMessage))
	}
	return b.String()
}

func runningView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("Simulation Active"))
	if m.Options.DryRun {
		b.WriteString(" " + Current.DryRun.Render("[dry run]"))
	}
	b.WriteString("\n\n")

	if m.Duration > 0 {
		remaining := m.TimeRemaining()
		b.WriteString(Current.Countdown.Render(formatRemaining(remaining)))
		b.WriteString("\n")
		progress := 1.0 - float64(remaining)/float64(m.Duration)
		b.WriteString(Current.ProgressBarContainer.Render(progressBar(progress, progressWidth)))
		b.WriteString("\n\n")
	} else {
		b.WriteString(Current.Active.Render("Running until stopped"))
		b.WriteString("\n\n")
	}

	b.WriteString(statsView(m))

	if m.ErrorMessage != "" {
		b.WriteString("\n\n" + Current.Error.Render(m.ErrorMessage))
	}
	return b.String()
}

func formatRemaining(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d remaining", h, mins, secs)
	}
	return fmt.Sprintf("%d:%02d remaining", mins, secs)
}

// progressBar renders width cells, the filled share in the gradient.
func progressBar(progress float64, width int) string {
	filled := min(width, max(0, int(progress*float64(width))))
	var bar strings.Builder
	for i := range width {
		style := Current.ProgressBar
		if i < filled {
			idx := int(float64(i) / float64(width) * float64(len(gradientColors)-1))
			style = style.Background(lipgloss.Color(gradientColors[idx]))
		}
		bar.WriteString(style.Render(" "))
	}
	return bar.String()
}

func statsView(m Model) string {
	s := m.Stats
	rows := [][2]string{
		{"Input", orDash(s.Input)},
		{"Window", orDash(s.Window)},
		{"Activity", fmt.Sprintf("%.0f%%", s.Level*100)},
		{"Events", fmt.Sprintf("%d (moves %d, clicks %d, scrolls %d, keys %d)", s.Events(), s.Moves, s.Clicks, s.Scrolls, s.Keys)},
		{"Switches", fmt.Sprintf("%d", s.Switches)},
		{"Snippets", snippetsValue(s.Snippets, m.Options.Stack)},
		{"Breaks", fmt.Sprintf("%d", s.Breaks)},
	}
	if s.Held > 0 {
		rows = append(rows, [2]string{"Held", fmt.Sprintf("%d cycles (you were active)", s.Held)})
	}
	if m.Options.Backend != "" {
		rows = append(rows, [2]string{"Backend", m.Options.Backend})
	}
	if s.Failures > 0 || m.Health == keepalive.SimulationHealthFailed {
		rows = append(rows, [2]string{"Failures", Current.Error.Render(fmt.Sprintf("%d (%s)", s.Failures, m.Health))})
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = Current.StatLabel.Render(r[0]) + Current.StatValue.Render(r[1])
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func snippetsValue(n int64, stack string) string {
	if stack == "" {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%d (%s)", n, stack)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func helpView() string {
	help := `Activity Simulator Help

Usage:
  activitysim [flags]

Flags:
  -d, --duration string   Run length in minutes or as a duration (e.g. "2h30m")
  -c, --clock string      Run until a time of day (e.g. "22:30", "5:45PM")
      --stack string      Snippet stack to type (default "html")
      --dry-run           Log actions instead of injecting input (default true)
      --backend string    auto, robotgo, uinput, xdotool, ydotool or dryrun
      --no-tui            Run headless
  -v, --version           Show version information

Examples:
  activitysim                          # interactive TUI, dry run
  activitysim -d 90 --dry-run=false    # inject real input for 90 minutes
  activitysim -c 17:00 --no-tui        # headless until 5 PM

Navigation:
  ↑/k, ↓/j  : Navigate menu
  Enter      : Select option
  h/?        : Toggle this help
  q          : Quit

Press 'q' or 'Esc' to close help`

	return Current.Help.Render(help)
}
