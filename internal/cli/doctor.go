package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stigoleg/activity-sim/internal/platform"
	"github.com/stigoleg/activity-sim/internal/window"
)

func newDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Report input backends, missing tools and visible windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			return Doctor(ctx, cmd.OutOrStdout(), platform.Detect(), window.New)
		},
	}
}

// Doctor writes a machine report: display server, usable backends, missing
// tools and the windows switching would choose from.
func Doctor(ctx context.Context, out io.Writer, caps platform.Capabilities, openWindows func(window.Options) (window.Manager, error)) error {
	fmt.Fprintf(out, "OS:             %s\n", caps.OS)
	if caps.DisplayServer != "" {
		fmt.Fprintf(out, "Display server: %s\n", caps.DisplayServer)
	}
	if caps.Desktop != "" {
		fmt.Fprintf(out, "Desktop:        %s\n", caps.Desktop)
	}
	if caps.OS == "linux" {
		status := "available"
		if !caps.Uinput {
			status = "unavailable"
			if caps.UinputMessage != "" {
				status += " (" + caps.UinputMessage + ")"
			}
		}
		fmt.Fprintf(out, "uinput:         %s\n", status)
	}

	backends := platform.AutoCandidates(caps, true)
	fmt.Fprintln(out, "\nBackends tried by --backend auto:")
	if len(backends) == 0 {
		fmt.Fprintln(out, "  none; runs fall back to dry run")
	}
	for _, b := range backends {
		fmt.Fprintf(out, "  %s\n", b)
	}

	if report := caps.Report(); report != "" {
		fmt.Fprintln(out, "\n"+report)
	}

	fmt.Fprintln(out, "\nWindows:")
	m, err := openWindows(window.Options{Log: zap.NewNop()})
	if err != nil {
		fmt.Fprintf(out, "  window control unavailable: %v\n", err)
		return nil
	}
	defer m.Close()

	ws, err := m.List(ctx)
	if err != nil {
		fmt.Fprintf(out, "  %v\n", err)
		return nil
	}
	for _, w := range ws {
		app := window.Classify(w.Title)
		line := fmt.Sprintf("  [%s] %s", app, w.Title)
		if w.Process != "" {
			line += " (" + w.Process + ")"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
