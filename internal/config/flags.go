package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"github.com/stigoleg/activity-sim/internal/behavior"
	"github.com/stigoleg/activity-sim/internal/logging"
	"github.com/stigoleg/activity-sim/internal/platform"
	"github.com/stigoleg/activity-sim/internal/simulator"
	"github.com/stigoleg/activity-sim/internal/ui"
	"github.com/stigoleg/activity-sim/internal/util"
)

// Config is the resolved run configuration.
type Config struct {
	// Duration is the run length; zero runs until interrupted.
	Duration time.Duration
	// Until is set when the run ends at a wall clock time.
	Until time.Time

	Stack        string
	SnippetsDir  string
	MinEvents    int
	SnippetEvery int
	DryRun       bool
	Backend      platform.Backend
	ProfilePath  string
	Profile      behavior.Profile

	NoTUI        bool
	LogFile      string
	Verbose      bool
	YieldToUser  bool
	InhibitSleep bool
}

// Flags holds raw flag values until Resolve validates them.
type Flags struct {
	duration     string
	clock        string
	stack        string
	snippets     string
	minEvents    int
	snippetEvery int
	dryRun       bool
	backend      string
	profile      string
	noTUI        bool
	logFile      string
	verbose      bool
	yieldToUser  bool
	inhibitSleep bool
}

// Register adds every run flag to fs.
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.duration, "duration", "d", "", "run length in minutes or as a duration (e.g. 90, 2h30m)")
	fs.StringVarP(&f.clock, "clock", "c", "", "run until a time of day (e.g. 22:30, 5:45PM)")
	fs.StringVar(&f.stack, "stack", simulator.DefaultStack, "snippet stack to type")
	fs.StringVar(&f.snippets, "snippets", "", "snippet root directory (default: built-in snippets)")
	fs.IntVar(&f.minEvents, "min-events", 0, "micro-action events per burst (default: profile value)")
	fs.IntVar(&f.snippetEvery, "snippet-every", 0, "type a snippet every N cycles (default: profile value)")
	fs.BoolVar(&f.dryRun, "dry-run", true, "log actions instead of injecting input")
	fs.StringVar(&f.backend, "backend", string(platform.BackendAuto), "input backend: "+backendNames())
	fs.StringVar(&f.profile, "profile", "", "YAML behavior profile")
	fs.BoolVar(&f.noTUI, "no-tui", false, "run headless without the terminal UI")
	fs.StringVar(&f.logFile, "log-file", "", "log file (default: stderr headless, "+logging.DefaultFile+" with the TUI)")
	fs.BoolVar(&f.verbose, "verbose", false, "debug logging")
	fs.BoolVar(&f.yieldToUser, "yield-to-user", true, "pause while the real user is typing or moving the mouse")
	fs.BoolVar(&f.inhibitSleep, "inhibit-sleep", true, "hold off screen lock and suspend while running")
}

func backendNames() string {
	var names []string
	for _, b := range platform.Backends() {
		names = append(names, string(b))
	}
	return strings.Join(names, "|")
}

// Resolve validates the flags and loads the profile. now anchors --clock.
func (f *Flags) Resolve(now time.Time) (*Config, error) {
	if f.duration != "" && f.clock != "" {
		return nil, errors.New("--duration and --clock are mutually exclusive")
	}
	if f.minEvents < 0 {
		return nil, fmt.Errorf("--min-events must not be negative, got %d", f.minEvents)
	}
	if f.snippetEvery < 0 {
		return nil, fmt.Errorf("--snippet-every must not be negative, got %d", f.snippetEvery)
	}
	if strings.TrimSpace(f.stack) == "" {
		return nil, errors.New("--stack must not be empty")
	}

	cfg := &Config{
		Stack:        f.stack,
		SnippetsDir:  f.snippets,
		MinEvents:    f.minEvents,
		SnippetEvery: f.snippetEvery,
		DryRun:       f.dryRun,
		ProfilePath:  f.profile,
		NoTUI:        f.noTUI,
		LogFile:      f.logFile,
		Verbose:      f.verbose,
		YieldToUser:  f.yieldToUser,
		InhibitSleep: f.inhibitSleep,
	}

	switch {
	case f.duration != "":
		d, err := util.ParseDuration(f.duration)
		if err != nil {
			return nil, err
		}
		cfg.Duration = d
	case f.clock != "":
		d, err := util.DurationUntil(f.clock, now)
		if err != nil {
			return nil, err
		}
		cfg.Duration = d
		cfg.Until = now.Add(d)
	}

	backend, err := platform.ParseBackend(f.backend)
	if err != nil {
		return nil, err
	}
	switch {
	case backend == platform.BackendDryRun:
		cfg.DryRun = true
	case cfg.DryRun:
		// --dry-run wins over any native backend; --dry-run=false opts in.
		backend = platform.BackendDryRun
	}
	cfg.Backend = backend

	profile, err := LoadProfile(f.profile)
	if err != nil {
		return nil, err
	}
	cfg.Profile = profile
	return cfg, nil
}

// LogTarget is where logs go: the explicit file, the default file when the
// TUI owns the terminal, or stderr.
func (c *Config) LogTarget() string {
	if c.LogFile != "" || c.NoTUI {
		return c.LogFile
	}
	return logging.DefaultFile
}

// FormatError renders a user-facing error. Parse errors carrying a
// "Valid formats" block get a bordered box.
func FormatError(err error) string {
	msg := err.Error()
	parts := strings.SplitN(msg, "\n\n", 2)
	if len(parts) != 2 {
		return ui.Current.Error.Render(msg)
	}

	box := ui.Current.Help.
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#FF4040"))
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF4040")).
		Render(parts[0])
	details := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#999999")).
		Render(parts[1])
	return box.Render(header + "\n\n" + details)
}
