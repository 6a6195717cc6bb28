// Package behavior decides which synthetic action comes next and how long
// to wait around it. Nothing in here touches the OS; every decision is drawn
// from an injected *rand.Rand so runs can be replayed in tests.
package behavior

import (
	"errors"
	"fmt"
	"maps"
	"runtime"
	"slices"
	"time"
)

// Range is an inclusive float interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// DurationRange is an inclusive duration interval.
type DurationRange struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

// InputWeights controls how often each input family is chosen per cycle.
type InputWeights struct {
	Mouse    float64 `yaml:"mouse"`
	Keyboard float64 `yaml:"keyboard"`
	Mixed    float64 `yaml:"mixed"`
}

// MouseWeights splits a mouse cycle between scrolling, travel and clicks.
type MouseWeights struct {
	Scroll float64 `yaml:"scroll"`
	Move   float64 `yaml:"move"`
	Click  float64 `yaml:"click"`
}

// MixedWeights splits a mixed cycle.
type MixedWeights struct {
	Scroll    float64 `yaml:"scroll"`
	Move      float64 `yaml:"move"`
	App       float64 `yaml:"app"`
	ClickKeys float64 `yaml:"click_keys"`
}

// MicroWeights splits the filler bursts that keep per-minute density up.
type MicroWeights struct {
	Move   float64 `yaml:"move"`
	Click  float64 `yaml:"click"`
	Scroll float64 `yaml:"scroll"`
	Type   float64 `yaml:"type"`
}

// AppWeights holds the follow-up probabilities after focusing a known app.
type AppWeights struct {
	ChromeTabs   float64 `yaml:"chrome_tabs"`
	EditorFiles  float64 `yaml:"editor_files"`
	VSCodeTabs   float64 `yaml:"vscode_tabs"`
	VSCodeFiles  float64 `yaml:"vscode_files"`
	IdleSwitch   float64 `yaml:"idle_switch"`
	IdleVSCode   float64 `yaml:"idle_vscode_files"`
	CodingInIDE  float64 `yaml:"coding_in_ide"`
	FindShortcut float64 `yaml:"find_shortcut"`
}

// ActivityProfile shapes the slowly drifting activity level.
type ActivityProfile struct {
	Base      Range         `yaml:"base"`
	Floor     float64       `yaml:"floor"`
	Ceiling   float64       `yaml:"ceiling"`
	Variation float64       `yaml:"variation"`
	Period    time.Duration `yaml:"period"`
	Easing    float64       `yaml:"easing"`
	Step      time.Duration `yaml:"step"`
	Epsilon   float64       `yaml:"epsilon"`
}

// Profile is the full parameter table for the scheduler.
type Profile struct {
	Input InputWeights `yaml:"input"`
	Mouse MouseWeights `yaml:"mouse"`
	Mixed MixedWeights `yaml:"mixed"`
	Micro MicroWeights `yaml:"micro"`
	Apps  AppWeights   `yaml:"apps"`

	WindowSwitch  Range   `yaml:"window_switch"`
	WindowRefresh float64 `yaml:"window_refresh"`
	LongBreak     float64 `yaml:"long_break"`
	ShortBreak    float64 `yaml:"short_break"`

	BreakDuration  DurationRange `yaml:"break_duration"`
	CycleDelay     DurationRange `yaml:"cycle_delay"`
	KeyDelay       DurationRange `yaml:"key_delay"`
	SwitchSettle   DurationRange `yaml:"switch_settle"`
	ScrollStep     DurationRange `yaml:"scroll_step"`
	MouseStepDelay DurationRange `yaml:"mouse_step_delay"`

	MaxSameInput       int     `yaml:"max_same_input"`
	MinEventsPerMinute int     `yaml:"min_events_per_minute"`
	ScrollAmplitude    int     `yaml:"scroll_amplitude"`
	MouseMaxDelta      float64 `yaml:"mouse_max_delta"`
	SnippetEvery       int     `yaml:"snippet_every"`

	Activity ActivityProfile `yaml:"activity"`
}

// DefaultProfile returns the tuned defaults. Linux gets a denser event rate
// and gentler scrolling than other platforms.
func DefaultProfile() Profile {
	return defaultProfileFor(runtime.GOOS)
}

func defaultProfileFor(goos string) Profile {
	p := Profile{
		Input: InputWeights{Mouse: 0.35, Keyboard: 0.25, Mixed: 0.40},
		Mouse: MouseWeights{Scroll: 0.6, Move: 0.3, Click: 0.1},
		Mixed: MixedWeights{Scroll: 0.4, Move: 0.3, App: 0.2, ClickKeys: 0.1},
		Micro: MicroWeights{Move: 0.5, Click: 0.1, Scroll: 0.2, Type: 0.2},
		Apps: AppWeights{
			ChromeTabs:   0.7,
			EditorFiles:  0.6,
			VSCodeTabs:   0.6,
			VSCodeFiles:  0.4,
			IdleSwitch:   0.3,
			IdleVSCode:   0.2,
			CodingInIDE:  0.8,
			FindShortcut: 0.5,
		},

		WindowSwitch:  Range{Min: 0.25, Max: 0.45},
		WindowRefresh: 0.1,
		LongBreak:     0.03,
		ShortBreak:    0.05,

		BreakDuration:  DurationRange{Min: 60 * time.Second, Max: 120 * time.Second},
		CycleDelay:     DurationRange{Min: 500 * time.Millisecond, Max: 2500 * time.Millisecond},
		KeyDelay:       DurationRange{Min: 120 * time.Millisecond, Max: 250 * time.Millisecond},
		SwitchSettle:   DurationRange{Min: 500 * time.Millisecond, Max: time.Second},
		ScrollStep:     DurationRange{Min: 50 * time.Millisecond, Max: 150 * time.Millisecond},
		MouseStepDelay: DurationRange{Min: time.Millisecond, Max: 5 * time.Millisecond},

		MaxSameInput:       120,
		MinEventsPerMinute: 8,
		ScrollAmplitude:    100,
		MouseMaxDelta:      60,
		SnippetEvery:       10,

		Activity: ActivityProfile{
			Base:      Range{Min: 0.4, Max: 0.5},
			Floor:     0.3,
			Ceiling:   0.55,
			Variation: 0.15,
			Period:    600 * time.Second,
			Easing:    0.15,
			Step:      80 * time.Millisecond,
			Epsilon:   0.01,
		},
	}

	if goos == "linux" {
		p.MinEventsPerMinute = 12
		p.ScrollAmplitude = 30
		p.MouseStepDelay = DurationRange{Min: 10 * time.Millisecond, Max: 30 * time.Millisecond}
	}
	return p
}

// Validate reports the first inconsistency in the profile.
func (p Profile) Validate() error {
	var errs []error

	weightSets := map[string][]float64{
		"input": {p.Input.Mouse, p.Input.Keyboard, p.Input.Mixed},
		"mouse": {p.Mouse.Scroll, p.Mouse.Move, p.Mouse.Click},
		"mixed": {p.Mixed.Scroll, p.Mixed.Move, p.Mixed.App, p.Mixed.ClickKeys},
		"micro": {p.Micro.Move, p.Micro.Click, p.Micro.Scroll, p.Micro.Type},
	}
	for _, name := range []string{"input", "mouse", "mixed", "micro"} {
		if err := checkWeights(weightSets[name]); err != nil {
			errs = append(errs, fmt.Errorf("%s weights: %w", name, err))
		}
	}

	probabilities := map[string]float64{
		"window_refresh":         p.WindowRefresh,
		"long_break":             p.LongBreak,
		"short_break":            p.ShortBreak,
		"apps.chrome_tabs":       p.Apps.ChromeTabs,
		"apps.editor_files":      p.Apps.EditorFiles,
		"apps.vscode_tabs":       p.Apps.VSCodeTabs,
		"apps.vscode_files":      p.Apps.VSCodeFiles,
		"apps.idle_switch":       p.Apps.IdleSwitch,
		"apps.idle_vscode_files": p.Apps.IdleVSCode,
		"apps.coding_in_ide":     p.Apps.CodingInIDE,
		"apps.find_shortcut":     p.Apps.FindShortcut,
	}
	for _, name := range slices.Sorted(maps.Keys(probabilities)) {
		if v := probabilities[name]; v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s: probability %v outside [0,1]", name, v))
		}
	}

	if p.WindowSwitch.Min < 0 || p.WindowSwitch.Max > 1 || p.WindowSwitch.Min > p.WindowSwitch.Max {
		errs = append(errs, fmt.Errorf("window_switch: invalid range %v..%v", p.WindowSwitch.Min, p.WindowSwitch.Max))
	}

	durations := map[string]DurationRange{
		"break_duration":   p.BreakDuration,
		"cycle_delay":      p.CycleDelay,
		"key_delay":        p.KeyDelay,
		"switch_settle":    p.SwitchSettle,
		"scroll_step":      p.ScrollStep,
		"mouse_step_delay": p.MouseStepDelay,
	}
	for _, name := range slices.Sorted(maps.Keys(durations)) {
		r := durations[name]
		if r.Min < 0 || r.Min > r.Max {
			errs = append(errs, fmt.Errorf("%s: invalid range %v..%v", name, r.Min, r.Max))
		}
	}

	if p.MaxSameInput < 1 {
		errs = append(errs, errors.New("max_same_input must be at least 1"))
	}
	if p.MinEventsPerMinute < 1 {
		errs = append(errs, errors.New("min_events_per_minute must be at least 1"))
	}
	if p.ScrollAmplitude < 1 {
		errs = append(errs, errors.New("scroll_amplitude must be at least 1"))
	}
	if p.MouseMaxDelta <= 0 {
		errs = append(errs, errors.New("mouse_max_delta must be positive"))
	}
	if p.SnippetEvery < 1 {
		errs = append(errs, errors.New("snippet_every must be at least 1"))
	}

	a := p.Activity
	if a.Base.Min > a.Base.Max || a.Floor > a.Ceiling {
		errs = append(errs, errors.New("activity: invalid base or floor/ceiling"))
	}
	if a.Easing <= 0 || a.Easing > 1 {
		errs = append(errs, fmt.Errorf("activity.easing %v outside (0,1]", a.Easing))
	}
	if a.Epsilon <= 0 {
		errs = append(errs, errors.New("activity.epsilon must be positive"))
	}
	if a.Period <= 0 {
		errs = append(errs, errors.New("activity.period must be positive"))
	}

	return errors.Join(errs...)
}

func checkWeights(ws []float64) error {
	var sum float64
	for _, w := range ws {
		if w < 0 {
			return fmt.Errorf("negative weight %v", w)
		}
		sum += w
	}
	if sum <= 0 {
		return errors.New("weights must sum to a positive value")
	}
	return nil
}
