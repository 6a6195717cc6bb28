// Package simulator turns scheduler decisions into injected input. A
// Simulator owns one injector, one window manager and one random stream;
// only its Stats may be read from other goroutines.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/stigoleg/activity-sim/internal/behavior"
	"github.com/stigoleg/activity-sim/internal/platform"
	"github.com/stigoleg/activity-sim/internal/platform/patterns"
	"github.com/stigoleg/activity-sim/internal/snippets"
	"github.com/stigoleg/activity-sim/internal/window"
)

const (
	// DefaultStack is the snippet stack typed when none is configured.
	DefaultStack = "html"
	// DefaultMicroWindow is the span a micro-action burst is spread over.
	DefaultMicroWindow = 30 * time.Second
	// SnippetChunk is the burst size, in runes, of snippet typing.
	SnippetChunk = 40

	// ownInputSlack absorbs idle clock granularity when telling our events
	// apart from the user's.
	ownInputSlack = time.Second
)

// Config holds per-session options.
type Config struct {
	Stack  string
	DryRun bool
	// SnippetEvery runs the snippet and micro-action flow every N cycles.
	// Zero uses the profile value, or every cycle in dry-run mode.
	SnippetEvery int
	// MinEvents overrides the profile's micro-action density when positive.
	MinEvents   int
	MicroWindow time.Duration
	// YieldToUser skips cycles while the real user is providing input.
	YieldToUser bool
	// Modifier is the shortcut modifier: ctrl, or cmd on macOS.
	Modifier string
}

// Deps are the collaborators of a Simulator. Injector is required.
type Deps struct {
	Injector platform.Injector
	Windows  window.Manager
	Snippets *snippets.Library
	Idle     platform.IdleDetector
	Profile  *behavior.Profile
	Log      *zap.Logger
	Rand     *rand.Rand
	Sleeper  Sleeper
	Now      func() time.Time
}

// Simulator runs the activity loop.
type Simulator struct {
	cfg     Config
	inj     platform.Injector
	windows window.Manager
	lib     *snippets.Library
	idle    platform.IdleDetector
	log     *zap.Logger
	rnd     *rand.Rand
	sleeper Sleeper
	now     func() time.Time

	sched    *behavior.Scheduler
	gen      *patterns.Generator
	scroll   *behavior.ScrollTracker
	activity *behavior.ActivityLevel
	idleGate *patterns.IdleTracker
	stats    Stats

	screen   patterns.Bounds
	absolute bool
	virtual  patterns.Point

	known   []window.Window
	current window.Window

	// lastInjected is when our own input last reached the OS; userSeen is
	// the latest real user input inferred from idle samples.
	lastInjected time.Time
	userSeen     time.Time
}

// New validates deps and builds a Simulator.
func New(cfg Config, deps Deps) (*Simulator, error) {
	if deps.Injector == nil {
		return nil, errors.New("simulator needs an injector")
	}
	profile := behavior.DefaultProfile()
	if deps.Profile != nil {
		profile = *deps.Profile
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("behavior profile: %w", err)
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Sleeper == nil {
		deps.Sleeper = timerSleeper{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Snippets == nil {
		lib, err := snippets.Open("")
		if err != nil {
			return nil, err
		}
		deps.Snippets = lib
	}
	if cfg.Stack == "" {
		cfg.Stack = DefaultStack
	}
	if cfg.MicroWindow <= 0 {
		cfg.MicroWindow = DefaultMicroWindow
	}
	if cfg.MinEvents > 0 {
		profile.MinEventsPerMinute = cfg.MinEvents
	}
	if cfg.SnippetEvery <= 0 {
		cfg.SnippetEvery = profile.SnippetEvery
		if cfg.DryRun {
			cfg.SnippetEvery = 1
		}
	}
	if cfg.Modifier == "" {
		cfg.Modifier = PrimaryModifier(runtime.GOOS)
	}

	s := &Simulator{
		cfg:      cfg,
		inj:      deps.Injector,
		windows:  deps.Windows,
		lib:      deps.Snippets,
		idle:     deps.Idle,
		log:      deps.Log.With(zap.String("component", "simulator"), zap.Bool("dry_run", cfg.DryRun)),
		rnd:      deps.Rand,
		sleeper:  deps.Sleeper,
		now:      deps.Now,
		sched:    behavior.NewScheduler(deps.Rand, profile),
		gen:      patterns.NewGenerator(deps.Rand),
		scroll:   behavior.NewScrollTracker(profile.ScrollAmplitude),
		activity: behavior.NewActivityLevel(profile.Activity),
		idleGate: patterns.NewIdleTracker(),
	}
	if s.windows == nil {
		s.windows = window.NewStatic(window.Rect{W: platform.DefaultScreenWidth, H: platform.DefaultScreenHeight})
	}
	s.initScreen()
	return s, nil
}

// PrimaryModifier is the shortcut modifier used on goos.
func PrimaryModifier(goos string) string {
	if goos == "darwin" {
		return "cmd"
	}
	return "ctrl"
}

func (s *Simulator) initScreen() {
	w, h, err := s.inj.ScreenSize()
	if err != nil || w <= 0 || h <= 0 {
		s.log.Debug("screen size unknown, using default", zap.Error(err))
		w, h = platform.DefaultScreenWidth, platform.DefaultScreenHeight
	}
	s.screen = patterns.NewBounds(w, h)
	s.virtual = s.screen.Center()
	_, _, err = s.inj.Position()
	s.absolute = err == nil
	if !s.absolute {
		s.log.Info("backend has no absolute pointer, tracking a virtual cursor", zap.String("backend", s.inj.Name()))
	}
}

// Stats exposes the live counters.
func (s *Simulator) Stats() *Stats { return &s.stats }

// Run drives the activity loop for d, or until ctx ends when d is zero.
// It returns nil when the duration elapses and ctx.Err() when cancelled.
func (s *Simulator) Run(ctx context.Context, d time.Duration) error {
	var deadline time.Time
	if d > 0 {
		deadline = s.now().Add(d)
	}
	s.log.Info("simulation started",
		zap.Duration("duration", d),
		zap.String("backend", s.inj.Name()),
		zap.String("windows", s.windows.Name()),
		zap.String("stack", s.cfg.Stack))

	s.refreshWindows(ctx)
	for cycle := 1; deadline.IsZero() || s.now().Before(deadline); cycle++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Cycle(ctx, cycle); err != nil {
			if ctx.Err() != nil {
				s.log.Info("simulation stopped", zap.Int64("cycles", s.stats.cycles.Load()))
				return ctx.Err()
			}
			return err
		}
	}
	s.log.Info("simulation finished", zap.Int64("cycles", s.stats.cycles.Load()))
	return nil
}

// Cycle runs one iteration of the loop. Only context errors are returned;
// injection failures are logged and counted.
func (s *Simulator) Cycle(ctx context.Context, n int) error {
	if s.holdForUser(ctx) {
		s.stats.held.Add(1)
		return s.sleep(ctx, s.sched.CycleDelay())
	}
	s.stats.cycles.Add(1)

	if s.sched.ShouldRefreshWindows() {
		s.refreshWindows(ctx)
	}
	if s.sched.ShouldSwitchWindow() {
		if err := s.SwitchWindow(ctx); err != nil {
			return err
		}
	} else if err := s.idleAppSwitch(ctx); err != nil {
		return err
	}

	input, forced := s.sched.NextInputType()
	s.stats.setInput(input.String())
	if forced {
		s.log.Info("switching input type to break a long run", zap.Stringer("input", input))
	}
	if err := s.execute(ctx, input); err != nil {
		return err
	}
	if err := s.settleActivity(ctx); err != nil {
		return err
	}

	if s.sched.ShouldLongBreak() {
		if err := s.Break(ctx); err != nil {
			return err
		}
	}
	if s.sched.ShouldShortBreak() {
		if err := s.Break(ctx); err != nil {
			return err
		}
	}

	if n%s.cfg.SnippetEvery == 0 {
		if err := s.TypeSnippet(ctx); err != nil {
			return err
		}
		if err := s.MicroActions(ctx, s.cfg.MicroWindow); err != nil {
			return err
		}
	}
	return s.sleep(ctx, s.sched.CycleDelay())
}

// holdForUser reports whether the real user is active and synthetic input
// should wait.
func (s *Simulator) holdForUser(ctx context.Context) bool {
	if !s.cfg.YieldToUser || s.cfg.DryRun || s.idle == nil {
		return false
	}
	idle, err := s.idle.Idle(ctx)
	if err == nil {
		idle = s.userIdle(idle)
	}
	v := s.idleGate.Check(idle, err, "simulator")
	if v.Message != "" {
		s.log.Info(v.Message)
	}
	return !v.Simulate
}

// userIdle converts an OS idle sample into time since the real user's last
// input. The OS clock is reset by injected events too, so a sample is only
// credited to the user when it shows input newer than our last event.
func (s *Simulator) userIdle(idle time.Duration) time.Duration {
	now := s.now()
	if s.lastInjected.IsZero() || idle+ownInputSlack < now.Sub(s.lastInjected) {
		s.userSeen = now.Add(-idle)
		return idle
	}
	return now.Sub(s.userSeen)
}

// injected records a successful synthetic event.
func (s *Simulator) injected() {
	s.lastInjected = s.now()
}

func (s *Simulator) execute(ctx context.Context, input behavior.InputType) error {
	switch input {
	case behavior.InputMouse:
		switch s.sched.NextMouseAction() {
		case behavior.MouseScroll:
			return s.Scroll(ctx)
		case behavior.MouseMove:
			return s.MoveMouse(ctx)
		default:
			s.click(platform.ButtonLeft)
			return nil
		}
	case behavior.InputKeyboard:
		return s.KeyboardActivity(ctx)
	default:
		return s.MixedActivity(ctx)
	}
}

// MixedActivity runs one step of a mixed cycle.
func (s *Simulator) MixedActivity(ctx context.Context) error {
	switch s.sched.NextMixedAction() {
	case behavior.MixedScroll:
		return s.Scroll(ctx)
	case behavior.MixedMove:
		return s.MoveMouse(ctx)
	case behavior.MixedApp:
		switch app := s.currentApp(); {
		case app.IsEditor():
			return s.CodingActivity(ctx)
		case app == window.AppChrome:
			return s.SwitchChromeTabs(ctx)
		}
		return nil
	default:
		s.click(platform.ButtonLeft)
		if err := s.sleep(ctx, s.between(100*time.Millisecond, 300*time.Millisecond)); err != nil {
			return err
		}
		if !s.sched.Chance(0.3) {
			return nil
		}
		keys := []string{"tab", "space", "enter"}
		for range s.sched.IntBetween(1, 3) {
			s.key(keys[s.rnd.Intn(len(keys))])
			if err := s.sleep(ctx, s.between(100*time.Millisecond, 200*time.Millisecond)); err != nil {
				return err
			}
		}
		return nil
	}
}

// settleActivity eases the reported activity level toward a fresh target.
func (s *Simulator) settleActivity(ctx context.Context) error {
	target := s.activity.Target(s.rnd, s.now())
	for _, level := range s.activity.Settle(target) {
		s.stats.setLevel(level)
		if err := s.sleep(ctx, s.activity.Step()); err != nil {
			return err
		}
	}
	s.stats.setLevel(s.activity.Level())
	return nil
}

// Break idles for a profile break duration.
func (s *Simulator) Break(ctx context.Context) error {
	d := s.sched.BreakDuration()
	s.stats.breaks.Add(1)
	s.log.Info("taking a break", zap.Duration("duration", d))
	return s.sleep(ctx, d)
}

func (s *Simulator) sleep(ctx context.Context, d time.Duration) error {
	return s.sleeper.Sleep(ctx, d)
}

func (s *Simulator) between(lo, hi time.Duration) time.Duration {
	return s.sched.Between(behavior.DurationRange{Min: lo, Max: hi})
}

func (s *Simulator) fail(op string, err error) {
	s.stats.failures.Add(1)
	s.log.Warn("input injection failed", zap.String("op", op), zap.Error(err))
}
