package simulator

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"testing/fstest"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stigoleg/activity-sim/internal/behavior"
	"github.com/stigoleg/activity-sim/internal/platform"
	"github.com/stigoleg/activity-sim/internal/platform/patterns"
	"github.com/stigoleg/activity-sim/internal/snippets"
	"github.com/stigoleg/activity-sim/internal/window"
)

// fakeClock is both the Sleeper and the clock: sleeping advances time.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
	// cancelAfter cancels cancel once that many sleeps happened.
	cancelAfter int
	cancel      context.CancelFunc
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	n := len(c.sleeps)
	c.mu.Unlock()
	if c.cancel != nil && n >= c.cancelAfter {
		c.cancel()
	}
	return ctx.Err()
}

func (c *fakeClock) count(d time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, s := range c.sleeps {
		if s == d {
			n++
		}
	}
	return n
}

// relativeOnly hides absolute positioning, like the uinput backend.
type relativeOnly struct {
	*platform.DryRun
}

func (relativeOnly) Position() (int, int, error) { return 0, 0, errors.New("no absolute pointer") }

type fixedIdle struct {
	idle time.Duration
}

func (f fixedIdle) Idle(context.Context) (time.Duration, error) { return f.idle, nil }
func (fixedIdle) Close() error                                 { return nil }

type harness struct {
	sim   *Simulator
	inj   *platform.DryRun
	win   *window.Static
	clock *fakeClock
}

func newHarness(t *testing.T, cfg Config, mutate func(*Deps)) *harness {
	t.Helper()
	inj := platform.NewDryRun(zap.NewNop(), 1920, 1080)
	win := window.NewStatic(window.Rect{W: 1920, H: 1080})
	clock := newFakeClock()
	lib := snippets.New(fstest.MapFS{
		"html/a.html": {Data: []byte("<p>\n\thi</p>")},
	}, "")
	deps := Deps{
		Injector: inj,
		Windows:  win,
		Snippets: lib,
		Rand:     rand.New(rand.NewSource(42)),
		Sleeper:  clock,
		Now:      clock.Now,
	}
	if mutate != nil {
		mutate(&deps)
	}
	sim, err := New(cfg, deps)
	require.NoError(t, err)
	return &harness{sim: sim, inj: inj, win: win, clock: clock}
}

func (h *harness) focus(t *testing.T, title string) {
	t.Helper()
	ws, err := h.win.List(context.Background())
	require.NoError(t, err)
	for _, w := range ws {
		if window.Classify(w.Title) == window.Classify(title) {
			require.NoError(t, h.win.Activate(context.Background(), w))
			h.sim.setCurrent(w)
			return
		}
	}
	t.Fatalf("no window like %q", title)
}

func keys(events []platform.Event) []string {
	var out []string
	for _, ev := range events {
		if ev.Kind != platform.EventKey {
			continue
		}
		k := ev.Key
		for _, m := range ev.Mods {
			k = m + "+" + k
		}
		out = append(out, k)
	}
	return out
}

func TestNewValidatesDeps(t *testing.T) {
	_, err := New(Config{}, Deps{})
	assert.Error(t, err)

	bad := behavior.DefaultProfile()
	bad.MaxSameInput = 0
	_, err = New(Config{}, Deps{
		Injector: platform.NewDryRun(zap.NewNop(), 800, 600),
		Profile:  &bad,
	})
	assert.Error(t, err)
}

func TestNewDefaults(t *testing.T) {
	h := newHarness(t, Config{DryRun: true, MinEvents: 5}, nil)
	assert.Equal(t, DefaultStack, h.sim.cfg.Stack)
	assert.Equal(t, 1, h.sim.cfg.SnippetEvery)
	assert.Equal(t, DefaultMicroWindow, h.sim.cfg.MicroWindow)
	assert.Equal(t, 5, h.sim.sched.Profile().MinEventsPerMinute)
	assert.True(t, h.sim.absolute)

	h = newHarness(t, Config{}, nil)
	assert.Equal(t, behavior.DefaultProfile().SnippetEvery, h.sim.cfg.SnippetEvery)
}

func TestPrimaryModifier(t *testing.T) {
	assert.Equal(t, "cmd", PrimaryModifier("darwin"))
	assert.Equal(t, "ctrl", PrimaryModifier("linux"))
	assert.Equal(t, "ctrl", PrimaryModifier("windows"))
}

func TestRunStopsAtDeadline(t *testing.T) {
	h := newHarness(t, Config{DryRun: true}, nil)
	start := h.clock.Now()

	err := h.sim.Run(context.Background(), 10*time.Minute)
	require.NoError(t, err)

	assert.False(t, h.clock.Now().Before(start.Add(10*time.Minute)))
	snap := h.sim.Stats().Snapshot()
	assert.Positive(t, snap.Cycles)
	assert.Positive(t, snap.Events())
	assert.Positive(t, snap.Snippets)
	assert.NotEmpty(t, snap.Input)
	assert.NotEmpty(t, snap.Window)
	assert.Zero(t, snap.Failures)
	assert.Zero(t, snap.Held)
}

func TestRunReturnsOnCancel(t *testing.T) {
	h := newHarness(t, Config{DryRun: true}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.clock.cancel = cancel
	h.clock.cancelAfter = 25

	err := h.sim.Run(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMoveMouseAvoidsCorners(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	bounds := patterns.NewBounds(1920, 1080)

	require.NoError(t, h.inj.MoveTo(0, 0))
	require.NoError(t, h.sim.MoveMouse(context.Background()))

	var moves []platform.Event
	for _, ev := range h.inj.Events()[1:] {
		if ev.Kind == platform.EventMoveTo {
			moves = append(moves, ev)
		}
	}
	require.NotEmpty(t, moves)
	assert.Equal(t, 960, moves[0].X, "parked cursor is recentered first")
	assert.Equal(t, 540, moves[0].Y)
	for _, ev := range moves {
		assert.False(t, bounds.NearCorner(patterns.Point{X: float64(ev.X), Y: float64(ev.Y)}), "%+v", ev)
		assert.InDelta(t, 960, ev.X, 60)
		assert.InDelta(t, 540, ev.Y, 60)
	}
}

func TestMoveMouseWithRelativeBackend(t *testing.T) {
	inj := platform.NewDryRun(zap.NewNop(), 1920, 1080)
	clock := newFakeClock()
	sim, err := New(Config{}, Deps{
		Injector: relativeOnly{inj},
		Windows:  window.NewStatic(window.Rect{W: 1920, H: 1080}),
		Rand:     rand.New(rand.NewSource(7)),
		Sleeper:  clock,
		Now:      clock.Now,
	})
	require.NoError(t, err)
	assert.False(t, sim.absolute)

	for range 20 {
		require.NoError(t, sim.MoveMouse(context.Background()))
	}
	dx, dy := 0, 0
	for _, ev := range inj.Events() {
		require.Equal(t, platform.EventMove, ev.Kind)
		dx += ev.X
		dy += ev.Y
	}
	x, y, err := inj.Position()
	require.NoError(t, err)
	assert.Equal(t, 960+dx, x)
	assert.Equal(t, 540+dy, y)
	vx, vy := sim.virtual.Ints()
	assert.Equal(t, x, vx)
	assert.Equal(t, y, vy)
}

func TestJiggleReturnsToStart(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	for range 10 {
		require.NoError(t, h.sim.Jiggle(context.Background()))
	}
	x, y, err := h.inj.Position()
	require.NoError(t, err)
	assert.Equal(t, 960, x)
	assert.Equal(t, 540, y)
}

func TestScrollStaysInDocument(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	for range 50 {
		require.NoError(t, h.sim.Scroll(context.Background()))
		assert.GreaterOrEqual(t, h.sim.scroll.Position, 0)
		assert.LessOrEqual(t, h.sim.scroll.Position, h.sim.scroll.Max)
	}
	assert.Positive(t, h.inj.Counts()[platform.EventScroll])
	assert.Equal(t, int64(h.inj.Counts()[platform.EventScroll]), h.sim.Stats().Snapshot().Scrolls)
}

func TestCodingActivityErasesWhatItTyped(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	h.focus(t, "Visual Studio Code")

	require.NoError(t, h.sim.CodingActivity(context.Background()))

	typed := h.inj.Typed()
	assert.Contains(t, snippets.CodePatterns(), typed)
	backspaces := 0
	for _, k := range keys(h.inj.Events()) {
		if k == "backspace" {
			backspaces++
		}
	}
	assert.Equal(t, utf8.RuneCountInString(typed), backspaces)
}

func TestKeyboardActivityOutsideEditor(t *testing.T) {
	h := newHarness(t, Config{Modifier: "ctrl"}, nil)
	h.focus(t, "Google Chrome")

	for range 20 {
		require.NoError(t, h.sim.KeyboardActivity(context.Background()))
	}
	ks := keys(h.inj.Events())
	require.NotEmpty(t, ks)
	for i := 0; i < len(ks); i += 2 {
		assert.Equal(t, "ctrl+f", ks[i])
		assert.Equal(t, "escape", ks[i+1])
	}
	assert.Empty(t, h.inj.Typed())
}

func TestTypeSnippet(t *testing.T) {
	h := newHarness(t, Config{DryRun: true, Modifier: "ctrl"}, nil)
	require.NoError(t, h.sim.TypeSnippet(context.Background()))

	assert.Equal(t, "<p>hi</p>", h.inj.Typed())
	assert.Equal(t, []string{"ctrl+n", "enter", "tab", "ctrl+w"}, keys(h.inj.Events()))
	assert.Equal(t, int64(1), h.sim.Stats().Snapshot().Snippets)
}

func TestTypeSnippetNeedsEditorOutsideDryRun(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	h.focus(t, "Google Chrome")
	require.NoError(t, h.sim.TypeSnippet(context.Background()))
	assert.Empty(t, h.inj.Events())
}

func TestMicroActionsPacing(t *testing.T) {
	h := newHarness(t, Config{MinEvents: 5}, nil)
	require.NoError(t, h.sim.MicroActions(context.Background(), 30*time.Second))
	gap := behavior.MicroInterval(5, 30*time.Second)
	assert.Equal(t, 5, h.clock.count(gap))
}

func TestSwitchWindowFocusesAnother(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	h.sim.refreshWindows(context.Background())
	before := h.sim.current.Title

	require.NoError(t, h.sim.SwitchWindow(context.Background()))

	after, err := h.win.Active(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, before, after.Title)
	assert.Equal(t, after.Title, h.sim.current.Title)
	snap := h.sim.Stats().Snapshot()
	assert.Equal(t, int64(1), snap.Switches)
	assert.Equal(t, after.Title, snap.Window)
}

func TestSwitchWindowWithoutWindows(t *testing.T) {
	h := newHarness(t, Config{}, func(d *Deps) {
		d.Windows = emptyWindows{}
	})
	require.NoError(t, h.sim.SwitchWindow(context.Background()))
	assert.Zero(t, h.sim.Stats().Snapshot().Switches)
	assert.Equal(t, []window.Window{fallbackWindow}, h.sim.known)
}

type emptyWindows struct{}

func (emptyWindows) Name() string { return "empty" }
func (emptyWindows) List(context.Context) ([]window.Window, error) {
	return nil, window.ErrNoWindows
}
func (emptyWindows) Active(context.Context) (window.Window, error) {
	return window.Window{}, window.ErrUnsupported
}
func (emptyWindows) Activate(context.Context, window.Window) error { return window.ErrUnsupported }
func (emptyWindows) Geometry(context.Context, window.Window) (window.Rect, error) {
	return window.Rect{}, window.ErrUnsupported
}
func (emptyWindows) Close() error { return nil }

func TestTabSwitchingRequiresApp(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	h.focus(t, "Visual Studio Code")
	require.NoError(t, h.sim.SwitchChromeTabs(context.Background()))
	assert.Empty(t, h.inj.Events())

	require.NoError(t, h.sim.SwitchVSCodeTabs(context.Background()))
	ks := keys(h.inj.Events())
	require.NotEmpty(t, ks)
	assert.LessOrEqual(t, len(ks), 3)
	for _, k := range ks {
		assert.Equal(t, "ctrl+tab", k)
	}
}

func TestSwitchEditorFiles(t *testing.T) {
	h := newHarness(t, Config{Modifier: "ctrl"}, nil)
	h.focus(t, "Cursor")
	require.NoError(t, h.sim.SwitchEditorFiles(context.Background()))

	ks := keys(h.inj.Events())
	require.NotEmpty(t, ks)
	assert.Equal(t, "ctrl+p", ks[0])
	assert.Equal(t, "enter", ks[len(ks)-1])
	assert.NotEmpty(t, h.inj.Typed())
}

func TestCycleHoldsWhileUserActive(t *testing.T) {
	h := newHarness(t, Config{YieldToUser: true}, func(d *Deps) {
		d.Idle = fixedIdle{idle: time.Second}
	})
	require.NoError(t, h.sim.Cycle(context.Background(), 1))
	snap := h.sim.Stats().Snapshot()
	assert.Equal(t, int64(1), snap.Held)
	assert.Zero(t, snap.Cycles)
	assert.Empty(t, h.inj.Events())
}

func TestCycleRunsWhenUserIdle(t *testing.T) {
	h := newHarness(t, Config{YieldToUser: true}, func(d *Deps) {
		d.Idle = fixedIdle{idle: time.Minute}
	})
	require.NoError(t, h.sim.Cycle(context.Background(), 1))
	snap := h.sim.Stats().Snapshot()
	assert.Zero(t, snap.Held)
	assert.Equal(t, int64(1), snap.Cycles)
	assert.InDelta(t, 0.42, snap.Level, 0.15)
}

type failingInjector struct {
	*platform.DryRun
}

func (failingInjector) Click(string) error { return errors.New("click refused") }

func TestFailuresAreCountedNotFatal(t *testing.T) {
	inj := failingInjector{platform.NewDryRun(zap.NewNop(), 800, 600)}
	clock := newFakeClock()
	sim, err := New(Config{}, Deps{Injector: inj, Sleeper: clock, Now: clock.Now, Rand: rand.New(rand.NewSource(1))})
	require.NoError(t, err)

	sim.click(platform.ButtonLeft)
	sim.click(platform.ButtonLeft)
	snap := sim.Stats().Snapshot()
	assert.Equal(t, int64(2), snap.Failures)
	assert.Zero(t, snap.Clicks)
}

func TestNewRejectsProfileWithoutSnippetCadence(t *testing.T) {
	p := behavior.DefaultProfile()
	p.SnippetEvery = 0
	_, err := New(Config{}, Deps{
		Injector: platform.NewDryRun(zap.NewNop(), 800, 600),
		Profile:  &p,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snippet_every")
}

func TestRealRunUsesProfileSnippetCadence(t *testing.T) {
	p := behavior.DefaultProfile()
	p.SnippetEvery = 2
	h := newHarness(t, Config{}, func(d *Deps) { d.Profile = &p })
	assert.Equal(t, 2, h.sim.cfg.SnippetEvery)

	require.NoError(t, h.sim.Run(context.Background(), 5*time.Minute))
	assert.Positive(t, h.sim.Stats().Snapshot().Cycles)
}

// echoIdle is an injector whose idle clock is reset by its own events, the
// way the OS idle counters see synthetic input.
type echoIdle struct {
	*platform.DryRun
	clock *fakeClock

	mu   sync.Mutex
	last time.Time
	// userAt marks real input the OS saw outside the injector.
	userAt time.Time
}

func (e *echoIdle) stamp() {
	e.mu.Lock()
	e.last = e.clock.Now()
	e.mu.Unlock()
}

func (e *echoIdle) MoveTo(x, y int) error { e.stamp(); return e.DryRun.MoveTo(x, y) }
func (e *echoIdle) MoveRelative(dx, dy int) error { e.stamp(); return e.DryRun.MoveRelative(dx, dy) }
func (e *echoIdle) Click(b string) error { e.stamp(); return e.DryRun.Click(b) }
func (e *echoIdle) Scroll(n int) error { e.stamp(); return e.DryRun.Scroll(n) }
func (e *echoIdle) KeyTap(k string, m ...string) error { e.stamp(); return e.DryRun.KeyTap(k, m...) }
func (e *echoIdle) TypeRune(r rune) error { e.stamp(); return e.DryRun.TypeRune(r) }

func (e *echoIdle) Idle(context.Context) (time.Duration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	latest := e.last
	if e.userAt.After(latest) {
		latest = e.userAt
	}
	if latest.IsZero() {
		return time.Hour, nil
	}
	return e.clock.Now().Sub(latest), nil
}

func (e *echoIdle) Close() error { return nil }

func TestOwnInputDoesNotCountAsUserActivity(t *testing.T) {
	clock := newFakeClock()
	inj := &echoIdle{DryRun: platform.NewDryRun(zap.NewNop(), 1920, 1080), clock: clock}
	sim, err := New(Config{YieldToUser: true}, Deps{
		Injector: inj,
		Idle:     inj,
		Windows:  window.NewStatic(window.Rect{W: 1920, H: 1080}),
		Rand:     rand.New(rand.NewSource(42)),
		Sleeper:  clock,
		Now:      clock.Now,
	})
	require.NoError(t, err)

	require.NoError(t, sim.Run(context.Background(), 30*time.Minute))
	snap := sim.Stats().Snapshot()
	assert.Positive(t, snap.Cycles)
	assert.Positive(t, snap.Events())
	assert.Zero(t, snap.Held)
}

func TestUserInputAfterOursHolds(t *testing.T) {
	clock := newFakeClock()
	inj := &echoIdle{DryRun: platform.NewDryRun(zap.NewNop(), 1920, 1080), clock: clock}
	sim, err := New(Config{YieldToUser: true}, Deps{
		Injector: inj,
		Idle:     inj,
		Windows:  window.NewStatic(window.Rect{W: 1920, H: 1080}),
		Rand:     rand.New(rand.NewSource(42)),
		Sleeper:  clock,
		Now:      clock.Now,
	})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, sim.Cycle(ctx, 1))
	require.Equal(t, int64(1), sim.Stats().Snapshot().Cycles)

	// The user touches the mouse after our last event.
	require.NoError(t, clock.Sleep(ctx, 3*time.Second))
	inj.mu.Lock()
	inj.userAt = clock.Now()
	inj.mu.Unlock()
	require.NoError(t, clock.Sleep(ctx, time.Second))

	require.NoError(t, sim.Cycle(ctx, 2))
	snap := sim.Stats().Snapshot()
	assert.Equal(t, int64(1), snap.Held)
	assert.Equal(t, int64(1), snap.Cycles)
}
