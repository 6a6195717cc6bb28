package simulator

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/stigoleg/activity-sim/internal/behavior"
	"github.com/stigoleg/activity-sim/internal/platform/patterns"
	"github.com/stigoleg/activity-sim/internal/snippets"
	"github.com/stigoleg/activity-sim/internal/window"
)

var (
	fallbackWindow = window.Window{ID: "default", Title: "Default Window"}
	searchKey      = behavior.DurationRange{Min: 50 * time.Millisecond, Max: 150 * time.Millisecond}
)

func (s *Simulator) currentApp() window.App {
	return window.Classify(s.current.Title)
}

func (s *Simulator) setCurrent(w window.Window) {
	s.current = w
	s.stats.setWindow(w.Title)
}

// refreshWindows reloads the window list and syncs the active window.
func (s *Simulator) refreshWindows(ctx context.Context) {
	ws, err := s.windows.List(ctx)
	if err != nil || len(ws) == 0 {
		s.log.Debug("window list unavailable", zap.Error(err))
		ws = []window.Window{fallbackWindow}
	}
	s.known = ws
	if active, err := s.windows.Active(ctx); err == nil && active.Title != "" {
		s.setCurrent(active)
	} else if err != nil {
		s.log.Debug("active window unknown", zap.Error(err))
	}
}

// SwitchWindow focuses another window and, depending on what it is, flips
// a few tabs or opens a file there.
func (s *Simulator) SwitchWindow(ctx context.Context) error {
	if len(s.known) == 0 {
		s.refreshWindows(ctx)
	}
	target, err := window.Pick(s.rnd, s.known, s.current.Title)
	if errors.Is(err, window.ErrNoWindows) || target.Title == s.current.Title {
		return nil
	}
	if target.ID == fallbackWindow.ID {
		return nil
	}
	if err := s.windows.Activate(ctx, target); err != nil {
		s.fail("activate", err)
		return nil
	}
	s.setCurrent(target)
	s.stats.switches.Add(1)
	s.log.Info("switched window", zap.String("title", target.Title))

	if err := s.sleep(ctx, s.sched.SwitchSettle()); err != nil {
		return err
	}
	if err := s.enterWindow(ctx, target); err != nil {
		return err
	}
	return s.afterSwitch(ctx)
}

// enterWindow glides the pointer into the focused window so later clicks
// land there. Backends without absolute positioning skip it.
func (s *Simulator) enterWindow(ctx context.Context, w window.Window) error {
	if !s.absolute {
		return nil
	}
	r, err := s.windows.Geometry(ctx, w)
	if err != nil || r.W <= 0 || r.H <= 0 {
		s.log.Debug("window geometry unavailable", zap.String("title", w.Title), zap.Error(err))
		return nil
	}
	cx, cy := r.Center()
	to := patterns.Point{
		X: float64(cx + s.sched.IntBetween(-r.W/4, r.W/4)),
		Y: float64(cy + s.sched.IntBetween(-r.H/4, r.H/4)),
	}
	for _, p := range patterns.EasedPath(s.cursor(), to, s.gen.PathSteps(pathStepsMin, pathStepsMax)) {
		s.moveTo(p)
		if err := s.sleep(ctx, s.sched.MouseStep()); err != nil {
			return err
		}
	}
	return nil
}

// afterSwitch is the follow-up once a new window has focus.
func (s *Simulator) afterSwitch(ctx context.Context) error {
	apps := s.sched.Profile().Apps
	switch s.currentApp() {
	case window.AppChrome:
		if s.sched.Chance(apps.ChromeTabs) {
			return s.SwitchChromeTabs(ctx)
		}
	case window.AppCursor:
		if s.sched.Chance(apps.EditorFiles) {
			return s.SwitchEditorFiles(ctx)
		}
	case window.AppVSCode:
		if s.sched.Chance(apps.VSCodeTabs) {
			return s.SwitchVSCodeTabs(ctx)
		}
		if s.sched.Chance(apps.VSCodeFiles) {
			return s.SwitchEditorFiles(ctx)
		}
	}
	return nil
}

// idleAppSwitch is the in-app navigation done on cycles without a window
// switch.
func (s *Simulator) idleAppSwitch(ctx context.Context) error {
	apps := s.sched.Profile().Apps
	switch s.currentApp() {
	case window.AppChrome:
		if s.sched.Chance(apps.IdleSwitch) {
			return s.SwitchChromeTabs(ctx)
		}
	case window.AppCursor:
		if s.sched.Chance(apps.IdleSwitch) {
			return s.SwitchEditorFiles(ctx)
		}
	case window.AppVSCode:
		if s.sched.Chance(apps.IdleSwitch) {
			return s.SwitchVSCodeTabs(ctx)
		}
		if s.sched.Chance(apps.IdleVSCode) {
			return s.SwitchEditorFiles(ctx)
		}
	}
	return nil
}

func (s *Simulator) cycleTabs(ctx context.Context) error {
	for range s.sched.IntBetween(1, 3) {
		s.key("tab", "ctrl")
		if err := s.sleep(ctx, s.between(200*time.Millisecond, 500*time.Millisecond)); err != nil {
			return err
		}
	}
	return nil
}

// SwitchChromeTabs presses ctrl+tab one to three times.
func (s *Simulator) SwitchChromeTabs(ctx context.Context) error {
	if s.currentApp() != window.AppChrome {
		return nil
	}
	return s.cycleTabs(ctx)
}

// SwitchVSCodeTabs presses ctrl+tab one to three times.
func (s *Simulator) SwitchVSCodeTabs(ctx context.Context) error {
	if s.currentApp() != window.AppVSCode {
		return nil
	}
	return s.cycleTabs(ctx)
}

// SwitchEditorFiles opens quick-open, types one or two search fragments,
// sometimes arrows down the results, and opens the selection.
func (s *Simulator) SwitchEditorFiles(ctx context.Context) error {
	app := s.currentApp()
	if !app.IsEditor() {
		return nil
	}
	s.hotkey("p")
	if err := s.sleep(ctx, s.between(300*time.Millisecond, 500*time.Millisecond)); err != nil {
		return err
	}
	pool := snippets.SearchPatterns(app)
	for range s.sched.IntBetween(1, 2) {
		if err := s.typeText(ctx, snippets.Pick(s.rnd, pool), searchKey); err != nil {
			return err
		}
		if err := s.sleep(ctx, s.between(200*time.Millisecond, 400*time.Millisecond)); err != nil {
			return err
		}
	}
	if s.sched.Chance(0.4) {
		for range s.sched.IntBetween(1, 3) {
			s.key("down")
			if err := s.sleep(ctx, s.between(100*time.Millisecond, 200*time.Millisecond)); err != nil {
				return err
			}
		}
	}
	s.key("enter")
	return s.sleep(ctx, s.between(200*time.Millisecond, 400*time.Millisecond))
}
