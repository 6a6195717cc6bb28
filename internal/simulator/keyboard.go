package simulator

import (
	"context"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/stigoleg/activity-sim/internal/behavior"
	"github.com/stigoleg/activity-sim/internal/platform"
	"github.com/stigoleg/activity-sim/internal/snippets"
)

var (
	codingPause    = behavior.DurationRange{Min: 500 * time.Millisecond, Max: time.Second}
	backspaceDelay = behavior.DurationRange{Min: 50 * time.Millisecond, Max: 150 * time.Millisecond}
	snippetKey     = behavior.DurationRange{Min: 20 * time.Millisecond, Max: 40 * time.Millisecond}
	microMove      = 150 * time.Millisecond
)

func (s *Simulator) key(name string, mods ...string) {
	if err := s.inj.KeyTap(name, mods...); err != nil {
		s.fail("key", err)
		return
	}
	s.injected()
	s.stats.keys.Add(1)
}

func (s *Simulator) hotkey(name string) {
	s.key(name, s.cfg.Modifier)
}

// typeRune sends r, mapping layout characters to their keys.
func (s *Simulator) typeRune(r rune) {
	switch r {
	case '\n':
		s.key("enter")
		return
	case '\t':
		s.key("tab")
		return
	case '\r':
		return
	}
	if err := s.inj.TypeRune(r); err != nil {
		s.fail("type", err)
		return
	}
	s.injected()
	s.stats.keys.Add(1)
}

// typeText types text one rune at a time with delay drawn per rune.
func (s *Simulator) typeText(ctx context.Context, text string, delay behavior.DurationRange) error {
	for _, r := range text {
		s.typeRune(r)
		if err := s.sleep(ctx, s.sched.Between(delay)); err != nil {
			return err
		}
	}
	return nil
}

// CodingActivity types a one-line code fragment, waits, then erases it so
// the edited file is left as it was.
func (s *Simulator) CodingActivity(ctx context.Context) error {
	pattern := snippets.Pick(s.rnd, snippets.CodePatterns())
	s.log.Debug("coding", zap.String("pattern", pattern))
	if err := s.typeText(ctx, pattern, s.sched.Profile().KeyDelay); err != nil {
		return err
	}
	if err := s.sleep(ctx, s.sched.Between(codingPause)); err != nil {
		return err
	}
	return s.erase(ctx, utf8.RuneCountInString(pattern))
}

func (s *Simulator) erase(ctx context.Context, n int) error {
	for range n {
		s.key("backspace")
		if err := s.sleep(ctx, s.sched.Between(backspaceDelay)); err != nil {
			return err
		}
	}
	return nil
}

// KeyboardActivity runs one keyboard cycle: coding or quick-open in an
// editor, otherwise an occasional find-and-dismiss.
func (s *Simulator) KeyboardActivity(ctx context.Context) error {
	apps := s.sched.Profile().Apps
	if app := s.currentApp(); app.IsEditor() {
		if s.sched.Chance(apps.CodingInIDE) {
			return s.CodingActivity(ctx)
		}
		return s.SwitchEditorFiles(ctx)
	}
	if !s.sched.Chance(apps.FindShortcut) {
		return nil
	}
	s.hotkey("f")
	if err := s.sleep(ctx, s.between(200*time.Millisecond, 500*time.Millisecond)); err != nil {
		return err
	}
	s.key("escape")
	return nil
}

// TypeSnippet opens a scratch tab, types a snippet of the configured stack
// in bursts with a little mouse drift between them, and closes the tab.
func (s *Simulator) TypeSnippet(ctx context.Context) error {
	if !s.cfg.DryRun && !s.currentApp().IsEditor() {
		s.log.Debug("no editor focused, skipping snippet")
		return nil
	}
	text := s.lib.Random(s.rnd, s.cfg.Stack)
	s.log.Info("typing snippet", zap.String("stack", s.cfg.Stack), zap.Int("runes", utf8.RuneCountInString(text)))

	s.hotkey("n")
	if err := s.sleep(ctx, 200*time.Millisecond); err != nil {
		return err
	}
	for _, chunk := range behavior.Chunk(text, SnippetChunk) {
		if err := s.typeText(ctx, chunk, snippetKey); err != nil {
			return err
		}
		s.moveBy(s.sched.IntBetween(0, 10), s.sched.IntBetween(0, 10))
		if err := s.sleep(ctx, s.between(20*time.Millisecond, 80*time.Millisecond)); err != nil {
			return err
		}
	}
	s.hotkey("w")
	s.stats.snippets.Add(1)
	return nil
}

// MicroActions fires MinEventsPerMinute filler events spread over window.
func (s *Simulator) MicroActions(ctx context.Context, window time.Duration) error {
	n := s.sched.Profile().MinEventsPerMinute
	gap := behavior.MicroInterval(n, window)
	s.log.Debug("micro-action burst", zap.Int("events", n), zap.Duration("gap", gap))
	for range n {
		switch s.sched.NextMicroAction() {
		case behavior.MicroMove:
			if s.sched.Chance(0.5) {
				if err := s.Jiggle(ctx); err != nil {
					return err
				}
			} else {
				s.moveTo(s.randomPoint())
				if err := s.sleep(ctx, s.between(20*time.Millisecond, microMove)); err != nil {
					return err
				}
			}
		case behavior.MicroClick:
			s.click(platform.ButtonLeft)
		case behavior.MicroScroll:
			s.wheel(s.sched.IntBetween(-3, 3))
		case behavior.MicroType:
			s.typeRune('a')
			s.key("backspace")
		}
		if err := s.sleep(ctx, gap); err != nil {
			return err
		}
	}
	return nil
}
