package simulator

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/stigoleg/activity-sim/internal/behavior"
	"github.com/stigoleg/activity-sim/internal/platform/patterns"
)

const (
	pathStepsMin = 10
	pathStepsMax = 20
)

// cursor returns the pointer position, from the backend when it can report
// one and from the virtual cursor otherwise.
func (s *Simulator) cursor() patterns.Point {
	if s.absolute {
		x, y, err := s.inj.Position()
		if err == nil {
			return patterns.Point{X: float64(x), Y: float64(y)}
		}
		s.log.Debug("position lookup failed", zap.Error(err))
	}
	return s.virtual
}

// moveTo puts the pointer on p, absolutely when possible and as a relative
// hop from the virtual cursor otherwise.
func (s *Simulator) moveTo(p patterns.Point) {
	p = s.screen.Clamp(p)
	if s.absolute {
		x, y := p.Ints()
		if err := s.inj.MoveTo(x, y); err != nil {
			s.fail("move", err)
			return
		}
	} else {
		dx := int(math.Round(p.X - s.virtual.X))
		dy := int(math.Round(p.Y - s.virtual.Y))
		if dx == 0 && dy == 0 {
			return
		}
		if err := s.inj.MoveRelative(dx, dy); err != nil {
			s.fail("move", err)
			return
		}
		p = s.virtual.Add(patterns.Point{X: float64(dx), Y: float64(dy)})
	}
	s.virtual = p
	s.injected()
	s.stats.moves.Add(1)
}

func (s *Simulator) moveBy(dx, dy int) {
	if dx == 0 && dy == 0 {
		return
	}
	if err := s.inj.MoveRelative(dx, dy); err != nil {
		s.fail("move", err)
		return
	}
	s.virtual = s.screen.Clamp(s.virtual.Add(patterns.Point{X: float64(dx), Y: float64(dy)}))
	s.injected()
	s.stats.moves.Add(1)
}

func (s *Simulator) click(button string) {
	if err := s.inj.Click(button); err != nil {
		s.fail("click", err)
		return
	}
	s.injected()
	s.stats.clicks.Add(1)
}

func (s *Simulator) wheel(amount int) {
	if amount == 0 {
		return
	}
	if err := s.inj.Scroll(amount); err != nil {
		s.fail("scroll", err)
		return
	}
	s.injected()
	s.stats.scrolls.Add(1)
}

// randomPoint draws a point inside the screen margin.
func (s *Simulator) randomPoint() patterns.Point {
	p := patterns.Point{
		X: float64(s.rnd.Intn(s.screen.W + 1)),
		Y: float64(s.rnd.Intn(s.screen.H + 1)),
	}
	return s.screen.Clamp(p)
}

// MoveMouse glides the cursor on an eased path to a nearby point that stays
// clear of the screen corners.
func (s *Simulator) MoveMouse(ctx context.Context) error {
	start := s.cursor()
	from, to := s.gen.Destination(start, s.screen, s.sched.Profile().MouseMaxDelta)
	if from != start {
		s.log.Debug("cursor parked in a corner, recentering")
		s.moveTo(from)
		if err := s.sleep(ctx, s.sched.MouseStep()); err != nil {
			return err
		}
	}
	steps := s.gen.PathSteps(pathStepsMin, pathStepsMax)
	for _, p := range patterns.EasedPath(from, to, steps) {
		s.moveTo(p)
		if err := s.sleep(ctx, s.sched.MouseStep()); err != nil {
			return err
		}
	}
	return nil
}

// Jiggle traces a small shape around the cursor and returns to where it
// started.
func (s *Simulator) Jiggle(ctx context.Context) error {
	points, shape := s.gen.Jiggle()
	s.log.Debug("jiggle", zap.Stringer("shape", shape), zap.Int("points", len(points)))

	var at patterns.Point
	hop := func(p patterns.Point) {
		dx := int(math.Round(p.X - at.X))
		dy := int(math.Round(p.Y - at.Y))
		s.moveBy(dx, dy)
		at = at.Add(patterns.Point{X: float64(dx), Y: float64(dy)})
	}
	for i, p := range points {
		hop(p)
		dist := patterns.SegmentDistance(points, i)
		delay := s.gen.StepDelay(dist)
		if s.gen.ShouldPause() {
			delay += s.gen.PauseDelay()
		}
		if s.gen.ShouldAddIntermediate(points, i, dist) {
			mid, d := s.gen.Intermediate(points, i, delay)
			if err := s.sleep(ctx, d); err != nil {
				return err
			}
			hop(mid)
		}
		if err := s.sleep(ctx, delay); err != nil {
			return err
		}
	}
	if err := s.sleep(ctx, s.gen.ReturnDelay()); err != nil {
		return err
	}
	hop(patterns.Point{})
	return nil
}

// Scroll runs 2..5 scroll bursts, each split into 2..4 wheel steps. The
// scroll tracker keeps the virtual document position in range.
func (s *Simulator) Scroll(ctx context.Context) error {
	for range s.sched.IntBetween(2, 5) {
		amount := s.scroll.Next(s.rnd)
		for _, step := range behavior.SplitSteps(amount, s.sched.IntBetween(2, 4)) {
			s.wheel(step)
			if err := s.sleep(ctx, s.sched.ScrollStep()); err != nil {
				return err
			}
		}
		if err := s.sleep(ctx, s.between(100*time.Millisecond, 300*time.Millisecond)); err != nil {
			return err
		}
	}
	return nil
}
