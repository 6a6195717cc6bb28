package behavior

import (
	"math/rand"
	"time"
)

// Scheduler draws the next action from a Profile. It is not safe for
// concurrent use; each simulator owns one.
type Scheduler struct {
	rnd     *rand.Rand
	profile Profile

	lastInput InputType
	hasLast   bool
	runLength int
}

// NewScheduler creates a scheduler over the given random source.
func NewScheduler(rnd *rand.Rand, profile Profile) *Scheduler {
	return &Scheduler{rnd: rnd, profile: profile}
}

// Profile returns the parameter table in use.
func (s *Scheduler) Profile() Profile {
	return s.profile
}

// Rand exposes the random source so callers draw from the same stream.
func (s *Scheduler) Rand() *rand.Rand {
	return s.rnd
}

// NextInputType picks the input family for the next cycle. A family that
// repeats more than MaxSameInput times in a row is replaced: keyboard and
// mouse give way to mixed, mixed gives way to mouse. The run restarts but
// still belongs to the drawn family.
func (s *Scheduler) NextInputType() (InputType, bool) {
	w := s.profile.Input
	current := Weighted(s.rnd, []Choice[InputType]{
		{InputMouse, w.Mouse},
		{InputKeyboard, w.Keyboard},
		{InputMixed, w.Mixed},
	})

	if s.hasLast && current == s.lastInput {
		s.runLength++
	} else {
		s.runLength = 0
		s.lastInput = current
		s.hasLast = true
	}

	if s.runLength > s.profile.MaxSameInput {
		if current == InputMixed {
			current = InputMouse
		} else {
			current = InputMixed
		}
		s.runLength = 0
		return current, true
	}
	return current, false
}

// NextMouseAction picks the step for a mouse cycle.
func (s *Scheduler) NextMouseAction() MouseAction {
	w := s.profile.Mouse
	return Weighted(s.rnd, []Choice[MouseAction]{
		{MouseScroll, w.Scroll},
		{MouseMove, w.Move},
		{MouseClick, w.Click},
	})
}

// NextMixedAction picks the step for a mixed cycle.
func (s *Scheduler) NextMixedAction() MixedAction {
	w := s.profile.Mixed
	return Weighted(s.rnd, []Choice[MixedAction]{
		{MixedScroll, w.Scroll},
		{MixedMove, w.Move},
		{MixedApp, w.App},
		{MixedClickKeys, w.ClickKeys},
	})
}

// NextMicroAction picks a filler event.
func (s *Scheduler) NextMicroAction() MicroAction {
	w := s.profile.Micro
	return Weighted(s.rnd, []Choice[MicroAction]{
		{MicroMove, w.Move},
		{MicroClick, w.Click},
		{MicroScroll, w.Scroll},
		{MicroType, w.Type},
	})
}

// ShouldSwitchWindow draws the per-cycle switch probability from the
// WindowSwitch range and then flips against it, so the switch rate itself
// wanders between cycles.
func (s *Scheduler) ShouldSwitchWindow() bool {
	p := Float(s.rnd, s.profile.WindowSwitch.Min, s.profile.WindowSwitch.Max)
	return Chance(s.rnd, p)
}

func (s *Scheduler) ShouldRefreshWindows() bool { return Chance(s.rnd, s.profile.WindowRefresh) }
func (s *Scheduler) ShouldLongBreak() bool      { return Chance(s.rnd, s.profile.LongBreak) }
func (s *Scheduler) ShouldShortBreak() bool     { return Chance(s.rnd, s.profile.ShortBreak) }

// Chance flips a biased coin from the scheduler's stream.
func (s *Scheduler) Chance(p float64) bool { return Chance(s.rnd, p) }

// IntBetween draws an inclusive integer from the scheduler's stream.
func (s *Scheduler) IntBetween(lo, hi int) int { return IntBetween(s.rnd, lo, hi) }

// Between draws a duration from the scheduler's stream.
func (s *Scheduler) Between(r DurationRange) time.Duration { return Between(s.rnd, r) }

func (s *Scheduler) BreakDuration() time.Duration { return Between(s.rnd, s.profile.BreakDuration) }
func (s *Scheduler) CycleDelay() time.Duration    { return Between(s.rnd, s.profile.CycleDelay) }
func (s *Scheduler) KeyDelay() time.Duration      { return Between(s.rnd, s.profile.KeyDelay) }
func (s *Scheduler) SwitchSettle() time.Duration  { return Between(s.rnd, s.profile.SwitchSettle) }
func (s *Scheduler) ScrollStep() time.Duration    { return Between(s.rnd, s.profile.ScrollStep) }
func (s *Scheduler) MouseStep() time.Duration     { return Between(s.rnd, s.profile.MouseStepDelay) }
