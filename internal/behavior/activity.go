package behavior

import (
	"math"
	"math/rand"
	"time"
)

// ActivityLevel is a value in [0,1] that drifts toward a moving target. It
// follows a slow sine over the hour plus per-call noise so the reported
// intensity never sits flat.
type ActivityLevel struct {
	profile ActivityProfile
	level   float64
}

// NewActivityLevel starts at zero.
func NewActivityLevel(profile ActivityProfile) *ActivityLevel {
	return &ActivityLevel{profile: profile}
}

// Level returns the current value.
func (a *ActivityLevel) Level() float64 {
	return a.level
}

// Target draws the next value to ease toward.
func (a *ActivityLevel) Target(rnd *rand.Rand, now time.Time) float64 {
	p := a.profile
	base := Float(rnd, p.Base.Min, p.Base.Max)
	t := float64(now.Unix() % 3600)
	variation := math.Sin(t/p.Period.Seconds()) * p.Variation
	return math.Max(p.Floor, math.Min(p.Ceiling, base+variation))
}

// Settle moves the level toward target until it is within epsilon and
// returns every intermediate value. Callers pace the steps with Step.
func (a *ActivityLevel) Settle(target float64) []float64 {
	p := a.profile
	var steps []float64
	for math.Abs(a.level-target) > p.Epsilon {
		a.level += (target - a.level) * p.Easing
		steps = append(steps, a.level)
	}
	return steps
}

// Step is the pause between two settle steps.
func (a *ActivityLevel) Step() time.Duration {
	return a.profile.Step
}
