package behavior

import "math/rand"

const (
	defaultScrollMax       = 1000
	defaultScrollThreshold = 800
)

// ScrollTracker keeps a virtual document offset so long scroll sessions
// drift back up instead of running off the bottom. Positive deltas scroll
// down.
type ScrollTracker struct {
	Position  int
	Max       int
	Threshold int
	Amplitude int
}

// NewScrollTracker returns a tracker at the top of the document.
func NewScrollTracker(amplitude int) *ScrollTracker {
	return &ScrollTracker{
		Max:       defaultScrollMax,
		Threshold: defaultScrollThreshold,
		Amplitude: amplitude,
	}
}

// Next returns the next scroll delta and updates the position. At or past
// the threshold it always scrolls back up by 20..50.
func (t *ScrollTracker) Next(rnd *rand.Rand) int {
	if t.Position >= t.Threshold {
		amount := -IntBetween(rnd, 20, 50)
		t.Position = max(0, t.Position+amount)
		return amount
	}

	amount := IntBetween(rnd, -t.Amplitude, t.Amplitude)
	t.Position = max(0, min(t.Max, t.Position+amount))
	return amount
}

// SplitSteps divides amount into steps floored parts; the last part takes
// the remainder so the parts always sum to amount.
func SplitSteps(amount, steps int) []int {
	if steps < 1 {
		steps = 1
	}
	part := amount / steps
	if amount%steps != 0 && amount < 0 {
		part--
	}
	parts := make([]int, steps)
	for i := range parts {
		parts[i] = part
	}
	parts[steps-1] = amount - part*(steps-1)
	return parts
}
