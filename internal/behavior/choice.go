package behavior

import (
	"math/rand"
	"time"
)

// Choice pairs a value with its relative weight.
type Choice[T any] struct {
	Value  T
	Weight float64
}

// Weighted draws one value with probability proportional to its weight.
// Float rounding that walks past the last bucket lands on the last entry.
func Weighted[T any](rnd *rand.Rand, choices []Choice[T]) T {
	var zero T
	if len(choices) == 0 {
		return zero
	}

	var total float64
	for _, c := range choices {
		if c.Weight > 0 {
			total += c.Weight
		}
	}
	if total <= 0 {
		return choices[len(choices)-1].Value
	}

	r := rnd.Float64() * total
	var cum float64
	for _, c := range choices {
		if c.Weight <= 0 {
			continue
		}
		cum += c.Weight
		if r < cum {
			return c.Value
		}
	}
	return choices[len(choices)-1].Value
}

// Float returns a uniform value in [lo, hi).
func Float(rnd *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rnd.Float64()*(hi-lo)
}

// IntBetween returns a uniform integer in [lo, hi].
func IntBetween(rnd *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rnd.Intn(hi-lo+1)
}

// Between returns a uniform duration inside r.
func Between(rnd *rand.Rand, r DurationRange) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + time.Duration(rnd.Int63n(int64(r.Max-r.Min)+1))
}

// Chance reports true with probability p.
func Chance(rnd *rand.Rand, p float64) bool {
	return rnd.Float64() < p
}
