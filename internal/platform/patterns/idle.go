package patterns

import (
	"fmt"
	"time"
)

const (
	// IdleThreshold is how long the real user must be idle before
	// synthetic input resumes.
	IdleThreshold = 5 * time.Second

	// ActiveLogInterval rate-limits the "user is active" message.
	ActiveLogInterval = 2 * time.Minute
)

// IdleVerdict is the outcome of one idle check.
type IdleVerdict struct {
	Simulate bool
	// Message is non-empty only when the caller should log it.
	Message string
}

// IdleTracker turns idle-time samples into simulate/skip verdicts with
// rate-limited transition messages.
type IdleTracker struct {
	Threshold time.Duration
	now       func() time.Time
	lastLog   time.Time
}

// NewIdleTracker uses IdleThreshold and the wall clock.
func NewIdleTracker() *IdleTracker {
	return &IdleTracker{Threshold: IdleThreshold, now: time.Now}
}

// Check evaluates one sample. A failed sample never blocks simulation.
func (t *IdleTracker) Check(idle time.Duration, err error, who string) IdleVerdict {
	if err != nil {
		return IdleVerdict{Simulate: true}
	}

	now := t.now()
	if idle <= t.Threshold {
		if t.lastLog.IsZero() || now.Sub(t.lastLog) > ActiveLogInterval {
			t.lastLog = now
			return IdleVerdict{Message: fmt.Sprintf("%s: user is active (idle %v), holding synthetic input", who, idle)}
		}
		return IdleVerdict{}
	}

	if !t.lastLog.IsZero() {
		t.lastLog = time.Time{}
		return IdleVerdict{Simulate: true, Message: fmt.Sprintf("%s: user idle for %v, resuming", who, idle)}
	}
	return IdleVerdict{Simulate: true}
}
