package platform

import (
	"context"
	"time"
)

// IdleDetector reports how long the real user has been idle.
type IdleDetector interface {
	Idle(ctx context.Context) (time.Duration, error)
	Close() error
}

type unsupportedIdle struct{}

func (unsupportedIdle) Idle(context.Context) (time.Duration, error) { return 0, ErrUnsupported }
func (unsupportedIdle) Close() error                                { return nil }
