package platform

import "context"

// SleepGuard holds off screen lock and suspend while a session runs.
type SleepGuard interface {
	Acquire(ctx context.Context) error
	Release() error
}

type noGuard struct{}

func (noGuard) Acquire(context.Context) error { return ErrUnsupported }
func (noGuard) Release() error                { return nil }
