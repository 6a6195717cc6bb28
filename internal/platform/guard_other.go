//go:build !linux && !windows && !darwin

package platform

import "go.uber.org/zap"

// NewSleepGuard has nothing to hold on this OS.
func NewSleepGuard(_ Capabilities, _ *zap.Logger) SleepGuard {
	return noGuard{}
}
