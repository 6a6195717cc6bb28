//go:build !linux && !windows && !darwin

package platform

import "go.uber.org/zap"

// NewIdleDetector has no idle source on this OS.
func NewIdleDetector(_ Capabilities, _ *zap.Logger) IdleDetector {
	return unsupportedIdle{}
}
