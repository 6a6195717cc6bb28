//go:build linux

package platform

import (
	"go.uber.org/zap"

	"github.com/stigoleg/activity-sim/internal/platform/linux"
)

// NewIdleDetector uses the Mutter idle monitor, then xprintidle.
func NewIdleDetector(caps Capabilities, log *zap.Logger) IdleDetector {
	return linux.NewIdleSource(caps.linuxView(), log)
}
