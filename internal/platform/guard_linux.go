//go:build linux

package platform

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/stigoleg/activity-sim/internal/platform/linux"
)

type linuxGuard struct {
	mu     sync.Mutex
	log    *zap.Logger
	build  func() []linux.Inhibitor
	active []linux.Inhibitor
}

// NewSleepGuard uses systemd-inhibit plus the desktop's DBus inhibitors.
func NewSleepGuard(caps Capabilities, log *zap.Logger) SleepGuard {
	desktop := caps.Desktop
	return &linuxGuard{
		log:   log,
		build: func() []linux.Inhibitor { return linux.BuildInhibitors(desktop) },
	}
}

func (g *linuxGuard) Acquire(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.active) > 0 {
		return nil
	}
	active, err := linux.ActivateInhibitors(ctx, g.build(), g.log)
	if err != nil {
		return err
	}
	g.active = active
	return nil
}

func (g *linuxGuard) Release() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	linux.DeactivateInhibitors(g.active, g.log)
	g.active = nil
	return nil
}
