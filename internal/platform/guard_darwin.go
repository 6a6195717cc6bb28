//go:build darwin

package platform

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"syscall"

	"go.uber.org/zap"
)

type darwinGuard struct {
	mu  sync.Mutex
	log *zap.Logger
	cmd *exec.Cmd
}

// NewSleepGuard keeps a caffeinate child for the session.
func NewSleepGuard(_ Capabilities, log *zap.Logger) SleepGuard {
	return &darwinGuard{log: log}
}

func (g *darwinGuard) Acquire(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cmd != nil {
		return nil
	}
	cmd := exec.CommandContext(ctx, "caffeinate", "-d", "-i", "-u")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start caffeinate: %w", err)
	}
	g.cmd = cmd
	g.log.Info("caffeinate started", zap.Int("pid", cmd.Process.Pid))
	return nil
}

func (g *darwinGuard) Release() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cmd == nil {
		return nil
	}
	err := g.cmd.Process.Signal(syscall.SIGTERM)
	_ = g.cmd.Wait()
	g.cmd = nil
	return err
}
