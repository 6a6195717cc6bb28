//go:build windows

package platform

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

const (
	esSystemRequired  = 0x00000001
	esDisplayRequired = 0x00000002
	esContinuous      = 0x80000000
)

var procSetThreadExecutionState = kernel32.NewProc("SetThreadExecutionState")

type windowsGuard struct{}

// NewSleepGuard uses SetThreadExecutionState.
func NewSleepGuard(_ Capabilities, _ *zap.Logger) SleepGuard {
	return windowsGuard{}
}

func setExecutionState(flags uintptr) error {
	if r1, _, err := procSetThreadExecutionState.Call(flags); r1 == 0 {
		return errors.Join(errors.New("SetThreadExecutionState failed"), err)
	}
	return nil
}

func (windowsGuard) Acquire(context.Context) error {
	return setExecutionState(esSystemRequired | esDisplayRequired | esContinuous)
}

func (windowsGuard) Release() error {
	return setExecutionState(esContinuous)
}
