//go:build windows

package platform

import (
	"context"
	"errors"
	"time"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procGetLastInputInfo = user32.NewProc("GetLastInputInfo")
	procGetTickCount64   = kernel32.NewProc("GetTickCount64")
)

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

type windowsIdle struct{}

// NewIdleDetector reads GetLastInputInfo.
func NewIdleDetector(_ Capabilities, _ *zap.Logger) IdleDetector {
	return windowsIdle{}
}

func (windowsIdle) Idle(context.Context) (time.Duration, error) {
	var lii lastInputInfo
	lii.cbSize = uint32(unsafe.Sizeof(lii))
	if ret, _, err := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&lii))); ret == 0 {
		return 0, errors.Join(errors.New("GetLastInputInfo failed"), err)
	}
	tick, _, _ := procGetTickCount64.Call()
	// dwTime is 32-bit; unsigned subtraction handles the wrap
	idle := uint32(tick) - lii.dwTime
	return time.Duration(idle) * time.Millisecond, nil
}

func (windowsIdle) Close() error { return nil }
