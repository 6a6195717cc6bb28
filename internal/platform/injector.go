// Package platform defines the input injection contract, picks a backend
// that can work on the current machine and exposes the per-OS idle and
// sleep-inhibit hooks.
package platform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported marks operations the current OS or backend cannot do.
var ErrUnsupported = errors.New("unsupported on this platform")

// Mouse buttons.
const (
	ButtonLeft   = "left"
	ButtonRight  = "right"
	ButtonMiddle = "middle"
)

// Injector emits synthetic input. Key and modifier names follow robotgo
// ("tab", "ctrl", "p"). Scroll amounts are positive for down.
type Injector interface {
	Name() string
	ScreenSize() (w, h int, err error)
	Position() (x, y int, err error)
	MoveTo(x, y int) error
	MoveRelative(dx, dy int) error
	Click(button string) error
	Scroll(amount int) error
	KeyTap(key string, mods ...string) error
	TypeRune(r rune) error
	Close() error
}

// Backend names an injector implementation.
type Backend string

const (
	BackendAuto    Backend = "auto"
	BackendRobotgo Backend = "robotgo"
	BackendUinput  Backend = "uinput"
	BackendXdotool Backend = "xdotool"
	BackendYdotool Backend = "ydotool"
	BackendDryRun  Backend = "dryrun"
)

// Backends lists every accepted backend name.
func Backends() []Backend {
	return []Backend{BackendAuto, BackendRobotgo, BackendUinput, BackendXdotool, BackendYdotool, BackendDryRun}
}

// ParseBackend accepts a backend name case-insensitively; "dry-run" is an
// alias for dryrun.
func ParseBackend(s string) (Backend, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "dry-run" {
		name = string(BackendDryRun)
	}
	for _, b := range Backends() {
		if string(b) == name {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown backend %q (want one of %v)", s, Backends())
}
