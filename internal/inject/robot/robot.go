// Package robot adapts robotgo to platform.Injector. It is the only package
// that links robotgo, so importing it pulls in cgo.
package robot

import (
	"errors"
	"sync"

	"github.com/go-vgo/robotgo"

	"github.com/stigoleg/activity-sim/internal/platform"
)

// Injector drives the native input APIs through robotgo.
type Injector struct {
	mu sync.Mutex
}

// New checks that robotgo can see a display.
func New() (platform.Injector, error) {
	w, h := robotgo.GetScreenSize()
	if w <= 0 || h <= 0 {
		return nil, errors.New("robotgo: no display available")
	}
	return &Injector{}, nil
}

func (r *Injector) Name() string { return string(platform.BackendRobotgo) }

func (r *Injector) ScreenSize() (int, int, error) {
	w, h := robotgo.GetScreenSize()
	return w, h, nil
}

func (r *Injector) Position() (int, int, error) {
	x, y := robotgo.Location()
	return x, y, nil
}

func (r *Injector) MoveTo(x, y int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	robotgo.Move(x, y)
	return nil
}

func (r *Injector) MoveRelative(dx, dy int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	robotgo.MoveRelative(dx, dy)
	return nil
}

func (r *Injector) Click(button string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if button == "" {
		button = platform.ButtonLeft
	}
	robotgo.Click(button, false)
	return nil
}

func (r *Injector) Scroll(amount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case amount > 0:
		robotgo.ScrollDir(amount, "down")
	case amount < 0:
		robotgo.ScrollDir(-amount, "up")
	}
	return nil
}

func (r *Injector) KeyTap(key string, mods ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(mods) == 0 {
		return robotgo.KeyTap(key)
	}
	return robotgo.KeyTap(key, mods)
}

func (r *Injector) TypeRune(ch rune) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	robotgo.TypeStr(string(ch))
	return nil
}

func (r *Injector) Close() error { return nil }
