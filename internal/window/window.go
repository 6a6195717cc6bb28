// Package window lists, focuses and measures top-level application windows.
package window

import (
	"context"
	"errors"
	"math/rand"
	"strings"
)

var (
	// ErrNoWindows is returned when a switch has no eligible target.
	ErrNoWindows = errors.New("no eligible windows")
	// ErrUnsupported is returned on platforms without a window backend.
	ErrUnsupported = errors.New("window management not supported on this platform")
)

// Window is one top-level window. ID is backend specific: an X11 id in
// 0x%08x form on Linux, an HWND in decimal on Windows.
type Window struct {
	ID      string
	Title   string
	PID     int32
	Process string
}

// Rect is a window's on-screen rectangle.
type Rect struct {
	X, Y, W, H int
}

// Center returns the middle of r.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Manager is a window backend.
type Manager interface {
	Name() string
	List(ctx context.Context) ([]Window, error)
	Active(ctx context.Context) (Window, error)
	Activate(ctx context.Context, w Window) error
	Geometry(ctx context.Context, w Window) (Rect, error)
	Close() error
}

// App is the application family a window belongs to.
type App int

const (
	AppOther App = iota
	AppChrome
	AppCursor
	AppVSCode
)

func (a App) String() string {
	switch a {
	case AppChrome:
		return "chrome"
	case AppCursor:
		return "cursor"
	case AppVSCode:
		return "vscode"
	default:
		return "other"
	}
}

// IsEditor reports whether a is a code editor with quick-open.
func (a App) IsEditor() bool {
	return a == AppCursor || a == AppVSCode
}

// Classify maps a window title to its application family. Cursor is
// checked before VS Code since its titles may mention both.
func Classify(title string) App {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "google chrome"), strings.Contains(t, "chromium"):
		return AppChrome
	case strings.Contains(t, "cursor"):
		return AppCursor
	case strings.Contains(t, "visual studio code"):
		return AppVSCode
	default:
		return AppOther
	}
}

// Pick chooses a random window whose title differs from current. When
// every window shares that title, any window is returned.
func Pick(rnd *rand.Rand, windows []Window, current string) (Window, error) {
	if len(windows) == 0 {
		return Window{}, ErrNoWindows
	}
	others := make([]Window, 0, len(windows))
	for _, w := range windows {
		if w.Title != current {
			others = append(others, w)
		}
	}
	if len(others) == 0 {
		return windows[rnd.Intn(len(windows))], nil
	}
	return others[rnd.Intn(len(others))], nil
}
