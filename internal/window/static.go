package window

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// DefaultWindows is the stand-in list used when nothing real can be
// enumerated, such as in dry-run mode.
func DefaultWindows() []Window {
	return []Window{
		{ID: "1", Title: "Pull requests - Google Chrome", Process: "chrome"},
		{ID: "2", Title: "main.go - activity-sim - Visual Studio Code", Process: "code"},
		{ID: "3", Title: "index.html - site - Cursor", Process: "cursor"},
		{ID: "4", Title: "notes.odt - LibreOffice Writer", Process: "soffice.bin"},
	}
}

// Static is an in-memory Manager. It never touches the OS.
type Static struct {
	mu      sync.Mutex
	windows []Window
	active  Window
	screen  Rect
}

// NewStatic returns a Static manager over windows, falling back to
// DefaultWindows when none are given. The first window starts active.
func NewStatic(screen Rect, windows ...Window) *Static {
	if len(windows) == 0 {
		windows = DefaultWindows()
	}
	return &Static{windows: slices.Clone(windows), active: windows[0], screen: screen}
}

func (s *Static) Name() string { return "static" }

func (s *Static) List(context.Context) ([]Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.windows), nil
}

func (s *Static) Active(context.Context) (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, nil
}

func (s *Static) Activate(_ context.Context, w Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.windows {
		if c.ID == w.ID {
			s.active = c
			return nil
		}
	}
	return fmt.Errorf("activate %s: unknown window", w.ID)
}

// Geometry reports every window as maximized.
func (s *Static) Geometry(context.Context, Window) (Rect, error) {
	return s.screen, nil
}

func (s *Static) Close() error { return nil }
