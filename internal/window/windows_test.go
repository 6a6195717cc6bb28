//go:build windows

package window

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEligible(t *testing.T) {
	full := Rect{W: 800, H: 600}
	tests := []struct {
		name    string
		style   uintptr
		exStyle uintptr
		title   string
		rect    Rect
		want    bool
	}{
		{"app window", wsVisible, 0, "Editor", full, true},
		{"hidden style", 0, 0, "Editor", full, false},
		{"tool window", wsVisible, wsExToolWindow, "Palette", full, false},
		{"tool window with taskbar button", wsVisible, wsExToolWindow | wsExAppWindow, "Palette", full, true},
		{"untitled", wsVisible, 0, "", full, false},
		{"too narrow", wsVisible, 0, "Editor", Rect{W: minWindowExtent - 1, H: 600}, false},
		{"too short", wsVisible, 0, "Editor", Rect{W: 800, H: minWindowExtent - 1}, false},
		{"minimum size", wsVisible, 0, "Editor", Rect{W: minWindowExtent, H: minWindowExtent}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, eligible(tt.style, tt.exStyle, tt.title, tt.rect))
		})
	}
}

func TestHandle(t *testing.T) {
	h, err := handle(Window{ID: "132456"})
	require.NoError(t, err)
	assert.EqualValues(t, 132456, h)

	_, err = handle(Window{ID: "0x00a0"})
	assert.Error(t, err)
}

func TestWin32RejectsMalformedIDs(t *testing.T) {
	m, err := New(Options{Log: zap.NewNop()})
	require.NoError(t, err)
	defer m.Close()
	assert.Equal(t, "win32", m.Name())

	_, err = m.Geometry(context.Background(), Window{ID: "not-a-handle"})
	assert.Error(t, err)
	assert.Error(t, m.Activate(context.Background(), Window{ID: "not-a-handle"}))
}
