//go:build windows

package window

import (
	"context"
	"fmt"
	"strconv"
	"syscall"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procGetWindowLongW           = user32.NewProc("GetWindowLongW")
	procGetWindowTextLengthW     = user32.NewProc("GetWindowTextLengthW")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procGetWindowRect            = user32.NewProc("GetWindowRect")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procSetForegroundWindow      = user32.NewProc("SetForegroundWindow")
	procShowWindow               = user32.NewProc("ShowWindow")
)

const (
	gwlStyle        = -16
	gwlExStyle      = -20
	wsVisible       = 0x10000000
	wsExToolWindow  = 0x00000080
	wsExAppWindow   = 0x00040000
	swMaximize      = 3
	swRestore       = 9
	minWindowExtent = 50
)

type rect struct {
	Left, Top, Right, Bottom int32
}

// NewCallback slots are never freed, so a single callback is shared by all
// enumerations and the collector travels in lParam.
var enumCallback = syscall.NewCallback(func(hwnd syscall.Handle, lParam uintptr) uintptr {
	c := (*collector)(unsafe.Pointer(lParam))
	if w, ok := describe(hwnd); ok {
		c.windows = append(c.windows, w)
	}
	return 1
})

type collector struct {
	windows []Window
}

// Win32 enumerates top-level windows through user32.
type Win32 struct {
	opts Options
}

// New returns the Win32 window backend.
func New(opts Options) (Manager, error) {
	if err := procEnumWindows.Find(); err != nil {
		return nil, fmt.Errorf("user32: %w", err)
	}
	return &Win32{opts: opts.withDefaults()}, nil
}

func (m *Win32) Name() string { return "win32" }

func (m *Win32) Close() error { return nil }

func (m *Win32) List(ctx context.Context) ([]Window, error) {
	c := &collector{windows: make([]Window, 0, 64)}
	procEnumWindows.Call(enumCallback, uintptr(unsafe.Pointer(c)))
	ws := m.opts.Filter.Apply(ctx, c.windows)
	if len(ws) == 0 {
		return nil, ErrNoWindows
	}
	m.opts.Log.Debug("windows listed", zap.String("source", "win32"), zap.Int("count", len(ws)))
	return ws, nil
}

// describe returns hwnd as a Window when it is a visible application
// window of usable size.
func describe(hwnd syscall.Handle) (Window, bool) {
	if ret, _, _ := procIsWindowVisible.Call(uintptr(hwnd)); ret == 0 {
		return Window{}, false
	}
	title := windowText(hwnd)
	r, ok := windowRect(hwnd)
	if !ok || !eligible(windowLong(hwnd, gwlStyle), windowLong(hwnd, gwlExStyle), title, r) {
		return Window{}, false
	}
	var pid uint32
	procGetWindowThreadProcessId.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&pid)))
	return Window{ID: strconv.FormatUint(uint64(hwnd), 10), Title: title, PID: int32(pid)}, true
}

// eligible drops hidden, untitled and tiny windows, and tool windows that
// do not force a taskbar button.
func eligible(style, exStyle uintptr, title string, r Rect) bool {
	if style&wsVisible == 0 {
		return false
	}
	if exStyle&wsExToolWindow != 0 && exStyle&wsExAppWindow == 0 {
		return false
	}
	return title != "" && r.W >= minWindowExtent && r.H >= minWindowExtent
}

// windowLong passes index through a variable so the negative offsets
// convert to uintptr at run time.
func windowLong(hwnd syscall.Handle, index int32) uintptr {
	v, _, _ := procGetWindowLongW.Call(uintptr(hwnd), uintptr(index))
	return v
}

func windowText(hwnd syscall.Handle) string {
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(hwnd))
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), n+1)
	return windows.UTF16ToString(buf)
}

func windowRect(hwnd syscall.Handle) (Rect, bool) {
	var r rect
	if ret, _, _ := procGetWindowRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r))); ret == 0 {
		return Rect{}, false
	}
	return Rect{X: int(r.Left), Y: int(r.Top), W: int(r.Right - r.Left), H: int(r.Bottom - r.Top)}, true
}

func handle(w Window) (syscall.Handle, error) {
	v, err := strconv.ParseUint(w.ID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("window id %q: %w", w.ID, err)
	}
	return syscall.Handle(v), nil
}

func (m *Win32) Active(context.Context) (Window, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return Window{}, ErrNoWindows
	}
	h := syscall.Handle(hwnd)
	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	return Window{ID: strconv.FormatUint(uint64(hwnd), 10), Title: windowText(h), PID: int32(pid)}, nil
}

// Activate restores, focuses and maximizes w.
func (m *Win32) Activate(_ context.Context, w Window) error {
	h, err := handle(w)
	if err != nil {
		return err
	}
	procShowWindow.Call(uintptr(h), swRestore)
	if ret, _, callErr := procSetForegroundWindow.Call(uintptr(h)); ret == 0 {
		return fmt.Errorf("SetForegroundWindow %s: %w", w.ID, callErr)
	}
	procShowWindow.Call(uintptr(h), swMaximize)
	return nil
}

func (m *Win32) Geometry(_ context.Context, w Window) (Rect, error) {
	h, err := handle(w)
	if err != nil {
		return Rect{}, err
	}
	r, ok := windowRect(h)
	if !ok {
		return Rect{}, fmt.Errorf("GetWindowRect %s failed", w.ID)
	}
	return r, nil
}
