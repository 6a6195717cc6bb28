//go:build linux

package window

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"go.uber.org/zap"
)

const commandTimeout = 3 * time.Second

// X11 enumerates windows over the X protocol and falls back to wmctrl and
// xdotool when the display cannot be reached directly.
type X11 struct {
	opts Options

	conn  *xgb.Conn
	root  xproto.Window
	mu    sync.Mutex
	atoms map[string]xproto.Atom
}

// New opens the Linux window backend. A missing X connection is not an
// error; the CLI tools are used instead.
func New(opts Options) (Manager, error) {
	opts = opts.withDefaults()
	conn, err := xgb.NewConn()
	if err != nil {
		opts.Log.Debug("x11 connection unavailable, using command-line tools", zap.Error(err))
		conn = nil
	}
	return newX11(opts, conn), nil
}

func newX11(opts Options, conn *xgb.Conn) *X11 {
	m := &X11{opts: opts, conn: conn, atoms: make(map[string]xproto.Atom)}
	if conn != nil {
		m.root = xproto.Setup(conn).DefaultScreen(conn).Root
	}
	return m
}

func (m *X11) Name() string {
	if m.conn != nil {
		return "x11"
	}
	return "cli"
}

func (m *X11) Close() error {
	if m.conn != nil {
		m.conn.Close()
	}
	return nil
}

func (m *X11) run(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	return m.opts.Run(ctx, name, args...)
}

// List returns filtered application windows from the first source that
// yields any.
func (m *X11) List(ctx context.Context) ([]Window, error) {
	sources := []struct {
		name string
		fn   func(context.Context) ([]Window, error)
	}{
		{"x11", m.listX11},
		{"wmctrl", m.listWmctrl},
		{"xdotool", m.listXdotool},
	}
	var errs []error
	for _, src := range sources {
		ws, err := src.fn(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", src.name, err))
			continue
		}
		ws = m.opts.Filter.Apply(ctx, ws)
		if len(ws) > 0 {
			m.opts.Log.Debug("windows listed", zap.String("source", src.name), zap.Int("count", len(ws)))
			return ws, nil
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrNoWindows, errors.Join(errs...))
	}
	return nil, ErrNoWindows
}

var errNoX = errors.New("no x11 connection")

func (m *X11) atom(name string) (xproto.Atom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.atoms[name]; ok {
		return a, nil
	}
	reply, err := xproto.InternAtom(m.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("intern %s: %w", name, err)
	}
	m.atoms[name] = reply.Atom
	return reply.Atom, nil
}

func (m *X11) property(win xproto.Window, name string) (*xproto.GetPropertyReply, error) {
	a, err := m.atom(name)
	if err != nil {
		return nil, err
	}
	return xproto.GetProperty(m.conn, false, win, a, xproto.GetPropertyTypeAny, 0, 1<<16).Reply()
}

func (m *X11) windowProperty(win xproto.Window, name string) ([]xproto.Window, error) {
	reply, err := m.property(win, name)
	if err != nil {
		return nil, err
	}
	if reply.Format != 32 {
		return nil, fmt.Errorf("%s: unexpected format %d", name, reply.Format)
	}
	out := make([]xproto.Window, 0, len(reply.Value)/4)
	for i := 0; i+4 <= len(reply.Value); i += 4 {
		out = append(out, xproto.Window(xgb.Get32(reply.Value[i:])))
	}
	return out, nil
}

func (m *X11) title(win xproto.Window) string {
	if reply, err := m.property(win, "_NET_WM_NAME"); err == nil && len(reply.Value) > 0 {
		return string(reply.Value)
	}
	reply, err := xproto.GetProperty(m.conn, false, win, xproto.AtomWmName, xproto.GetPropertyTypeAny, 0, 1<<16).Reply()
	if err != nil {
		return ""
	}
	return string(reply.Value)
}

func (m *X11) pid(win xproto.Window) int32 {
	reply, err := m.property(win, "_NET_WM_PID")
	if err != nil || reply.Format != 32 || len(reply.Value) < 4 {
		return 0
	}
	return int32(xgb.Get32(reply.Value))
}

func formatXID(id uint32) string {
	return fmt.Sprintf("0x%08x", id)
}

func parseXID(id string) (uint32, error) {
	v, err := strconv.ParseUint(id, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("window id %q: %w", id, err)
	}
	return uint32(v), nil
}

func (m *X11) listX11(context.Context) ([]Window, error) {
	if m.conn == nil {
		return nil, errNoX
	}
	ids, err := m.windowProperty(m.root, "_NET_CLIENT_LIST")
	if err != nil {
		return nil, err
	}
	out := make([]Window, 0, len(ids))
	for _, id := range ids {
		out = append(out, Window{ID: formatXID(uint32(id)), Title: m.title(id), PID: m.pid(id)})
	}
	return out, nil
}

func (m *X11) listWmctrl(ctx context.Context) ([]Window, error) {
	if !m.opts.HasCommand("wmctrl") {
		return nil, errors.New("wmctrl not installed")
	}
	out, err := m.run(ctx, "wmctrl", "-lp")
	if err != nil {
		return nil, err
	}
	return parseWmctrl(out), nil
}

// parseWmctrl reads `wmctrl -lp` output: id, desktop, pid, host, title.
// Sticky windows on desktop -1 are panels and docks and are skipped.
func parseWmctrl(out string) []Window {
	var ws []Window
	for _, line := range strings.Split(out, "\n") {
		fields, rest := splitFields(line, 4)
		if len(fields) < 4 || fields[1] == "-1" {
			continue
		}
		w := Window{ID: fields[0], Title: rest}
		if pid, err := strconv.ParseInt(fields[2], 10, 32); err == nil {
			w.PID = int32(pid)
		}
		ws = append(ws, w)
	}
	return ws
}

// splitFields returns the first n whitespace separated fields of s and the
// remainder with its inner spacing intact.
func splitFields(s string, n int) ([]string, string) {
	fields := make([]string, 0, n)
	rest := strings.TrimSpace(s)
	for len(fields) < n && rest != "" {
		i := strings.IndexAny(rest, " \t")
		if i < 0 {
			fields = append(fields, rest)
			return fields, ""
		}
		fields = append(fields, rest[:i])
		rest = strings.TrimLeft(rest[i:], " \t")
	}
	return fields, rest
}

func (m *X11) listXdotool(ctx context.Context) ([]Window, error) {
	if !m.opts.HasCommand("xdotool") {
		return nil, errors.New("xdotool not installed")
	}
	out, err := m.run(ctx, "xdotool", "search", "--onlyvisible", "--name", ".")
	if err != nil {
		return nil, err
	}
	var ws []Window
	for _, line := range strings.Fields(out) {
		id, err := strconv.ParseUint(line, 10, 32)
		if err != nil {
			continue
		}
		title, err := m.run(ctx, "xdotool", "getwindowname", line)
		if err != nil {
			continue
		}
		w := Window{ID: formatXID(uint32(id)), Title: title}
		if p, err := m.run(ctx, "xdotool", "getwindowpid", line); err == nil {
			if pid, err := strconv.ParseInt(p, 10, 32); err == nil {
				w.PID = int32(pid)
			}
		}
		ws = append(ws, w)
	}
	return ws, nil
}

// Active returns the focused window.
func (m *X11) Active(ctx context.Context) (Window, error) {
	if m.conn != nil {
		ids, err := m.windowProperty(m.root, "_NET_ACTIVE_WINDOW")
		if err == nil && len(ids) > 0 && ids[0] != 0 {
			return Window{ID: formatXID(uint32(ids[0])), Title: m.title(ids[0]), PID: m.pid(ids[0])}, nil
		}
	}
	if !m.opts.HasCommand("xdotool") {
		return Window{}, fmt.Errorf("active window: %w", ErrUnsupported)
	}
	id, err := m.run(ctx, "xdotool", "getactivewindow")
	if err != nil {
		return Window{}, fmt.Errorf("active window: %w", err)
	}
	title, err := m.run(ctx, "xdotool", "getwindowname", id)
	if err != nil {
		return Window{}, fmt.Errorf("active window name: %w", err)
	}
	w := Window{ID: id, Title: title}
	if v, err := strconv.ParseUint(id, 10, 32); err == nil {
		w.ID = formatXID(uint32(v))
	}
	return w, nil
}

// Activate raises and maximizes w.
func (m *X11) Activate(ctx context.Context, w Window) error {
	var errs []error
	if m.opts.HasCommand("wmctrl") {
		_, err := m.run(ctx, "wmctrl", "-ia", w.ID)
		if err == nil {
			if _, err := m.run(ctx, "wmctrl", "-ir", w.ID, "-b", "add,maximized_vert,maximized_horz"); err != nil {
				m.opts.Log.Debug("maximize failed", zap.String("window", w.ID), zap.Error(err))
			}
			return nil
		}
		errs = append(errs, err)
	}
	if m.opts.HasCommand("xdotool") {
		_, err := m.run(ctx, "xdotool", "windowactivate", w.ID)
		if err == nil {
			if _, err := m.run(ctx, "xdotool", "windowsize", w.ID, "100%", "100%"); err != nil {
				m.opts.Log.Debug("resize failed", zap.String("window", w.ID), zap.Error(err))
			}
			return nil
		}
		errs = append(errs, err)
	}
	if m.conn != nil {
		err := m.activateX11(w)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return fmt.Errorf("activate %s: %w", w.ID, ErrUnsupported)
	}
	return fmt.Errorf("activate %s: %w", w.ID, errors.Join(errs...))
}

// activateX11 asks the window manager for focus with a
// _NET_ACTIVE_WINDOW client message, source indication 2 (pager).
func (m *X11) activateX11(w Window) error {
	id, err := parseXID(w.ID)
	if err != nil {
		return err
	}
	a, err := m.atom("_NET_ACTIVE_WINDOW")
	if err != nil {
		return err
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: xproto.Window(id),
		Type:   a,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{2, uint32(xproto.TimeCurrentTime), 0, 0, 0}),
	}
	mask := uint32(xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify)
	return xproto.SendEventChecked(m.conn, false, m.root, mask, string(ev.Bytes())).Check()
}

// Geometry returns w's rectangle in root coordinates.
func (m *X11) Geometry(ctx context.Context, w Window) (Rect, error) {
	if m.conn != nil {
		if r, err := m.geometryX11(w); err == nil {
			return r, nil
		}
	}
	if !m.opts.HasCommand("xwininfo") {
		return Rect{}, fmt.Errorf("geometry %s: %w", w.ID, ErrUnsupported)
	}
	out, err := m.run(ctx, "xwininfo", "-id", w.ID)
	if err != nil {
		return Rect{}, fmt.Errorf("geometry %s: %w", w.ID, err)
	}
	return parseXwininfo(out)
}

func (m *X11) geometryX11(w Window) (Rect, error) {
	id, err := parseXID(w.ID)
	if err != nil {
		return Rect{}, err
	}
	win := xproto.Window(id)
	g, err := xproto.GetGeometry(m.conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return Rect{}, err
	}
	t, err := xproto.TranslateCoordinates(m.conn, win, m.root, 0, 0).Reply()
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: int(t.DstX), Y: int(t.DstY), W: int(g.Width), H: int(g.Height)}, nil
}

// parseXwininfo reads the absolute corner and size from `xwininfo -id`.
func parseXwininfo(out string) (Rect, error) {
	var r Rect
	found := 0
	for _, line := range strings.Split(out, "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			continue
		}
		switch key {
		case "Absolute upper-left X":
			r.X = n
		case "Absolute upper-left Y":
			r.Y = n
		case "Width":
			r.W = n
		case "Height":
			r.H = n
		default:
			continue
		}
		found++
	}
	if found < 4 || r.W <= 0 || r.H <= 0 {
		return Rect{}, fmt.Errorf("unexpected xwininfo output")
	}
	return r, nil
}
