//go:build linux

package linux

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"github.com/stigoleg/activity-sim/internal/util"
)

const (
	mutterIdleDest   = "org.gnome.Mutter.IdleMonitor"
	mutterIdlePath   = "/org/gnome/Mutter/IdleMonitor/Core"
	mutterIdleMethod = "org.gnome.Mutter.IdleMonitor.GetIdletime"
)

// IdleSource reports how long the real user has been idle. It asks the
// Mutter idle monitor over the session bus first and falls back to
// xprintidle on X11.
type IdleSource struct {
	log  *zap.Logger
	run  util.Runner
	caps Capabilities

	conn   *dbus.Conn
	mutter func(context.Context) (time.Duration, error)
}

// NewIdleSource connects to the session bus if one is available. A missing
// bus is not an error; the xprintidle path is used instead.
func NewIdleSource(caps Capabilities, log *zap.Logger) *IdleSource {
	s := &IdleSource{log: log, run: util.Run, caps: caps}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		log.Debug("session bus unavailable for idle detection", zap.Error(err))
		return s
	}
	s.conn = conn
	s.mutter = s.mutterIdle
	return s
}

// Idle returns the current idle duration.
func (s *IdleSource) Idle(ctx context.Context) (time.Duration, error) {
	var errs []error
	if s.mutter != nil {
		d, err := s.mutter(ctx)
		if err == nil {
			return d, nil
		}
		errs = append(errs, err)
	}
	if s.caps.Xprintidle {
		d, err := s.xprintidle(ctx)
		if err == nil {
			return d, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return 0, errors.New("no idle source: need GNOME Mutter or xprintidle on X11")
	}
	return 0, errors.Join(errs...)
}

func (s *IdleSource) mutterIdle(ctx context.Context) (time.Duration, error) {
	var ms uint64
	obj := s.conn.Object(mutterIdleDest, dbus.ObjectPath(mutterIdlePath))
	if err := obj.CallWithContext(ctx, mutterIdleMethod, 0).Store(&ms); err != nil {
		return 0, fmt.Errorf("mutter idle monitor: %w", err)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func (s *IdleSource) xprintidle(ctx context.Context) (time.Duration, error) {
	out, err := runTimeout(ctx, s.run, "xprintidle")
	if err != nil {
		return 0, err
	}
	return parseMillis(out)
}

func parseMillis(out string) (time.Duration, error) {
	ms, err := strconv.ParseInt(strings.TrimSpace(out), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds %q: %w", out, err)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// Close releases the bus connection.
func (s *IdleSource) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
