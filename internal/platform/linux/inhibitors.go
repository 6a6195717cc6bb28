//go:build linux

package linux

import (
	"context"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	inhibitorVerifyDelay = 100 * time.Millisecond
	inhibitApp           = "activity-sim"
	inhibitReason        = "Simulating user activity"
)

// GNOME SessionManager inhibit flags.
const (
	gnomeInhibitSuspend = 4
	gnomeInhibitIdle    = 8
)

// Inhibitor holds off screen lock or suspend while a session runs.
type Inhibitor interface {
	Name() string
	Activate(ctx context.Context) error
	Deactivate() error
}

// SystemdInhibitor keeps a systemd-inhibit child alive for the session.
type SystemdInhibitor struct {
	// command builds the child; nil means exec.CommandContext.
	command func(ctx context.Context, name string, args ...string) *exec.Cmd

	cmd    *exec.Cmd
	exited chan error
}

func (s *SystemdInhibitor) Name() string { return "systemd-inhibit" }

func systemdInhibitArgs() []string {
	return []string{
		"--what=idle:sleep",
		"--who=" + inhibitApp,
		"--why=" + inhibitReason,
		"--mode=block",
		"sleep", "infinity",
	}
}

func (s *SystemdInhibitor) Activate(ctx context.Context) error {
	if !hasCommand("systemd-inhibit") {
		return fmt.Errorf("systemd-inhibit command not found")
	}

	command := s.command
	if command == nil {
		command = exec.CommandContext
	}
	cmd := command(ctx, "systemd-inhibit", systemdInhibitArgs()...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start systemd-inhibit: %w", err)
	}

	// A refused lock makes systemd-inhibit exit at once.
	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()
	select {
	case err := <-exited:
		if err == nil {
			return fmt.Errorf("systemd-inhibit exited early")
		}
		return fmt.Errorf("systemd-inhibit exited early: %w", err)
	case <-time.After(inhibitorVerifyDelay):
	}
	s.cmd, s.exited = cmd, exited
	return nil
}

func (s *SystemdInhibitor) Deactivate() error {
	if s.cmd == nil || s.cmd.Process == nil {
		return nil
	}
	// the group includes the sleep child
	err := syscall.Kill(-s.cmd.Process.Pid, syscall.SIGKILL)
	<-s.exited
	s.cmd, s.exited = nil, nil
	return err
}

// DBusInhibitor calls an Inhibit/UnInhibit pair on the session bus and keeps
// the returned cookie.
type DBusInhibitor struct {
	name      string
	dest      string
	path      dbus.ObjectPath
	iface     string
	uninhibit string
	args      []any

	conn   *dbus.Conn
	cookie uint32
}

func (d *DBusInhibitor) Name() string { return d.name }

func (d *DBusInhibitor) Activate(ctx context.Context) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("%s: connect session bus: %w", d.name, err)
	}
	var cookie uint32
	call := conn.Object(d.dest, d.path).CallWithContext(ctx, d.iface+".Inhibit", 0, d.args...)
	if err := call.Store(&cookie); err != nil {
		conn.Close()
		return fmt.Errorf("%s: inhibit: %w", d.name, err)
	}
	if cookie == 0 {
		conn.Close()
		return fmt.Errorf("%s: received invalid cookie 0", d.name)
	}
	d.conn, d.cookie = conn, cookie
	return nil
}

func (d *DBusInhibitor) Deactivate() error {
	if d.conn == nil {
		return nil
	}
	defer func() {
		d.conn.Close()
		d.conn, d.cookie = nil, 0
	}()
	return d.conn.Object(d.dest, d.path).Call(d.iface+"."+d.uninhibit, 0, d.cookie).Err
}

// Cookie returns the cookie from the last successful Activate.
func (d *DBusInhibitor) Cookie() uint32 { return d.cookie }

func gnomeSessionInhibitor(name string, flags uint32) *DBusInhibitor {
	return &DBusInhibitor{
		name:      name,
		dest:      "org.gnome.SessionManager",
		path:      "/org/gnome/SessionManager",
		iface:     "org.gnome.SessionManager",
		uninhibit: "Uninhibit",
		args:      []any{inhibitApp, uint32(0), inhibitReason, flags},
	}
}

func screenSaverInhibitor(name, dest string, path dbus.ObjectPath) *DBusInhibitor {
	return &DBusInhibitor{
		name:      name,
		dest:      dest,
		path:      path,
		iface:     dest,
		uninhibit: "UnInhibit",
		args:      []any{inhibitApp, inhibitReason},
	}
}

// BuildInhibitors orders inhibitors for the given desktop, most reliable
// first.
func BuildInhibitors(desktop string) []Inhibitor {
	list := []Inhibitor{&SystemdInhibitor{}}

	switch desktop {
	case DesktopGNOME, DesktopCosmic:
		list = append(list,
			gnomeSessionInhibitor("dbus-"+desktop+"-suspend", gnomeInhibitSuspend),
			gnomeSessionInhibitor("dbus-"+desktop+"-idle", gnomeInhibitIdle))
	case DesktopKDE:
		list = append(list, screenSaverInhibitor("dbus-kde",
			"org.freedesktop.PowerManagement.Inhibit", "/org/freedesktop/PowerManagement/Inhibit"))
	case DesktopXFCE:
		list = append(list, screenSaverInhibitor("dbus-xfce", "org.xfce.PowerManager", "/org/xfce/PowerManager"))
	case DesktopMATE:
		i := gnomeSessionInhibitor("dbus-mate", gnomeInhibitSuspend|gnomeInhibitIdle)
		i.dest, i.path, i.iface = "org.mate.SessionManager", "/org/mate/SessionManager", "org.mate.SessionManager"
		list = append(list, i)
	}

	return append(list, screenSaverInhibitor("dbus-freedesktop",
		"org.freedesktop.ScreenSaver", "/org/freedesktop/ScreenSaver"))
}

// ActivateInhibitors activates every inhibitor it can and returns those
// that took. It fails only when none did.
func ActivateInhibitors(ctx context.Context, list []Inhibitor, log *zap.Logger) ([]Inhibitor, error) {
	var active []Inhibitor
	for _, inh := range list {
		if err := inh.Activate(ctx); err != nil {
			log.Debug("inhibitor unavailable", zap.String("inhibitor", inh.Name()), zap.Error(err))
			continue
		}
		log.Info("inhibitor active", zap.String("inhibitor", inh.Name()))
		active = append(active, inh)
	}
	if len(active) == 0 {
		return nil, fmt.Errorf("no sleep inhibitor could be activated (tried %d)", len(list))
	}
	return active, nil
}

// DeactivateInhibitors releases in reverse order, logging failures.
func DeactivateInhibitors(list []Inhibitor, log *zap.Logger) {
	for i := len(list) - 1; i >= 0; i-- {
		if err := list[i].Deactivate(); err != nil {
			log.Warn("inhibitor release failed", zap.String("inhibitor", list[i].Name()), zap.Error(err))
		}
	}
}
