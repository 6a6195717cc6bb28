//go:build linux

// Package linux holds the Linux input backends and the environment probing
// that decides which of them can work.
package linux

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/stigoleg/activity-sim/internal/util"
)

// Display server types.
const (
	DisplayServerWayland = "wayland"
	DisplayServerX11     = "x11"
	DisplayServerUnknown = "unknown"
)

// Desktop environment types.
const (
	DesktopCosmic  = "cosmic"
	DesktopGNOME   = "gnome"
	DesktopKDE     = "kde"
	DesktopXFCE    = "xfce"
	DesktopMATE    = "mate"
	DesktopUnknown = "unknown"
)

// Env is the slice of the process environment that detection reads.
type Env struct {
	Getenv     func(string) string
	HasCommand func(string) bool
}

// SystemEnv reads the real environment and PATH.
func SystemEnv() Env {
	return Env{Getenv: os.Getenv, HasCommand: util.HasCommand}
}

// Capabilities records which helper tools exist and what session we run in.
type Capabilities struct {
	DisplayServer      string
	DesktopEnvironment string

	Xdotool        bool
	Ydotool        bool
	Wmctrl         bool
	Xwininfo       bool
	Xprintidle     bool
	SystemdInhibit bool

	Uinput        bool
	UinputMessage string
}

// DetectCapabilities inspects the running system, including /dev/uinput.
func DetectCapabilities() Capabilities {
	caps := SystemEnv().Capabilities()
	caps.Uinput, caps.UinputMessage = CheckUinputPermissions()
	return caps
}

// Capabilities checks tools and session type. It leaves the uinput fields
// unset since those need the device node.
func (e Env) Capabilities() Capabilities {
	ds := e.DisplayServer()
	return Capabilities{
		DisplayServer:      ds,
		DesktopEnvironment: e.DesktopEnvironment(),
		Xdotool:            e.HasCommand("xdotool"),
		Ydotool:            e.HasCommand("ydotool"),
		Wmctrl:             e.HasCommand("wmctrl"),
		Xwininfo:           e.HasCommand("xwininfo"),
		// xprintidle needs an X server
		Xprintidle:     e.HasCommand("xprintidle") && ds == DisplayServerX11,
		SystemdInhibit: e.HasCommand("systemd-inhibit"),
	}
}

// DisplayServer reports wayland, x11 or unknown.
func (e Env) DisplayServer() string {
	session := strings.ToLower(e.Getenv("XDG_SESSION_TYPE"))
	switch {
	case e.Getenv("WAYLAND_DISPLAY") != "" || session == DisplayServerWayland:
		return DisplayServerWayland
	case e.Getenv("DISPLAY") != "" || session == DisplayServerX11:
		return DisplayServerX11
	default:
		return DisplayServerUnknown
	}
}

// DesktopEnvironment maps XDG_CURRENT_DESKTOP and DESKTOP_SESSION onto the
// known desktop names.
func (e Env) DesktopEnvironment() string {
	hint := strings.ToLower(e.Getenv("XDG_CURRENT_DESKTOP") + ":" + e.Getenv("DESKTOP_SESSION"))

	needles := []struct {
		desktop string
		words   []string
	}{
		{DesktopCosmic, []string{"cosmic", "pop"}},
		{DesktopGNOME, []string{"gnome", "ubuntu"}},
		{DesktopKDE, []string{"kde", "plasma"}},
		{DesktopXFCE, []string{"xfce"}},
		{DesktopMATE, []string{"mate"}},
	}
	for _, n := range needles {
		for _, w := range n.words {
			if strings.Contains(hint, w) {
				return n.desktop
			}
		}
	}
	return DesktopUnknown
}

// DetectDisplayServer is SystemEnv().DisplayServer().
func DetectDisplayServer() string {
	return SystemEnv().DisplayServer()
}

// DetectDesktopEnvironment is SystemEnv().DesktopEnvironment().
func DetectDesktopEnvironment() string {
	return SystemEnv().DesktopEnvironment()
}

// DistroInfo names the distribution and its package manager.
type DistroInfo struct {
	Name       string
	PkgManager string
}

// DetectDistribution reads /etc/os-release.
func DetectDistribution() DistroInfo {
	f, err := os.Open("/etc/os-release")
	if err != nil {
		return DistroInfo{Name: "unknown", PkgManager: firstPackageManager(util.HasCommand)}
	}
	defer f.Close()
	return parseOSRelease(f, util.HasCommand)
}

func parseOSRelease(r io.Reader, has func(string) bool) DistroInfo {
	var id, idLike string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"`)
		switch key {
		case "ID":
			id = strings.ToLower(value)
		case "ID_LIKE":
			idLike = strings.ToLower(value)
		}
	}
	if id == "" {
		id = "unknown"
	}
	return DistroInfo{Name: id, PkgManager: packageManagerFor(id, idLike, has)}
}

func packageManagerFor(id, idLike string, has func(string) bool) string {
	family := id + " " + idLike
	switch {
	case containsAny(family, "debian", "ubuntu", "pop"):
		return "apt"
	case containsAny(family, "fedora", "rhel", "centos"):
		if has("dnf") {
			return "dnf"
		}
		return "yum"
	case containsAny(family, "arch", "manjaro"):
		return "pacman"
	case containsAny(family, "suse"):
		return "zypper"
	case id == "alpine":
		return "apk"
	default:
		return firstPackageManager(has)
	}
}

func firstPackageManager(has func(string) bool) string {
	for _, m := range []string{"apt", "dnf", "yum", "pacman", "zypper", "apk"} {
		if has(m) {
			return m
		}
	}
	return "unknown"
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
