//go:build linux

package platform

import (
	"runtime"

	"github.com/stigoleg/activity-sim/internal/platform/linux"
)

// Detect inspects the running Linux session.
func Detect() Capabilities {
	lc := linux.DetectCapabilities()
	deps := linux.CheckMissingDependencies(lc, linux.DetectDistribution())
	return fromLinux(lc, deps)
}

func fromLinux(lc linux.Capabilities, deps []linux.Dependency) Capabilities {
	c := Capabilities{
		OS:            runtime.GOOS,
		DisplayServer: lc.DisplayServer,
		Desktop:       lc.DesktopEnvironment,
		Tools: map[string]bool{
			"xdotool":         lc.Xdotool,
			"ydotool":         lc.Ydotool,
			"wmctrl":          lc.Wmctrl,
			"xwininfo":        lc.Xwininfo,
			"xprintidle":      lc.Xprintidle,
			"systemd-inhibit": lc.SystemdInhibit,
		},
		Uinput:        lc.Uinput,
		UinputMessage: lc.UinputMessage,
		report:        linux.FormatDependencyMessages(deps, lc.Uinput),
	}
	for _, d := range deps {
		c.Missing = append(c.Missing, Dependency{
			Name:        d.Name,
			WhyNeeded:   d.WhyNeeded,
			InstallCmd:  d.InstallCmd,
			Note:        d.Note,
			Alternative: d.Alternative,
			Optional:    d.Optional,
		})
	}
	return c
}

func (c Capabilities) linuxView() linux.Capabilities {
	return linux.Capabilities{
		DisplayServer:      c.DisplayServer,
		DesktopEnvironment: c.Desktop,
		Xdotool:            c.Has("xdotool"),
		Ydotool:            c.Has("ydotool"),
		Wmctrl:             c.Has("wmctrl"),
		Xwininfo:           c.Has("xwininfo"),
		Xprintidle:         c.Has("xprintidle"),
		SystemdInhibit:     c.Has("systemd-inhibit"),
		Uinput:             c.Uinput,
		UinputMessage:      c.UinputMessage,
	}
}
