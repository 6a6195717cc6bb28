package window

import (
	"context"
	"slices"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

var linuxTitleKeywords = []string{
	"desktop",
	"panel",
	"dock",
	"launcher",
	"notification",
	"system settings",
	"ubuntu software",
	"software updater",
	"terminal",
	"gnome-terminal",
	"konsole",
	"xfce4-terminal",
	"slack",
	"hubstaff",
}

var windowsTitleKeywords = []string{
	"default ime",
	"settings",
	"control panel",
	"task manager",
	"registry editor",
	"system configuration",
	"windows security",
	"device manager",
	"event viewer",
	"services",
	"computer management",
	"microsoft management console",
	"windows powershell",
	"command prompt",
	"cortana",
	"search",
	"start",
	"taskbar",
	"notification area",
	"slack",
	"hubstaff",
}

var linuxProcesses = []string{
	"gnome-shell",
	"plasmashell",
	"xfce4-panel",
	"gnome-terminal-server",
	"konsole",
	"slack",
	"hubstaff",
	"activitysim",
}

var windowsProcesses = []string{
	"searchhost.exe",
	"shellexperiencehost.exe",
	"startmenuexperiencehost.exe",
	"textinputhost.exe",
	"taskmgr.exe",
	"slack.exe",
	"hubstaff.exe",
	"activitysim.exe",
}

// ProcessNamer resolves a pid to its executable name.
type ProcessNamer func(ctx context.Context, pid int32) (string, error)

// ProcessName looks pid up through gopsutil.
func ProcessName(ctx context.Context, pid int32) (string, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return "", err
	}
	return p.NameWithContext(ctx)
}

// Filter drops windows that should never receive synthetic focus.
// Keywords match title substrings, Processes match executable names;
// both case-insensitively.
type Filter struct {
	Keywords  []string
	Processes []string
	Namer     ProcessNamer
}

// DefaultFilter returns the exclusion lists for goos.
func DefaultFilter(goos string) Filter {
	f := Filter{Namer: ProcessName}
	switch goos {
	case "windows":
		f.Keywords = slices.Clone(windowsTitleKeywords)
		f.Processes = slices.Clone(windowsProcesses)
	default:
		f.Keywords = slices.Clone(linuxTitleKeywords)
		f.Processes = slices.Clone(linuxProcesses)
	}
	return f
}

// Allowed reports whether a window titled title may be targeted.
func (f Filter) Allowed(title string) bool {
	if strings.TrimSpace(title) == "" {
		return false
	}
	lower := strings.ToLower(title)
	for _, kw := range f.Keywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}

// Apply fills in process names where a pid is known, then keeps the
// allowed windows. Duplicate ids are dropped.
func (f Filter) Apply(ctx context.Context, windows []Window) []Window {
	out := make([]Window, 0, len(windows))
	seen := make(map[string]bool, len(windows))
	for _, w := range windows {
		if seen[w.ID] || !f.Allowed(w.Title) {
			continue
		}
		seen[w.ID] = true
		if w.Process == "" && w.PID > 0 && f.Namer != nil {
			if name, err := f.Namer(ctx, w.PID); err == nil {
				w.Process = name
			}
		}
		if w.Process != "" && slices.Contains(f.Processes, strings.ToLower(w.Process)) {
			continue
		}
		out = append(out, w)
	}
	return out
}
