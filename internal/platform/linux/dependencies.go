//go:build linux

package linux

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
)

const uinputDevicePath = "/dev/uinput"

// Dependency describes a helper tool the simulator would use if present.
type Dependency struct {
	Name        string
	WhyNeeded   string
	InstallCmd  string
	Note        string
	Alternative string
	Optional    bool
}

// packages maps tool names to package names where they differ.
var packages = map[string]string{
	"xwininfo":        "x11-utils",
	"systemd-inhibit": "systemd",
}

// GenerateInstallCommand returns a distro-specific install line for tool
// and an optional note about where to find it.
func GenerateInstallCommand(tool string, distro DistroInfo) (cmd string, note string) {
	if tool == "" {
		return "", "Tool name is required"
	}
	pkg := tool
	if p, ok := packages[tool]; ok {
		pkg = p
	}
	if tool == "xwininfo" && distro.PkgManager != "apt" {
		pkg = "xorg-xwininfo"
	}

	switch distro.PkgManager {
	case "apt":
		cmd = "sudo apt update && sudo apt install " + pkg
	case "dnf", "yum":
		cmd = fmt.Sprintf("sudo %s install %s", distro.PkgManager, pkg)
	case "pacman":
		cmd = "sudo pacman -S " + pkg
	case "zypper":
		cmd = "sudo zypper install " + pkg
	case "apk":
		cmd = "sudo apk add " + pkg
	default:
		return fmt.Sprintf("Install %s using your distribution's package manager", pkg),
			fmt.Sprintf("Package name: %s. Check your distribution's repositories.", pkg)
	}

	if tool == "ydotool" {
		switch distro.PkgManager {
		case "pacman":
			note = "ydotool also needs the ydotoold daemon running (systemctl --user enable --now ydotool)"
		default:
			note = "ydotool may be missing from default repos; build from source if the package is not found"
		}
	}
	return cmd, note
}

// CheckMissingDependencies lists tools that would widen what the simulator
// can do in the current session.
func CheckMissingDependencies(caps Capabilities, distro DistroInfo) []Dependency {
	var missing []Dependency
	add := func(tool, why, alt string, optional bool) {
		cmd, note := GenerateInstallCommand(tool, distro)
		missing = append(missing, Dependency{
			Name:        tool,
			WhyNeeded:   why,
			InstallCmd:  cmd,
			Note:        note,
			Alternative: alt,
			Optional:    optional,
		})
	}

	x11 := caps.DisplayServer == DisplayServerX11
	wayland := caps.DisplayServer == DisplayServerWayland

	if x11 && !caps.Wmctrl {
		add("wmctrl", "Lists and focuses application windows for window switching",
			"Window listing falls back to the X11 protocol and xdotool", false)
	}
	if x11 && !caps.Xdotool {
		alt := "Not needed when uinput or ydotool is configured"
		if !caps.Uinput && !caps.Ydotool {
			alt = "Install ydotool or set up uinput access instead"
		}
		add("xdotool", "Moves the pointer, clicks and types on X11", alt, false)
	}
	if x11 && !caps.Xwininfo {
		add("xwininfo", "Reads window geometry so pointer moves stay inside the focused window",
			"Moves use the full screen instead", true)
	}
	if wayland && !caps.Ydotool {
		alt := uinputGroupHint
		if caps.Uinput {
			alt = "uinput is already accessible and will be used"
		}
		add("ydotool", "Injects input on Wayland where xdotool cannot", alt, !caps.Uinput)
	}
	if x11 && !caps.Xprintidle {
		add("xprintidle", "Detects when you are using the machine so synthetic input pauses",
			"GNOME sessions use the Mutter idle monitor over DBus instead", true)
	}
	return missing
}

// RequiredMissing filters deps down to the non-optional ones.
func RequiredMissing(deps []Dependency) []Dependency {
	return slices.DeleteFunc(slices.Clone(deps), func(d Dependency) bool { return d.Optional })
}

// FormatDependencyMessages renders deps as a boxed, numbered list.
func FormatDependencyMessages(deps []Dependency, hasUinput bool) string {
	if len(deps) == 0 {
		return ""
	}

	const rule = "═══════════════════════════════════════════════════════════\n"
	var b strings.Builder
	b.WriteString("\n" + rule)
	b.WriteString("  Missing Dependencies Detected\n")
	b.WriteString(rule + "\n")

	for i, dep := range deps {
		kind := "required"
		if dep.Optional {
			kind = "optional"
		}
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, dep.Name, kind)
		fmt.Fprintf(&b, "   Why needed: %s\n", dep.WhyNeeded)
		fmt.Fprintf(&b, "   Install with: %s\n", dep.InstallCmd)
		if dep.Note != "" {
			fmt.Fprintf(&b, "   Note: %s\n", dep.Note)
		}
		if dep.Alternative != "" {
			fmt.Fprintf(&b, "   Alternative: %s\n", dep.Alternative)
		}
		b.WriteString("\n")
	}

	if !hasUinput {
		b.WriteString("Tip: " + uinputGroupHint + "\n\n")
	}
	b.WriteString(rule)
	return b.String()
}

const uinputGroupHint = "native input without helper tools needs uinput access: sudo usermod -aG input $USER, then log out and back in"

const uinputUdevHint = "Alternatively, create a udev rule:\n" +
	"  echo 'KERNEL==\"uinput\", MODE=\"0664\", GROUP=\"input\"' | sudo tee /etc/udev/rules.d/99-uinput.rules\n" +
	"  sudo udevadm control --reload-rules\n" +
	"  sudo udevadm trigger"

// CheckUinputPermissions reports whether /dev/uinput can be opened for
// writing and, if not, how to fix it.
func CheckUinputPermissions() (bool, string) {
	if _, err := os.Stat(uinputDevicePath); errors.Is(err, fs.ErrNotExist) {
		return false, "uinput device not found: /dev/uinput does not exist. Load the module with: sudo modprobe uinput"
	}

	f, err := os.OpenFile(uinputDevicePath, os.O_WRONLY, 0)
	if err == nil {
		f.Close()
		return true, ""
	}

	if gid := inputGroupGID(); gid >= 0 {
		groups, gerr := os.Getgroups()
		if gerr == nil && !slices.Contains(groups, gid) {
			return false, "uinput permission denied. Add your user to the 'input' group:\n  sudo usermod -aG input $USER\nThen log out and log back in.\n\n" + uinputUdevHint
		}
	}
	return false, fmt.Sprintf("uinput permission denied: %v\n\n%s", err, uinputUdevHint)
}

func inputGroupGID() int {
	f, err := os.Open("/etc/group")
	if err != nil {
		return -1
	}
	defer f.Close()
	return lookupGroupGID(f, "input")
}

func lookupGroupGID(r io.Reader, name string) int {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		parts := strings.Split(sc.Text(), ":")
		if len(parts) >= 3 && parts[0] == name {
			if gid, err := strconv.Atoi(parts[2]); err == nil {
				return gid
			}
		}
	}
	return -1
}
