//go:build linux

package linux

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInstallCommand(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		distro   DistroInfo
		wantCmd  string
		wantNote bool
	}{
		{"apt wmctrl", "wmctrl", DistroInfo{"ubuntu", "apt"}, "sudo apt update && sudo apt install wmctrl", false},
		{"apt xwininfo package", "xwininfo", DistroInfo{"ubuntu", "apt"}, "sudo apt update && sudo apt install x11-utils", false},
		{"pacman xwininfo package", "xwininfo", DistroInfo{"arch", "pacman"}, "sudo pacman -S xorg-xwininfo", false},
		{"dnf xdotool", "xdotool", DistroInfo{"fedora", "dnf"}, "sudo dnf install xdotool", false},
		{"ydotool note", "ydotool", DistroInfo{"arch", "pacman"}, "sudo pacman -S ydotool", true},
		{"apk", "xprintidle", DistroInfo{"alpine", "apk"}, "sudo apk add xprintidle", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, note := GenerateInstallCommand(tt.tool, tt.distro)
			assert.Equal(t, tt.wantCmd, cmd)
			assert.Equal(t, tt.wantNote, note != "")
		})
	}

	cmd, note := GenerateInstallCommand("", DistroInfo{})
	assert.Empty(t, cmd)
	assert.NotEmpty(t, note)

	cmd, note = GenerateInstallCommand("wmctrl", DistroInfo{"gentoo", "unknown"})
	assert.Contains(t, cmd, "wmctrl")
	assert.Contains(t, note, "wmctrl")
}

func names(deps []Dependency) []string {
	var out []string
	for _, d := range deps {
		out = append(out, d.Name)
	}
	return out
}

func TestCheckMissingDependencies(t *testing.T) {
	distro := DistroInfo{"ubuntu", "apt"}

	t.Run("bare x11", func(t *testing.T) {
		deps := CheckMissingDependencies(Capabilities{DisplayServer: DisplayServerX11}, distro)
		assert.Equal(t, []string{"wmctrl", "xdotool", "xwininfo", "xprintidle"}, names(deps))
		assert.Equal(t, []string{"wmctrl", "xdotool"}, names(RequiredMissing(deps)))
	})

	t.Run("complete x11", func(t *testing.T) {
		caps := Capabilities{DisplayServer: DisplayServerX11, Wmctrl: true, Xdotool: true, Xwininfo: true, Xprintidle: true}
		assert.Empty(t, CheckMissingDependencies(caps, distro))
	})

	t.Run("wayland without uinput", func(t *testing.T) {
		deps := CheckMissingDependencies(Capabilities{DisplayServer: DisplayServerWayland}, distro)
		require.Len(t, deps, 1)
		assert.Equal(t, "ydotool", deps[0].Name)
		assert.False(t, deps[0].Optional)
	})

	t.Run("wayland with uinput", func(t *testing.T) {
		deps := CheckMissingDependencies(Capabilities{DisplayServer: DisplayServerWayland, Uinput: true}, distro)
		require.Len(t, deps, 1)
		assert.True(t, deps[0].Optional)
		assert.Empty(t, RequiredMissing(deps))
	})
}

func TestFormatDependencyMessages(t *testing.T) {
	assert.Empty(t, FormatDependencyMessages(nil, false))

	deps := CheckMissingDependencies(Capabilities{DisplayServer: DisplayServerX11}, DistroInfo{"ubuntu", "apt"})
	msg := FormatDependencyMessages(deps, false)
	assert.Contains(t, msg, "1. wmctrl (required)")
	assert.Contains(t, msg, "4. xprintidle (optional)")
	assert.Contains(t, msg, "sudo apt update && sudo apt install wmctrl")
	assert.Contains(t, msg, "usermod -aG input")

	withUinput := FormatDependencyMessages(deps, true)
	assert.False(t, strings.Contains(withUinput, "Tip:"))
}

func TestLookupGroupGID(t *testing.T) {
	groups := "root:x:0:\nvideo:x:44:alice\ninput:x:104:alice,bob\n"
	assert.Equal(t, 104, lookupGroupGID(strings.NewReader(groups), "input"))
	assert.Equal(t, -1, lookupGroupGID(strings.NewReader(groups), "plugdev"))
	assert.Equal(t, -1, lookupGroupGID(strings.NewReader("input:x:abc:\n"), "input"))
}
