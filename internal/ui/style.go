// Package ui provides the terminal user interface for the activity simulator.
package ui

import "github.com/charmbracelet/lipgloss"

// Colors defines the color scheme used throughout the application
type Colors struct {
	Subtle    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Special   lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
}

var defaultColors = Colors{
	Subtle:    lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"},
	Highlight: lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"},
	Special:   lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"},
	Warning:   lipgloss.AdaptiveColor{Light: "#C27C0E", Dark: "#F5A623"},
	Error:     lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF4040"},
}

// Style represents a collection of styles used in the application
type Style struct {
	Title      lipgloss.Style
	Active     lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	InputBox   lipgloss.Style
	Help       lipgloss.Style
	Error      lipgloss.Style
	Countdown  lipgloss.Style

	StatLabel lipgloss.Style
	StatValue lipgloss.Style
	DryRun    lipgloss.Style

	ProgressBar          lipgloss.Style
	ProgressBarContainer lipgloss.Style
}

// DefaultStyle returns the default style configuration
func DefaultStyle() Style {
	base := lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1)

	return Style{
		Title: base.
			Bold(true).
			Foreground(defaultColors.Highlight),
		Active: base.
			Foreground(defaultColors.Special),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(defaultColors.Highlight),
		Unselected: lipgloss.NewStyle().
			Foreground(defaultColors.Subtle),
		InputBox: base.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(defaultColors.Highlight).
			Padding(0, 1),
		Help: base.
			Foreground(defaultColors.Subtle),
		Error: base.
			Foreground(defaultColors.Error),
		Countdown: base.
			Foreground(defaultColors.Highlight).
			Bold(true),

		StatLabel: lipgloss.NewStyle().
			Foreground(defaultColors.Subtle).
			Width(12),
		StatValue: lipgloss.NewStyle().
			Bold(true),
		DryRun: lipgloss.NewStyle().
			Bold(true).
			Foreground(defaultColors.Warning),

		ProgressBar: lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#3C3C3C"}),
		ProgressBarContainer: base,
	}
}

// Current holds the current style configuration
var Current = DefaultStyle()
