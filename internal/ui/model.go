package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stigoleg/activity-sim/internal/keepalive"
	"github.com/stigoleg/activity-sim/internal/simulator"
)

// Options describe the session the TUI controls.
type Options struct {
	DryRun  bool
	Backend string
	Stack   string
}

// Model holds the current state of the UI: the menu selection, typed
// input and the live session counters.
type Model struct {
	State        State
	Selected     int
	Input        string
	Keeper       *keepalive.Keeper
	ErrorMessage string
	Duration     time.Duration
	ShowHelp     bool

	Options Options
	Stats   simulator.Snapshot
	Health  keepalive.SimulationHealth

	keys KeyMap
	help help.Model
}

// NewModel returns the menu model for keeper.
func NewModel(keeper *keepalive.Keeper, opts Options) Model {
	return Model{
		State:   StateMenu,
		Keeper:  keeper,
		Options: opts,
		keys:    DefaultKeys(),
		help:    NewHelpModel(),
	}
}

// NewRunningModel starts a session right away: timed when d is positive,
// indefinite otherwise. A start failure lands on the menu with the error.
func NewRunningModel(keeper *keepalive.Keeper, opts Options, d time.Duration) Model {
	m := NewModel(keeper, opts)
	var err error
	if d > 0 {
		err = keeper.StartTimed(d)
	} else {
		err = keeper.StartIndefinite()
	}
	if err != nil {
		m.ErrorMessage = err.Error()
		return m
	}
	m.State = StateRunning
	m.Duration = d
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if m.State == StateRunning {
		return tick()
	}
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return Update(msg, m)
}

// View implements tea.Model
func (m Model) View() string {
	return View(m)
}

// TimeRemaining returns the remaining duration of a timed session.
func (m Model) TimeRemaining() time.Duration {
	if m.State != StateRunning || m.Keeper == nil {
		return 0
	}
	return m.Keeper.TimeRemaining()
}

// Run shows the TUI until the user quits, then stops any session.
func Run(m Model, opts ...tea.ProgramOption) error {
	final, err := tea.NewProgram(m, opts...).Run()
	if fm, ok := final.(Model); ok && fm.Keeper != nil {
		if stopErr := fm.Keeper.Stop(); stopErr != nil && err == nil {
			err = stopErr
		}
	}
	return err
}
