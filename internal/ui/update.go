package ui

import (
	"strconv"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const menuItems = 3

// maxInputDigits limits the minutes field.
const maxInputDigits = 4

// tickMsg is sent when the countdown timer ticks
type tickMsg time.Time

// Update handles messages and updates the model accordingly.
func Update(msg tea.Msg, m Model) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, m.keys.ToggleHelp) && m.State != StateTimedInput {
			m.ShowHelp = !m.ShowHelp
			return m, nil
		}
		if m.ShowHelp {
			if key.Matches(msg, m.keys.Quit, m.keys.Back) {
				m.ShowHelp = false
			}
			return m, nil
		}
	}

	switch m.State {
	case StateMenu:
		return updateMenu(msg, m)
	case StateTimedInput:
		return updateTimedInput(msg, m)
	case StateRunning:
		return updateRunning(msg, m)
	}
	return m, nil
}

func updateMenu(msg tea.Msg, m Model) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.Selected > 0 {
			m.Selected--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.Selected < menuItems-1 {
			m.Selected++
		}
	case key.Matches(keyMsg, m.keys.Select):
		switch m.Selected {
		case 0:
			if err := m.Keeper.StartIndefinite(); err != nil {
				m.ErrorMessage = err.Error()
				return m, nil
			}
			m.State = StateRunning
			m.Duration = 0
			m.ErrorMessage = ""
			return m, tick()
		case 1:
			m.State = StateTimedInput
			m.Input = ""
			m.ErrorMessage = ""
		default:
			return m, tea.Quit
		}
	case key.Matches(keyMsg, m.keys.Quit, m.keys.Back):
		return m, tea.Quit
	}
	return m, nil
}

func updateTimedInput(msg tea.Msg, m Model) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Submit):
		if m.Input == "" {
			m.ErrorMessage = "Please enter a duration"
			return m, nil
		}
		minutes, err := strconv.Atoi(m.Input)
		if err != nil {
			m.ErrorMessage = "Invalid duration"
			return m, nil
		}
		if minutes <= 0 {
			m.ErrorMessage = "Duration must be positive"
			return m, nil
		}
		d := time.Duration(minutes) * time.Minute
		if err := m.Keeper.StartTimed(d); err != nil {
			m.ErrorMessage = err.Error()
			return m, nil
		}
		m.State = StateRunning
		m.Duration = d
		m.ErrorMessage = ""
		return m, tick()
	case key.Matches(keyMsg, m.keys.Back):
		m.State = StateMenu
		m.ErrorMessage = ""
	case key.Matches(keyMsg, m.keys.Backspace):
		if len(m.Input) > 0 {
			m.Input = m.Input[:len(m.Input)-1]
			m.ErrorMessage = ""
		}
	case keyMsg.String() == "ctrl+c":
		return m, tea.Quit
	default:
		s := keyMsg.String()
		if len(s) == 1 && unicode.IsDigit(rune(s[0])) && len(m.Input) < maxInputDigits {
			m.Input += s
			m.ErrorMessage = ""
		}
	}
	return m, nil
}

func updateRunning(msg tea.Msg, m Model) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Stop):
			err := m.Keeper.Stop()
			m.Stats = m.Keeper.Stats()
			m.State = StateMenu
			m.ErrorMessage = ""
			if err != nil {
				m.ErrorMessage = err.Error()
			}
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	case tickMsg:
		m.Stats = m.Keeper.Stats()
		m.Health = m.Keeper.GetSimulationHealth()
		if !m.Keeper.IsRunning() {
			m.State = StateMenu
			m.ErrorMessage = ""
			if err := m.Keeper.Err(); err != nil {
				m.ErrorMessage = err.Error()
			}
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
