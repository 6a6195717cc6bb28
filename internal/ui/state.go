package ui

// State is the screen the TUI is showing.
type State int

const (
	StateMenu State = iota
	StateTimedInput
	StateRunning
	StateHelp
)

var stateNames = [...]string{"menu", "timed-input", "running", "help"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
