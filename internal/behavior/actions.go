package behavior

// InputType is the input family a cycle is dedicated to.
type InputType int

const (
	InputMouse InputType = iota
	InputKeyboard
	InputMixed
)

func (t InputType) String() string {
	switch t {
	case InputMouse:
		return "mouse"
	case InputKeyboard:
		return "keyboard"
	case InputMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// MouseAction is a concrete step of a mouse cycle.
type MouseAction int

const (
	MouseScroll MouseAction = iota
	MouseMove
	MouseClick
)

// MixedAction is a concrete step of a mixed cycle.
type MixedAction int

const (
	MixedScroll MixedAction = iota
	MixedMove
	MixedApp
	MixedClickKeys
)

// MicroAction is one filler event inside a density burst.
type MicroAction int

const (
	MicroMove MicroAction = iota
	MicroClick
	MicroScroll
	MicroType
)

func (a MicroAction) String() string {
	switch a {
	case MicroMove:
		return "move"
	case MicroClick:
		return "click"
	case MicroScroll:
		return "scroll"
	case MicroType:
		return "type"
	default:
		return "unknown"
	}
}
