//go:build linux

package linux

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/stigoleg/activity-sim/internal/util"
)

// Tool names understood by CommandInjector.
const (
	ToolXdotool = "xdotool"
	ToolYdotool = "ydotool"
)

// ErrToolUnsupported is returned for operations the helper tool cannot do.
var ErrToolUnsupported = errors.New("operation not supported by tool")

// CommandInjector drives xdotool or ydotool as a subprocess per action.
type CommandInjector struct {
	tool string
	run  util.Runner
}

// NewCommandInjector returns an injector for tool. run defaults to util.Run.
func NewCommandInjector(tool string, run util.Runner) (*CommandInjector, error) {
	if tool != ToolXdotool && tool != ToolYdotool {
		return nil, fmt.Errorf("unknown input tool %q", tool)
	}
	if run == nil {
		run = util.Run
	}
	return &CommandInjector{tool: tool, run: run}, nil
}

func (c *CommandInjector) exec(args ...string) (string, error) {
	return runTimeout(context.Background(), c.run, c.tool, args...)
}

func (c *CommandInjector) Name() string { return c.tool }

// ScreenSize asks xdotool for the display geometry.
func (c *CommandInjector) ScreenSize() (int, int, error) {
	if c.tool != ToolXdotool {
		return 0, 0, fmt.Errorf("%s screen size: %w", c.tool, ErrToolUnsupported)
	}
	out, err := c.exec("getdisplaygeometry")
	if err != nil {
		return 0, 0, err
	}
	var w, h int
	if _, err := fmt.Sscanf(out, "%d %d", &w, &h); err != nil {
		return 0, 0, fmt.Errorf("parse display geometry %q: %w", out, err)
	}
	return w, h, nil
}

// Position parses `xdotool getmouselocation --shell`.
func (c *CommandInjector) Position() (int, int, error) {
	if c.tool != ToolXdotool {
		return 0, 0, fmt.Errorf("%s pointer position: %w", c.tool, ErrToolUnsupported)
	}
	out, err := c.exec("getmouselocation", "--shell")
	if err != nil {
		return 0, 0, err
	}
	vals := parseShellVars(out)
	x, errX := strconv.Atoi(vals["X"])
	y, errY := strconv.Atoi(vals["Y"])
	if err := errors.Join(errX, errY); err != nil {
		return 0, 0, fmt.Errorf("parse mouse location %q: %w", out, err)
	}
	return x, y, nil
}

func parseShellVars(out string) map[string]string {
	vals := map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		if k, v, ok := strings.Cut(strings.TrimSpace(line), "="); ok {
			vals[k] = v
		}
	}
	return vals
}

func (c *CommandInjector) MoveTo(x, y int) error {
	var err error
	if c.tool == ToolXdotool {
		_, err = c.exec("mousemove", strconv.Itoa(x), strconv.Itoa(y))
	} else {
		_, err = c.exec("mousemove", "--absolute", "-x", strconv.Itoa(x), "-y", strconv.Itoa(y))
	}
	return err
}

func (c *CommandInjector) MoveRelative(dx, dy int) error {
	var err error
	if c.tool == ToolXdotool {
		_, err = c.exec("mousemove_relative", "--", strconv.Itoa(dx), strconv.Itoa(dy))
	} else {
		_, err = c.exec("mousemove", "-x", strconv.Itoa(dx), "-y", strconv.Itoa(dy))
	}
	return err
}

// xdotool button numbers and ydotool down+up click codes.
var (
	xdoButtons = map[string]string{"": "1", "left": "1", "middle": "2", "right": "3"}
	ydoButtons = map[string]string{"": "0xC0", "left": "0xC0", "right": "0xC1", "middle": "0xC2"}
)

func (c *CommandInjector) Click(button string) error {
	table := xdoButtons
	if c.tool == ToolYdotool {
		table = ydoButtons
	}
	b, ok := table[strings.ToLower(button)]
	if !ok {
		return fmt.Errorf("unknown button %q", button)
	}
	_, err := c.exec("click", b)
	return err
}

// Scroll moves the wheel; positive amounts scroll down.
func (c *CommandInjector) Scroll(amount int) error {
	if amount == 0 {
		return nil
	}
	if c.tool == ToolYdotool {
		// ydotool wheel values are positive for up
		_, err := c.exec("mousemove", "--wheel", "-x", "0", "-y", strconv.Itoa(-amount))
		return err
	}
	button, clicks := "5", amount
	if amount < 0 {
		button, clicks = "4", -amount
	}
	_, err := c.exec("click", "--repeat", strconv.Itoa(clicks), "--delay", "10", button)
	return err
}

func (c *CommandInjector) KeyTap(key string, mods ...string) error {
	if c.tool == ToolYdotool {
		return c.ydoChord(key, mods)
	}
	_, err := c.exec("key", "--clearmodifiers", strings.Join(append(slices.Clone(mods), xdoKeyName(key)), "+"))
	return err
}

// ydotool key takes raw evdev codes as code:1 (down) and code:0 (up).
func (c *CommandInjector) ydoChord(key string, mods []string) error {
	code, err := KeyCode(key)
	if err != nil {
		return err
	}
	held := make([]uint16, 0, len(mods))
	for _, m := range mods {
		mc, err := KeyCode(m)
		if err != nil {
			return err
		}
		held = append(held, mc)
	}
	_, err = c.exec(append([]string{"key"}, chordArgs(code, held)...)...)
	return err
}

func chordArgs(code uint16, held []uint16) []string {
	args := make([]string, 0, 2*len(held)+2)
	for _, m := range held {
		args = append(args, fmt.Sprintf("%d:1", m))
	}
	args = append(args, fmt.Sprintf("%d:1", code), fmt.Sprintf("%d:0", code))
	for i := len(held) - 1; i >= 0; i-- {
		args = append(args, fmt.Sprintf("%d:0", held[i]))
	}
	return args
}

var xdoKeys = map[string]string{
	"enter": "Return", "return": "Return",
	"esc": "Escape", "escape": "Escape",
	"backspace": "BackSpace", "tab": "Tab", "space": "space",
	"delete": "Delete", "home": "Home", "end": "End",
	"pageup": "Prior", "pagedown": "Next",
	"up": "Up", "down": "Down", "left": "Left", "right": "Right",
}

func xdoKeyName(key string) string {
	if k, ok := xdoKeys[strings.ToLower(key)]; ok {
		return k
	}
	return key
}

func (c *CommandInjector) TypeRune(r rune) error {
	var err error
	if c.tool == ToolXdotool {
		_, err = c.exec("type", "--delay", "0", "--", string(r))
	} else {
		_, err = c.exec("type", "--key-delay", "0", "--", string(r))
	}
	return err
}

func (c *CommandInjector) Close() error { return nil }
