//go:build linux

package linux

import (
	"fmt"
	"strings"
)

// Linux evdev codes (linux/input-event-codes.h).
const (
	keyEsc        = 1
	keyMinus      = 12
	keyEqual      = 13
	keyBackspace  = 14
	keyTab        = 15
	keyLeftBrace  = 26
	keyRightBrace = 27
	keyEnter      = 28
	keyLeftCtrl   = 29
	keySemicolon  = 39
	keyApostrophe = 40
	keyGrave      = 41
	keyLeftShift  = 42
	keyBackslash  = 43
	keyComma      = 51
	keyDot        = 52
	keySlash      = 53
	keyLeftAlt    = 56
	keySpace      = 57
	keyF1         = 59
	keyHome       = 102
	keyUp         = 103
	keyPageUp     = 104
	keyLeft       = 105
	keyRight      = 106
	keyEnd        = 107
	keyDown       = 108
	keyPageDown   = 109
	keyDelete     = 111
	keyLeftMeta   = 125

	btnLeft   = 0x110
	btnRight  = 0x111
	btnMiddle = 0x112
)

// letter rows in evdev order
var keyRows = []struct {
	first uint16
	chars string
}{
	{16, "qwertyuiop"},
	{30, "asdfghjkl"},
	{44, "zxcvbnm"},
}

// keyCodes resolves key names and single characters to evdev codes.
var keyCodes = func() map[string]uint16 {
	m := map[string]uint16{
		"esc": keyEsc, "escape": keyEsc,
		"backspace": keyBackspace, "tab": keyTab,
		"enter": keyEnter, "return": keyEnter,
		"space": keySpace,
		"ctrl": keyLeftCtrl, "control": keyLeftCtrl,
		"shift": keyLeftShift,
		"alt": keyLeftAlt,
		"cmd": keyLeftMeta, "super": keyLeftMeta, "meta": keyLeftMeta,
		"home": keyHome, "end": keyEnd,
		"pageup": keyPageUp, "pagedown": keyPageDown,
		"delete": keyDelete,
		"up": keyUp, "down": keyDown, "left": keyLeft, "right": keyRight,
		"-": keyMinus, "=": keyEqual, "[": keyLeftBrace, "]": keyRightBrace,
		";": keySemicolon, "'": keyApostrophe, "`": keyGrave, "\\": keyBackslash,
		",": keyComma, ".": keyDot, "/": keySlash,
	}
	for _, row := range keyRows {
		for i, c := range row.chars {
			m[string(c)] = row.first + uint16(i)
		}
	}
	// 1..9 are 2..10, 0 is 11
	for d := 1; d <= 9; d++ {
		m[fmt.Sprint(d)] = uint16(d + 1)
	}
	m["0"] = 11
	for f := 1; f <= 10; f++ {
		m[fmt.Sprintf("f%d", f)] = uint16(keyF1 + f - 1)
	}
	return m
}()

// shifted maps characters that need shift to their unshifted key.
var shifted = map[rune]string{
	'!': "1", '@': "2", '#': "3", '$': "4", '%': "5",
	'^': "6", '&': "7", '*': "8", '(': "9", ')': "0",
	'_': "-", '+': "=", '{': "[", '}': "]", ':': ";",
	'"': "'", '~': "`", '|': "\\", '<': ",", '>': ".", '?': "/",
}

// KeyCode resolves a key name such as "tab", "ctrl" or "p".
func KeyCode(name string) (uint16, error) {
	if code, ok := keyCodes[strings.ToLower(name)]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

// RuneCode resolves a printable rune to its key and whether shift is held.
func RuneCode(r rune) (code uint16, shift bool, err error) {
	switch r {
	case ' ':
		return keySpace, false, nil
	case '\n':
		return keyEnter, false, nil
	case '\t':
		return keyTab, false, nil
	}
	if r >= 'A' && r <= 'Z' {
		code, err := KeyCode(string(r + ('a' - 'A')))
		return code, true, err
	}
	if base, ok := shifted[r]; ok {
		code, err := KeyCode(base)
		return code, true, err
	}
	if code, ok := keyCodes[string(r)]; ok {
		return code, false, nil
	}
	return 0, false, fmt.Errorf("no key for rune %q", r)
}

// ButtonCode maps "left", "right" and "middle".
func ButtonCode(button string) (uint16, error) {
	switch strings.ToLower(button) {
	case "", "left":
		return btnLeft, nil
	case "right":
		return btnRight, nil
	case "middle", "center":
		return btnMiddle, nil
	}
	return 0, fmt.Errorf("unknown button %q", button)
}

// supportedKeys is every code the uinput device advertises.
func supportedKeys() []uint16 {
	seen := map[uint16]bool{}
	var codes []uint16
	for _, c := range keyCodes {
		if !seen[c] {
			seen[c] = true
			codes = append(codes, c)
		}
	}
	return append(codes, btnLeft, btnRight, btnMiddle)
}
