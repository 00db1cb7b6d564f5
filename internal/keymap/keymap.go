// Package keymap translates keyboard keys and keypad buttons into calc events.
//
// Keyboard mapping:
//
//	0-9 . + - * / ( )   append
//	Backspace           backspace
//	Escape              clear
//	Enter, =            evaluate
//
// Key names are NFC-normalized and width-folded first, so full-width input
// ("７", "＋") behaves like its ASCII counterpart.
package keymap

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/roach88/keypad/internal/calc"
)

// Mode selects how keyboard append keys are routed.
type Mode string

const (
	// Guarded routes keyboard appends through calc.Append, same as the keypad.
	Guarded Mode = "guarded"

	// Legacy routes keyboard appends through calc.AppendRaw, skipping the
	// operator-replacement, leading-operator and decimal guards.
	Legacy Mode = "legacy"
)

// ParseMode validates a mode name. Empty selects Guarded.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", Guarded:
		return Guarded, nil
	case Legacy:
		return Legacy, nil
	default:
		return "", fmt.Errorf("unknown keyboard mode %q", s)
	}
}

// Button actions carried by control buttons.
const (
	ActionClear  = "clear"
	ActionBack   = "back"
	ActionEquals = "equals"
)

// Normalize folds a raw key name to its canonical form.
func Normalize(key string) string {
	return width.Fold.String(norm.NFC.String(key))
}

// FromKey maps a keyboard key name to an event. The second result is false
// for keys the calculator ignores.
func FromKey(key string, mode Mode) (calc.Event, bool) {
	key = Normalize(key)

	switch key {
	case "Backspace":
		return calc.BackspaceEvent(), true
	case "Escape":
		return calc.ClearEvent(), true
	case "Enter", "=":
		return calc.EvaluateEvent(), true
	}

	if !calc.IsToken(key) {
		return calc.Event{}, false
	}
	if mode == Legacy {
		return calc.AppendRawEvent(key), true
	}
	return calc.AppendEvent(key), true
}

// FromButton maps a keypad button to an event. A button carries either an
// action (clear, back, equals) or a value token; the action wins when both
// are set.
func FromButton(value, action string) (calc.Event, bool) {
	switch action {
	case ActionClear:
		return calc.ClearEvent(), true
	case ActionBack:
		return calc.BackspaceEvent(), true
	case ActionEquals:
		return calc.EvaluateEvent(), true
	case "":
	default:
		return calc.Event{}, false
	}

	if !calc.IsToken(value) {
		return calc.Event{}, false
	}
	return calc.AppendEvent(value), true
}
