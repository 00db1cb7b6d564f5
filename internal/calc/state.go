package calc

import (
	"time"

	"github.com/roach88/keypad/internal/expr"
)

// Mode is the accumulator's state-machine position.
type Mode int

const (
	// Editing accepts append/backspace/clear/evaluate.
	Editing Mode = iota
	// Evaluated holds a result string; it behaves exactly like Editing.
	Evaluated
)

func (m Mode) String() string {
	switch m {
	case Editing:
		return "editing"
	case Evaluated:
		return "evaluated"
	default:
		return "unknown"
	}
}

// Display strings produced by Render.
const (
	EmptyDisplay = "0"
	ErrorDisplay = "Error"
)

// DefaultErrorWindow is how long Render shows ErrorDisplay after a failed Evaluate.
const DefaultErrorWindow = 800 * time.Millisecond

// State is the complete accumulator state.
type State struct {
	// Buffer is the expression typed so far. Empty renders as "0".
	Buffer string

	// Mode is Evaluated right after a successful Evaluate.
	Mode Mode

	// ErrorUntil is the expiry of the error display. Zero means no error.
	ErrorUntil time.Time

	// ErrorKind is the kind of the failure that opened the error window.
	ErrorKind expr.Kind
}

// Render projects s to the text shown on the display at time now.
func Render(s State, now time.Time) string {
	if s.ErrorActive(now) {
		return ErrorDisplay
	}
	if s.Buffer == "" {
		return EmptyDisplay
	}
	return s.Buffer
}

// ErrorActive reports whether the error window is open at now.
func (s State) ErrorActive(now time.Time) bool {
	return !s.ErrorUntil.IsZero() && now.Before(s.ErrorUntil)
}

// editing is the state after an accepted edit: Editing mode, no error window.
func editing(buf string) State {
	return State{Buffer: buf, Mode: Editing}
}
