package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/keypad/internal/expr"
)

// ExpectationError describes one failed expect field.
// It includes the trace so far to help debug the failure.
type ExpectationError struct {
	Step     int          // Index of the scenario step
	Field    string       // display, buffer, error or mode
	Expected string       // Expected value
	Actual   string       // Actual value
	Trace    []TraceEvent // Trace up to and including the step
}

// Error implements the error interface.
func (e *ExpectationError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Expectation failed: steps[%d].%s\n", e.Step, e.Field)
	fmt.Fprintf(&buf, "  Expected: %q\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %q\n", e.Actual)

	fmt.Fprintf(&buf, "\nTrace:\n")
	for i, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s -> %q\n", i+1, event.Input, event.Display)
	}

	return buf.String()
}

// checkExpect compares the session against exp and returns failure messages.
func (h *Harness) checkExpect(index int, exp *Expect, trace []TraceEvent) []string {
	state := h.session.State()
	var msgs []string

	check := func(field, expected, actual string) {
		if expected == actual {
			return
		}
		err := &ExpectationError{
			Step:     index,
			Field:    field,
			Expected: expected,
			Actual:   actual,
			Trace:    trace,
		}
		msgs = append(msgs, err.Error())
	}

	if exp.Display != nil {
		check("display", *exp.Display, h.session.Display())
	}
	if exp.Buffer != nil {
		check("buffer", *exp.Buffer, state.Buffer)
	}
	if exp.Error != nil {
		check("error", *exp.Error, string(expr.KindOf(h.lastErr)))
	}
	if exp.Mode != "" {
		check("mode", exp.Mode, state.Mode.String())
	}

	return msgs
}
