package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/keypad/internal/calc"
	"github.com/roach88/keypad/internal/expr"
	"github.com/roach88/keypad/internal/keymap"
	"github.com/roach88/keypad/internal/testutil"
)

// SessionID is the fixed session id used for every scenario run.
const SessionID = "scenario"

// Harness drives one scenario against one session.
type Harness struct {
	session *calc.Session
	clock   *testutil.FakeClock
	mode    keymap.Mode
	logger  *slog.Logger

	// lastErr is the evaluation error of the most recent step's last event.
	lastErr error
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh session with a fake clock, so runs are
// isolated and reproducible. The returned error is reserved for scenarios
// that cannot run at all; expectation failures are reported in Result.
func Run(scenario *Scenario) (*Result, error) {
	h, err := newHarness(scenario)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	result := NewResult()

	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, step, result); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		if step.Expect != nil {
			for _, msg := range h.checkExpect(i, step.Expect, result.Trace) {
				result.AddError(msg)
			}
		}
	}

	return result, nil
}

func newHarness(scenario *Scenario) (*Harness, error) {
	mode, err := keymap.ParseMode(scenario.Keyboard)
	if err != nil {
		return nil, err
	}
	ev, err := expr.ByName(scenario.Evaluator)
	if err != nil {
		return nil, err
	}
	var window time.Duration
	if scenario.ErrorWindow != "" {
		window, err = time.ParseDuration(scenario.ErrorWindow)
		if err != nil {
			return nil, fmt.Errorf("error_window: %w", err)
		}
	}

	clock := testutil.NewFakeClock()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in scenario runs

	return &Harness{
		session: calc.NewSession(calc.Options{
			Clock:       clock,
			Evaluator:   ev,
			ErrorWindow: window,
			Logger:      logger,
			IDs:         testutil.NewFixedIDGenerator(SessionID),
		}),
		clock:  clock,
		mode:   mode,
		logger: logger,
	}, nil
}

// executeStep applies one scenario step and appends its trace entries.
func (h *Harness) executeStep(ctx context.Context, step Step, result *Result) error {
	h.lastErr = nil

	switch {
	case step.Advance != "":
		d, err := time.ParseDuration(step.Advance)
		if err != nil {
			return fmt.Errorf("advance: %w", err)
		}
		h.clock.Advance(d)
		result.AddTrace(h.snapshot("advance:" + step.Advance))
		return nil

	case step.Key != "":
		ev, ok := keymap.FromKey(step.Key, h.mode)
		return h.apply(ctx, "key:"+step.Key, ev, ok, result)

	case step.Press != "":
		ev, ok := pressEvent(step.Press)
		return h.apply(ctx, "press:"+step.Press, ev, ok, result)

	case step.Type != "":
		for _, r := range step.Type {
			key := string(r)
			ev, ok := keymap.FromKey(key, h.mode)
			if err := h.apply(ctx, "type:"+key, ev, ok, result); err != nil {
				return err
			}
		}
		return nil
	}

	return fmt.Errorf("empty step")
}

// pressEvent maps a button name to an event: control actions by name,
// anything else as a value token.
func pressEvent(press string) (calc.Event, bool) {
	switch press {
	case keymap.ActionClear, keymap.ActionBack, keymap.ActionEquals:
		return keymap.FromButton("", press)
	}
	return keymap.FromButton(press, "")
}

func (h *Harness) apply(ctx context.Context, input string, ev calc.Event, ok bool, result *Result) error {
	if !ok {
		h.logger.Info("input ignored", "input", input)
		result.AddTrace(h.snapshot(input))
		return nil
	}

	step, err := h.session.Apply(ctx, ev)
	if err != nil {
		return err
	}
	h.lastErr = step.Err

	result.AddTrace(TraceEvent{
		Seq:     step.Seq,
		Input:   input,
		Event:   ev.String(),
		Buffer:  step.State.Buffer,
		Display: step.Display,
		Error:   string(expr.KindOf(step.Err)),
	})
	return nil
}

// snapshot is a trace entry for an input that applied no event.
func (h *Harness) snapshot(input string) TraceEvent {
	return TraceEvent{
		Input:   input,
		Buffer:  h.session.State().Buffer,
		Display: h.session.Display(),
	}
}
