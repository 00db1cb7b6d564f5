package calc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/keypad/internal/expr"
)

// Record is what a Session hands to its Recorder after each applied event.
type Record struct {
	SessionID string
	Seq       int64
	Event     Event
	Buffer    string
	Display   string
	ErrorKind expr.Kind
	At        time.Time

	// ErrorWindow is the session's error display duration.
	ErrorWindow time.Duration
}

// Recorder persists applied events. See internal/journal.
type Recorder interface {
	Record(ctx context.Context, r Record) error
}

// Options configures a Session. Zero values select the defaults.
type Options struct {
	Clock       Clock          // default SystemClock
	Evaluator   expr.Evaluator // default expr.Native
	ErrorWindow time.Duration  // default DefaultErrorWindow
	Logger      *slog.Logger   // default discards
	Recorder    Recorder       // optional
	IDs         IDGenerator    // default UUIDv7Generator
}

// Step is the outcome of one applied event.
type Step struct {
	Seq     int64
	Event   Event
	State   State
	Display string

	// Err is the evaluation failure, if any. It is already reflected in
	// State's error window and is not returned from Apply.
	Err error
}

// Session owns one accumulator state and applies events to it in order.
//
// Session is not safe for concurrent use; input is delivered one event at a
// time by a single caller.
type Session struct {
	id        string
	state     State
	clock     Clock
	seq       *Sequence
	evaluator expr.Evaluator
	window    time.Duration
	logger    *slog.Logger
	recorder  Recorder
}

// NewSession creates a session from opts.
func NewSession(opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Evaluator == nil {
		opts.Evaluator = expr.Native{}
	}
	if opts.ErrorWindow <= 0 {
		opts.ErrorWindow = DefaultErrorWindow
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.IDs == nil {
		opts.IDs = UUIDv7Generator{}
	}

	id := opts.IDs.Generate()
	return &Session{
		id:        id,
		clock:     opts.Clock,
		seq:       NewSequence(),
		evaluator: opts.Evaluator,
		window:    opts.ErrorWindow,
		logger:    opts.Logger.With("session", id),
		recorder:  opts.Recorder,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current state.
func (s *Session) State() State { return s.state }

// Display renders the current state at the session clock's time.
func (s *Session) Display() string {
	return Render(s.state, s.clock.Now())
}

// Apply dispatches ev, updates the state and records the step.
//
// Evaluation failures never surface as an error here; they are carried in
// Step.Err and the state's error window. Apply fails only for an unknown
// event kind or a Recorder error.
func (s *Session) Apply(ctx context.Context, ev Event) (Step, error) {
	now := s.clock.Now()

	var (
		next    State
		evalErr error
	)
	switch ev.Kind {
	case EventAppend:
		next = Append(s.state, ev.Token)
	case EventAppendRaw:
		next = AppendRaw(s.state, ev.Token)
	case EventBackspace:
		next = Backspace(s.state)
	case EventClear:
		next = Clear(s.state)
	case EventLoad:
		next = Load(s.state, ev.Token)
	case EventEvaluate:
		next, evalErr = Evaluate(s.state, EvalOptions{
			Evaluator:   s.evaluator,
			Now:         now,
			ErrorWindow: s.window,
		})
	default:
		return Step{}, fmt.Errorf("apply: unknown event kind %q", ev.Kind)
	}

	s.state = next
	step := Step{
		Seq:     s.seq.Next(),
		Event:   ev,
		State:   next,
		Display: Render(next, now),
		Err:     evalErr,
	}

	s.logger.Debug("event applied",
		"seq", step.Seq,
		"op", string(ev.Kind),
		"token", ev.Token,
		"buffer", next.Buffer,
		"mode", next.Mode.String(),
	)
	if evalErr != nil {
		s.logger.Info("evaluation failed",
			"seq", step.Seq,
			"kind", string(expr.KindOf(evalErr)),
			"buffer", next.Buffer,
		)
	}

	if s.recorder != nil {
		rec := Record{
			SessionID:   s.id,
			Seq:         step.Seq,
			Event:       ev,
			Buffer:      next.Buffer,
			Display:     step.Display,
			ErrorKind:   expr.KindOf(evalErr),
			At:          now,
			ErrorWindow: s.window,
		}
		if err := s.recorder.Record(ctx, rec); err != nil {
			return step, fmt.Errorf("record seq %d: %w", step.Seq, err)
		}
	}

	return step, nil
}
