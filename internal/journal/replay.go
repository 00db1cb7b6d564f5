package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/keypad/internal/calc"
	"github.com/roach88/keypad/internal/expr"
)

// Mismatch is one field that replay did not reproduce.
type Mismatch struct {
	Seq      int64  `json:"seq"`
	Field    string `json:"field"`
	Recorded string `json:"recorded"`
	Replayed string `json:"replayed"`
}

// ReplayResult is the outcome of replaying one session.
type ReplayResult struct {
	SessionID   string     `json:"session_id"`
	Events      int        `json:"events"`
	FinalBuffer string     `json:"final_buffer"`
	Mismatches  []Mismatch `json:"mismatches,omitempty"`
}

// Deterministic reports whether every recorded step was reproduced.
func (r *ReplayResult) Deterministic() bool {
	return len(r.Mismatches) == 0
}

// replayClock returns whatever time it was last set to.
type replayClock struct {
	now time.Time
}

func (c *replayClock) Now() time.Time { return c.now }

// Replay re-applies a recorded session's events to a fresh session and
// compares each step with the recorded row. The clock is pinned to each
// row's recorded time and the session uses the recorded error window, so
// displays are reproduced too.
func Replay(ctx context.Context, j *Journal, sessionID string, ev expr.Evaluator) (*ReplayResult, error) {
	entries, err := j.Entries(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("replay: session %q not found", sessionID)
	}

	clock := &replayClock{}
	session := calc.NewSession(calc.Options{
		Clock:       clock,
		Evaluator:   ev,
		ErrorWindow: entries[0].ErrorWindow,
		IDs:         fixedID(sessionID),
	})

	result := &ReplayResult{SessionID: sessionID}
	for _, e := range entries {
		clock.now = e.RecordedAt
		step, err := session.Apply(ctx, e.Event())
		if err != nil {
			return nil, fmt.Errorf("replay seq %d: %w", e.Seq, err)
		}
		result.Events++

		check := func(field, recorded, replayed string) {
			if recorded != replayed {
				result.Mismatches = append(result.Mismatches, Mismatch{
					Seq:      e.Seq,
					Field:    field,
					Recorded: recorded,
					Replayed: replayed,
				})
			}
		}
		check("seq", fmt.Sprint(e.Seq), fmt.Sprint(step.Seq))
		check("buffer", e.Buffer, step.State.Buffer)
		check("display", e.Display, step.Display)
		check("error_kind", string(e.ErrorKind), string(expr.KindOf(step.Err)))
	}
	result.FinalBuffer = session.State().Buffer

	return result, nil
}

type fixedID string

func (f fixedID) Generate() string { return string(f) }
