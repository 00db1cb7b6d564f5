package journal

import (
	"context"
	"fmt"

	"github.com/roach88/keypad/internal/calc"
)

// Record inserts one applied event. Implements calc.Recorder.
// Uses ON CONFLICT DO NOTHING for idempotency - a duplicate
// (session_id, seq) is silently ignored.
func (j *Journal) Record(ctx context.Context, r calc.Record) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO events
		(session_id, seq, kind, token, buffer_after, display_after, error_kind, recorded_at, error_window)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`,
		r.SessionID,
		r.Seq,
		string(r.Event.Kind),
		r.Event.Token,
		r.Buffer,
		r.Display,
		string(r.ErrorKind),
		r.At.UnixNano(),
		int64(r.ErrorWindow),
	)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}
