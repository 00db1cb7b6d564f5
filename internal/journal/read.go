package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/keypad/internal/calc"
	"github.com/roach88/keypad/internal/expr"
)

// Entry is one journal row.
type Entry struct {
	SessionID  string         `json:"session_id"`
	Seq        int64          `json:"seq"`
	Kind       calc.EventKind `json:"kind"`
	Token      string         `json:"token,omitempty"`
	Buffer     string         `json:"buffer"`
	Display    string         `json:"display"`
	ErrorKind  expr.Kind      `json:"error_kind,omitempty"`
	RecordedAt time.Time      `json:"recorded_at"`

	// ErrorWindow is the recording session's error display duration.
	// Zero for rows written before it was journaled.
	ErrorWindow time.Duration `json:"error_window,omitempty"`
}

// Event returns the calc event the entry recorded.
func (e Entry) Event() calc.Event {
	return calc.Event{Kind: e.Kind, Token: e.Token}
}

// SessionSummary describes one recorded session.
type SessionSummary struct {
	SessionID string    `json:"session_id"`
	Events    int       `json:"events"`
	LastSeq   int64     `json:"last_seq"`
	StartedAt time.Time `json:"started_at"`
}

// Sessions lists recorded sessions, oldest first.
// Returns an empty slice (not nil) if the journal is empty.
func (j *Journal) Sessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session_id, COUNT(*), MAX(seq), MIN(recorded_at)
		FROM events
		GROUP BY session_id
		ORDER BY MIN(recorded_at) ASC, session_id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []SessionSummary{}
	for rows.Next() {
		var (
			s       SessionSummary
			started int64
		)
		if err := rows.Scan(&s.SessionID, &s.Events, &s.LastSeq, &started); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.StartedAt = time.Unix(0, started).UTC()
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// Entries returns a session's events ordered by seq.
// Returns an empty slice (not nil) if the session has no events.
func (j *Journal) Entries(ctx context.Context, sessionID string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session_id, seq, kind, token, buffer_after, display_after, error_kind, recorded_at, error_window
		FROM events
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e         Entry
			kind      string
			errorKind string
			at        int64
			window    int64
		)
		if err := rows.Scan(&e.SessionID, &e.Seq, &kind, &e.Token, &e.Buffer, &e.Display, &errorKind, &at, &window); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Kind, err = calc.ParseEventKind(kind)
		if err != nil {
			return nil, fmt.Errorf("event seq %d: %w", e.Seq, err)
		}
		e.ErrorKind = expr.Kind(errorKind)
		e.RecordedAt = time.Unix(0, at).UTC()
		e.ErrorWindow = time.Duration(window)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return entries, nil
}
