package cli

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keypad/internal/calc"
	"github.com/roach88/keypad/internal/journal"
	"github.com/roach88/keypad/internal/testutil"
)

// seedJournal records one session per event list and returns the journal path.
func seedJournal(t *testing.T, sessions map[string][]calc.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keypad.db")
	j, err := journal.Open(path)
	require.NoError(t, err)
	defer j.Close()

	for id, events := range sessions {
		s := calc.NewSession(calc.Options{
			Clock:    testutil.NewFakeClock(),
			IDs:      testutil.NewFixedIDGenerator(id),
			Recorder: j,
		})
		for _, ev := range events {
			_, err := s.Apply(context.Background(), ev)
			require.NoError(t, err)
		}
	}
	return path
}

func runReplayCmd(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewReplayCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestReplayMissingJournal(t *testing.T) {
	_, err := runReplayCmd(t, &RootOptions{Format: "text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal path required")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReplayEmptyJournal(t *testing.T) {
	path := seedJournal(t, nil)

	out, err := runReplayCmd(t, &RootOptions{Format: "text"}, "--journal", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found")
}

func TestReplayAllSessions(t *testing.T) {
	path := seedJournal(t, map[string][]calc.Event{
		"sess-a": {calc.AppendEvent("2"), calc.AppendEvent("+"), calc.AppendEvent("3"), calc.EvaluateEvent()},
		"sess-b": {calc.AppendEvent("5"), calc.AppendEvent("/"), calc.AppendEvent("0"), calc.EvaluateEvent(), calc.ClearEvent()},
	})

	out, err := runReplayCmd(t, &RootOptions{Format: "text"}, "--journal", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Replay Summary: 2 session(s)")
	assert.Contains(t, out, "✓ Session: sess-a")
	assert.Contains(t, out, "✓ Session: sess-b")
	assert.Contains(t, out, "All sessions verified deterministic")
}

func TestReplayJournalFromConfig(t *testing.T) {
	path := seedJournal(t, map[string][]calc.Event{
		"sess-a": {calc.AppendEvent("9")},
	})
	opts := &RootOptions{Format: "json"}
	opts.Config.Journal = path

	out, err := runReplayCmd(t, opts, "--session", "sess-a")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Sessions []journal.ReplayResult `json:"sessions"`
			Total    int                    `json:"total_sessions"`
			AllOK    bool                   `json:"all_deterministic"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Total)
	assert.True(t, resp.Data.AllOK)
	require.Len(t, resp.Data.Sessions, 1)
	assert.Equal(t, "9", resp.Data.Sessions[0].FinalBuffer)
}

func TestReplayUnknownSession(t *testing.T) {
	path := seedJournal(t, nil)

	out, err := runReplayCmd(t, &RootOptions{Format: "text"}, "--journal", path, "--session", "ghost")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E_JOURNAL]")
}

func TestReplayDetectsTampering(t *testing.T) {
	path := seedJournal(t, map[string][]calc.Event{
		"sess-t": {calc.AppendEvent("4"), calc.AppendEvent("2")},
	})

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE events SET buffer_after = '43' WHERE session_id = 'sess-t' AND seq = 2`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err := runReplayCmd(t, &RootOptions{Format: "text", Verbose: true}, "--journal", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Session: sess-t")
	assert.Contains(t, out, `seq 2 buffer: recorded "43", replayed "42"`)
	assert.Contains(t, out, "Determinism verification failed")
}

func TestReplayDetectsTamperingJSON(t *testing.T) {
	path := seedJournal(t, map[string][]calc.Event{
		"sess-t": {calc.AppendEvent("4")},
	})

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE events SET display_after = '5' WHERE session_id = 'sess-t'`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err := runReplayCmd(t, &RootOptions{Format: "json"}, "--journal", path)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeDeterminism, resp.Error.Code)
}
