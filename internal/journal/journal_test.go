package journal

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keypad/internal/calc"
	"github.com/roach88/keypad/internal/expr"
	"github.com/roach88/keypad/internal/testutil"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

// record runs events through a session wired to j.
func record(t *testing.T, j *Journal, clock *testutil.FakeClock, id string, events ...calc.Event) *calc.Session {
	t.Helper()
	s := calc.NewSession(calc.Options{
		Clock:    clock,
		IDs:      testutil.NewFixedIDGenerator(id),
		Recorder: j,
	})
	for _, ev := range events {
		_, err := s.Apply(context.Background(), ev)
		require.NoError(t, err)
		clock.Advance(50 * time.Millisecond)
	}
	return s
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	for i := 0; i < 3; i++ {
		j, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		j.Close()
	}

	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	var version int
	require.NoError(t, j.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpen_MigratesVersion1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE events (
			session_id    TEXT    NOT NULL,
			seq           INTEGER NOT NULL,
			kind          TEXT    NOT NULL,
			token         TEXT    NOT NULL DEFAULT '',
			buffer_after  TEXT    NOT NULL,
			display_after TEXT    NOT NULL,
			error_kind    TEXT    NOT NULL DEFAULT '',
			recorded_at   INTEGER NOT NULL,
			PRIMARY KEY (session_id, seq)
		);
		INSERT INTO events VALUES ('old', 1, 'append', '7', '7', '7', '', 0);
		PRAGMA user_version = 1;
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	var version int
	require.NoError(t, j.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)

	entries, err := j.Entries(context.Background(), "old")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Zero(t, entries[0].ErrorWindow)

	result, err := Replay(context.Background(), j, "old", nil)
	require.NoError(t, err)
	assert.True(t, result.Deterministic())
}

func TestOpen_InMemory(t *testing.T) {
	j, err := Open(":memory:")
	require.NoError(t, err)
	defer j.Close()

	sessions, err := j.Sessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRecordAndRead(t *testing.T) {
	j := openTestJournal(t)
	clock := testutil.NewFakeClock()

	record(t, j, clock, "sess-a",
		calc.AppendEvent("5"),
		calc.AppendEvent("/"),
		calc.AppendEvent("0"),
		calc.EvaluateEvent(),
	)

	entries, err := j.Entries(context.Background(), "sess-a")
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, int64(1), entries[0].Seq)
	assert.Equal(t, calc.EventAppend, entries[0].Kind)
	assert.Equal(t, "5", entries[0].Token)
	assert.Equal(t, testutil.Epoch, entries[0].RecordedAt)
	assert.Equal(t, calc.DefaultErrorWindow, entries[0].ErrorWindow)

	last := entries[3]
	assert.Equal(t, calc.EventEvaluate, last.Kind)
	assert.Equal(t, "5/0", last.Buffer)
	assert.Equal(t, calc.ErrorDisplay, last.Display)
	assert.Equal(t, expr.KindMath, last.ErrorKind)
	assert.Equal(t, calc.EvaluateEvent(), last.Event())
}

func TestRecord_DuplicateIgnored(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	rec := calc.Record{SessionID: "s", Seq: 1, Event: calc.AppendEvent("1"), Buffer: "1", Display: "1", At: testutil.Epoch}
	require.NoError(t, j.Record(ctx, rec))

	rec.Buffer = "changed"
	require.NoError(t, j.Record(ctx, rec))

	entries, err := j.Entries(ctx, "s")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "1", entries[0].Buffer)
}

func TestSessions(t *testing.T) {
	j := openTestJournal(t)
	clock := testutil.NewFakeClock()

	record(t, j, clock, "first", calc.AppendEvent("1"), calc.AppendEvent("2"))
	record(t, j, clock, "second", calc.AppendEvent("3"))

	sessions, err := j.Sessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, "first", sessions[0].SessionID)
	assert.Equal(t, 2, sessions[0].Events)
	assert.Equal(t, int64(2), sessions[0].LastSeq)
	assert.Equal(t, testutil.Epoch, sessions[0].StartedAt)

	assert.Equal(t, "second", sessions[1].SessionID)
	assert.Equal(t, 1, sessions[1].Events)
}

func TestEntries_UnknownSession(t *testing.T) {
	j := openTestJournal(t)
	entries, err := j.Entries(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
