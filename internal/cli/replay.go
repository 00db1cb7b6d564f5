package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/keypad/internal/expr"
	"github.com/roach88/keypad/internal/journal"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Journal   string
	SessionID string // optional - specific session only
}

// ReplaySummary holds the overall replay result.
type ReplaySummary struct {
	Sessions         []*journal.ReplayResult `json:"sessions"`
	TotalSessions    int                     `json:"total_sessions"`
	AllDeterministic bool                    `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay journaled sessions and verify determinism",
		Long: `Replay journaled keypad sessions and verify they reproduce.

Each recorded event is applied again to a fresh session with the clock
pinned to the recorded time. The resulting buffer, display and error kind
must match the journal row for row.

The journal path defaults to the journal setting in the config.

Exit codes:
  0 - All sessions are deterministic
  1 - Determinism verification failed (differences detected)
  2 - Command error (journal not found, unknown session, etc.)

Examples:
  keypad replay --journal ./keypad.db
  keypad replay --journal ./keypad.db --session 0192f0c4-...
  keypad replay --journal ./keypad.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to SQLite journal (defaults to config)")
	cmd.Flags().StringVar(&opts.SessionID, "session", "", "replay specific session only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	f := opts.formatter(cmd)

	path := opts.Journal
	if path == "" {
		path = opts.Config.Journal
	}
	if path == "" {
		return NewExitError(ExitCommandError, "journal path required: pass --journal or set journal in config")
	}

	ev, err := expr.ByName(opts.Config.Evaluator)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid evaluator", err)
	}

	j, err := journal.Open(path)
	if err != nil {
		_ = f.Error(CodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	ids, err := sessionIDs(ctx, j, opts.SessionID)
	if err != nil {
		_ = f.Error(CodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list sessions", err)
	}

	summary := ReplaySummary{
		Sessions:         make([]*journal.ReplayResult, 0, len(ids)),
		TotalSessions:    len(ids),
		AllDeterministic: true,
	}

	for _, id := range ids {
		f.VerboseLog("replaying session %s", id)
		res, err := journal.Replay(ctx, j, id, ev)
		if err != nil {
			_ = f.Error(CodeJournal, err.Error(), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay session %s", id), err)
		}
		summary.Sessions = append(summary.Sessions, res)
		if !res.Deterministic() {
			summary.AllDeterministic = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(f, summary)
	}
	return outputReplayText(cmd, summary, opts.Verbose)
}

// sessionIDs returns the sessions to replay: only is used when set.
func sessionIDs(ctx context.Context, j *journal.Journal, only string) ([]string, error) {
	if only != "" {
		return []string{only}, nil
	}
	sessions, err := j.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.SessionID)
	}
	return ids, nil
}

// outputReplayJSON outputs the replay summary as JSON.
func outputReplayJSON(f *OutputFormatter, summary ReplaySummary) error {
	if summary.AllDeterministic {
		return f.Success(summary)
	}

	if err := f.encode(CLIResponse{
		Status: "error",
		Data:   summary,
		Error: &CLIError{
			Code:    CodeDeterminism,
			Message: "determinism verification failed",
		},
	}); err != nil {
		return err
	}
	return NewExitError(ExitFailure, "determinism verification failed")
}

// outputReplayText outputs the replay summary as text.
func outputReplayText(cmd *cobra.Command, summary ReplaySummary, verbose bool) error {
	w := cmd.OutOrStdout()

	if summary.TotalSessions == 0 {
		fmt.Fprintln(w, "No sessions found in journal.")
		return nil
	}

	fmt.Fprintf(w, "Replay Summary: %d session(s)\n", summary.TotalSessions)
	fmt.Fprintln(w)

	for _, s := range summary.Sessions {
		status := "✓"
		if !s.Deterministic() {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Session: %s\n", status, s.SessionID)
		fmt.Fprintf(w, "  Events: %d, final buffer %q\n", s.Events, s.FinalBuffer)

		for _, m := range s.Mismatches {
			if verbose {
				fmt.Fprintf(w, "  seq %d %s: recorded %q, replayed %q\n", m.Seq, m.Field, m.Recorded, m.Replayed)
			}
		}
		if !s.Deterministic() {
			fmt.Fprintf(w, "  Warning: %d mismatch(es) during replay\n", len(s.Mismatches))
		}
		fmt.Fprintln(w)
	}

	if summary.AllDeterministic {
		fmt.Fprintln(w, "✓ All sessions verified deterministic")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	return NewExitError(ExitFailure, "determinism verification failed")
}
