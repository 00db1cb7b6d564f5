package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/keypad/internal/calc"
	"github.com/roach88/keypad/internal/expr"
	"github.com/roach88/keypad/internal/keymap"
)

// KeysResult is the state after a keys run.
type KeysResult struct {
	Buffer  string    `json:"buffer"`
	Display string    `json:"display"`
	Applied int       `json:"applied"`
	Ignored []string  `json:"ignored,omitempty"`
	Error   expr.Kind `json:"error,omitempty"`
}

// NewKeysCommand creates the keys command.
func NewKeysCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keys <key>...",
		Short: "Feed keyboard keys and print the display",
		Long: `Feed keyboard key names to a fresh session and print the final display.

Keys are the names a browser reports: digits, ".", "+", "-", "*", "/",
"(", ")", "Enter" or "=" to evaluate, "Backspace" and "Escape". Other
keys are ignored. The keyboard setting in the config selects guarded or
legacy routing.

Examples:
  keypad keys 1 2 + 3 Enter
  keypad keys 5 / 0 = --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(rootOpts, args, cmd)
		},
	}
}

func runKeys(opts *RootOptions, keys []string, cmd *cobra.Command) error {
	mode, err := opts.keyboardMode()
	if err != nil {
		return err
	}

	f := opts.formatter(cmd)
	var (
		events  []calc.Event
		ignored []string
	)
	for _, key := range keys {
		ev, ok := keymap.FromKey(key, mode)
		if !ok {
			f.VerboseLog("ignoring key %q", key)
			ignored = append(ignored, key)
			continue
		}
		events = append(events, ev)
	}

	session, closeFn, err := opts.newSession(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	step, err := applyAll(cmd.Context(), session, events)
	if err != nil {
		return err
	}

	result := KeysResult{
		Buffer:  session.State().Buffer,
		Display: session.Display(),
		Applied: len(events),
		Ignored: ignored,
		Error:   expr.KindOf(step.Err),
	}
	if len(ignored) > 0 {
		f.VerboseLog("ignored: %s", strings.Join(ignored, " "))
	}
	return f.Result(result, result.Display)
}
