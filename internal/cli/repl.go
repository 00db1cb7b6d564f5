package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/keypad/internal/calc"
	"github.com/roach88/keypad/internal/keymap"
)

// REPL shorthands for the control keys.
const (
	replClear     = 'c'
	replBackspace = '<'
)

// NewReplCommand creates the repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive line-oriented calculator",
		Long: `Read lines from stdin and treat each character as a keypress.

  =   evaluate
  c   clear
  <   backspace

Every other character is sent as a keyboard key; unmapped characters,
spaces included, are ignored. The display is printed after each line.

Example:
  printf '2+3=\n*4=\n' | keypad repl`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(rootOpts, cmd)
		},
	}
}

func runRepl(opts *RootOptions, cmd *cobra.Command) error {
	mode, err := opts.keyboardMode()
	if err != nil {
		return err
	}

	session, closeFn, err := opts.newSession(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		events := lineEvents(scanner.Text(), mode)
		if _, err := applyAll(cmd.Context(), session, events); err != nil {
			return err
		}
		fmt.Fprintln(out, session.Display())
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}
	return nil
}

// lineEvents maps one input line to events.
func lineEvents(line string, mode keymap.Mode) []calc.Event {
	var events []calc.Event
	for _, r := range line {
		switch r {
		case replClear:
			events = append(events, calc.ClearEvent())
			continue
		case replBackspace:
			events = append(events, calc.BackspaceEvent())
			continue
		}
		if ev, ok := keymap.FromKey(string(r), mode); ok {
			events = append(events, ev)
		}
	}
	return events
}
