package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/keypad/internal/calc"
	"github.com/roach88/keypad/internal/expr"
)

// EvalResult is the payload of a successful eval.
type EvalResult struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
}

// EvalErrorDetails accompanies an E_EVAL error.
type EvalErrorDetails struct {
	Expression string    `json:"expression"`
	Kind       expr.Kind `json:"kind"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression",
		Long: `Load an expression into the buffer as-is and evaluate it.

The expression bypasses the keypad entry guards, so it is checked exactly
as a buffer would be: allowed characters, operator runs, leading minus.

Exit codes:
  0 - Evaluation succeeded
  1 - Evaluation failed (the error kind is reported)
  2 - Command error

Examples:
  keypad eval "2+3*4"
  keypad eval "-5+2" --format json
  keypad eval "5/0"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(rootOpts, args[0], cmd)
		},
	}
}

func runEval(opts *RootOptions, expression string, cmd *cobra.Command) error {
	session, closeFn, err := opts.newSession(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	// Loading through an event keeps journaled eval sessions replayable.
	step, err := applyAll(cmd.Context(), session, []calc.Event{
		calc.LoadEvent(expression),
		calc.EvaluateEvent(),
	})
	if err != nil {
		return err
	}

	f := opts.formatter(cmd)
	if step.Err != nil {
		kind := expr.KindOf(step.Err)
		if err := f.Error(CodeEval, step.Err.Error(), EvalErrorDetails{
			Expression: expression,
			Kind:       kind,
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("evaluation failed: %s", kind))
	}

	result := EvalResult{Expression: expression, Result: step.Display}
	return f.Result(result, result.Result)
}
