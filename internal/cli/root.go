package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/keypad/internal/calc"
	"github.com/roach88/keypad/internal/config"
	"github.com/roach88/keypad/internal/expr"
	"github.com/roach88/keypad/internal/journal"
	"github.com/roach88/keypad/internal/keymap"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Config is loaded in PersistentPreRunE.
	Config config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the keypad CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "keypad",
		Short: "keypad - calculator expression accumulator",
		Long:  "Build arithmetic expressions one keypress at a time and evaluate them.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				_ = opts.formatter(cmd).Error(CodeConfig, err.Error(), nil)
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			opts.Config = cfg
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")

	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewKeysCommand(opts))
	cmd.AddCommand(NewReplCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// formatter builds an OutputFormatter bound to the command's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// logger returns a text logger on w. --verbose forces Debug; otherwise the
// configured log level applies.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := o.Config.SlogLevel()
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// keyboardMode returns the configured keyboard routing.
func (o *RootOptions) keyboardMode() (keymap.Mode, error) {
	mode, err := keymap.ParseMode(o.Config.Keyboard)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "invalid keyboard mode", err)
	}
	return mode, nil
}

// newSession builds a session from the loaded config. When a journal is
// configured every applied event is recorded; the returned close func must
// be called when the session is done.
func (o *RootOptions) newSession(cmd *cobra.Command) (*calc.Session, func() error, error) {
	ev, err := expr.ByName(o.Config.Evaluator)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "invalid evaluator", err)
	}

	logger := o.logger(cmd.ErrOrStderr())
	sessOpts := calc.Options{
		Evaluator:   ev,
		ErrorWindow: o.Config.ErrorWindow,
		Logger:      logger,
	}

	closeFn := func() error { return nil }
	if o.Config.Journal != "" {
		j, err := journal.Open(o.Config.Journal)
		if err != nil {
			_ = o.formatter(cmd).Error(CodeJournal, err.Error(), nil)
			return nil, nil, WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		sessOpts.Recorder = j
		closeFn = j.Close
	}

	s := calc.NewSession(sessOpts)
	if o.Config.Journal != "" {
		logger.Debug("journaling session", "session", s.ID(), "path", o.Config.Journal)
	}
	return s, closeFn, nil
}

// applyAll applies events in order and returns the last step.
func applyAll(ctx context.Context, s *calc.Session, events []calc.Event) (calc.Step, error) {
	var last calc.Step
	for _, ev := range events {
		step, err := s.Apply(ctx, ev)
		if err != nil {
			return calc.Step{}, WrapExitError(ExitCommandError, "failed to apply event", err)
		}
		last = step
	}
	return last, nil
}
