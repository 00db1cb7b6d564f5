// Package config loads keypad settings.
//
// Precedence, lowest to highest: built-in defaults, the YAML file passed
// with --config, KEYPAD_* environment variables. The merged result is
// checked against an embedded CUE schema.
//
//	error_window: 800ms
//	evaluator: native     # native | govaluate
//	keyboard: guarded     # guarded | legacy
//	log_level: info       # debug | info | warn | error
//	journal: ""           # SQLite journal path, empty disables
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Config holds the merged settings.
type Config struct {
	ErrorWindow time.Duration `env:"KEYPAD_ERROR_WINDOW"`
	Evaluator   string        `env:"KEYPAD_EVALUATOR"`
	Keyboard    string        `env:"KEYPAD_KEYBOARD"`
	LogLevel    string        `env:"KEYPAD_LOG_LEVEL"`
	Journal     string        `env:"KEYPAD_JOURNAL"`
}

// fileConfig mirrors Config for YAML decoding. Durations are strings.
type fileConfig struct {
	ErrorWindow *string `yaml:"error_window"`
	Evaluator   *string `yaml:"evaluator"`
	Keyboard    *string `yaml:"keyboard"`
	LogLevel    *string `yaml:"log_level"`
	Journal     *string `yaml:"journal"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ErrorWindow: 800 * time.Millisecond,
		Evaluator:   "native",
		Keyboard:    "guarded",
		LogLevel:    "info",
	}
}

// Load merges defaults, the YAML file at path (skipped when empty) and the
// environment, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&fc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	if fc.ErrorWindow != nil {
		d, err := time.ParseDuration(*fc.ErrorWindow)
		if err != nil {
			return fmt.Errorf("error_window: %w", err)
		}
		c.ErrorWindow = d
	}
	if fc.Evaluator != nil {
		c.Evaluator = *fc.Evaluator
	}
	if fc.Keyboard != nil {
		c.Keyboard = *fc.Keyboard
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	if fc.Journal != nil {
		c.Journal = *fc.Journal
	}
	return nil
}

// Validate checks c against the embedded CUE schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	value := schema.Unify(ctx.Encode(map[string]any{
		"error_window": int64(c.ErrorWindow),
		"evaluator":    c.Evaluator,
		"keyboard":     c.Keyboard,
		"log_level":    c.LogLevel,
		"journal":      c.Journal,
	}))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog.Level. Unknown names map to Info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
