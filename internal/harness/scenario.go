package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/keypad/internal/expr"
	"github.com/roach88/keypad/internal/keymap"
)

// Scenario is a scripted sequence of keypad input with expectations.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// ErrorWindow overrides the error display duration (e.g. "800ms").
	ErrorWindow string `yaml:"error_window,omitempty"`

	// Keyboard selects guarded or legacy keyboard routing.
	Keyboard string `yaml:"keyboard,omitempty"`

	// Evaluator selects the arithmetic backend.
	Evaluator string `yaml:"evaluator,omitempty"`

	// Steps are applied in order.
	Steps []Step `yaml:"steps"`
}

// Step is one scenario input. Exactly one input field is set.
type Step struct {
	// Key is a single keyboard key name ("7", "Enter", "Backspace").
	Key string `yaml:"key,omitempty"`

	// Press is a keypad button: a token, or clear/back/equals.
	Press string `yaml:"press,omitempty"`

	// Type is a string whose characters are sent as keyboard keys.
	Type string `yaml:"type,omitempty"`

	// Advance moves the fake clock forward (e.g. "800ms").
	Advance string `yaml:"advance,omitempty"`

	// Expect is checked after the step. Nil skips checking.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect holds optional expectations; nil fields are not checked.
type Expect struct {
	Display *string `yaml:"display,omitempty"`
	Buffer  *string `yaml:"buffer,omitempty"`
	Error   *string `yaml:"error,omitempty"`
	Mode    string  `yaml:"mode,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if s.ErrorWindow != "" {
		d, err := time.ParseDuration(s.ErrorWindow)
		if err != nil {
			return fmt.Errorf("error_window: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("error_window must be positive")
		}
	}
	if _, err := keymap.ParseMode(s.Keyboard); err != nil {
		return err
	}
	if _, err := expr.ByName(s.Evaluator); err != nil {
		return err
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step *Step) error {
	set := 0
	for _, v := range []string{step.Key, step.Press, step.Type, step.Advance} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one of key, press, type, advance is required", index)
	}

	if step.Advance != "" {
		d, err := time.ParseDuration(step.Advance)
		if err != nil {
			return fmt.Errorf("steps[%d].advance: %w", index, err)
		}
		if d < 0 {
			return fmt.Errorf("steps[%d].advance: must not be negative", index)
		}
	}

	if step.Expect != nil {
		if step.Expect.Error != nil {
			switch expr.Kind(*step.Expect.Error) {
			case expr.KindNone, expr.KindInvalidCharacters, expr.KindMalformed, expr.KindMath:
			default:
				return fmt.Errorf("steps[%d].expect: unknown error kind %q", index, *step.Expect.Error)
			}
		}
		switch step.Expect.Mode {
		case "", "editing", "evaluated":
		default:
			return fmt.Errorf("steps[%d].expect: unknown mode %q", index, step.Expect.Mode)
		}
	}
	return nil
}
