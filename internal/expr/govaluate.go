package expr

import (
	"fmt"

	"github.com/Knetic/govaluate"
)

// Govaluate is an Evaluator backed by github.com/Knetic/govaluate.
//
// It only ever sees strings that passed Sanitize, so the wider govaluate
// operator set (comparisons, ternaries, variables) is unreachable.
type Govaluate struct{}

// Eval parses and evaluates s with govaluate.
func (Govaluate) Eval(s string) (float64, error) {
	e, err := govaluate.NewEvaluableExpression(s)
	if err != nil {
		return 0, &SyntaxError{Offset: -1, Message: err.Error()}
	}
	out, err := e.Evaluate(nil)
	if err != nil {
		return 0, &SyntaxError{Offset: -1, Message: err.Error()}
	}
	v, ok := out.(float64)
	if !ok {
		return 0, &SyntaxError{Offset: -1, Message: fmt.Sprintf("non-numeric result %T", out)}
	}
	return v, nil
}

// Named evaluator identifiers accepted by ByName.
const (
	EvaluatorNative    = "native"
	EvaluatorGovaluate = "govaluate"
)

// ByName returns the Evaluator registered under name.
func ByName(name string) (Evaluator, error) {
	switch name {
	case "", EvaluatorNative:
		return Native{}, nil
	case EvaluatorGovaluate:
		return Govaluate{}, nil
	default:
		return nil, fmt.Errorf("unknown evaluator %q", name)
	}
}
