package expr

import (
	"errors"
	"math"
)

// Evaluate runs the full pipeline on s using ev.
//
// A nil ev uses Native. The returned error is always an *Error.
func Evaluate(ev Evaluator, s string) (float64, error) {
	if ev == nil {
		ev = Native{}
	}

	cleaned, err := Sanitize(s)
	if err != nil {
		return 0, err
	}

	v, err := ev.Eval(cleaned)
	if err != nil {
		var se *SyntaxError
		if errors.As(err, &se) {
			return 0, &Error{Kind: KindMalformed, Message: "syntax error", Expr: cleaned, Err: err}
		}
		return 0, &Error{Kind: KindMalformed, Message: "evaluation failed", Expr: cleaned, Err: err}
	}

	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, &Error{Kind: KindMath, Message: "result is not finite", Expr: cleaned}
	}
	return v, nil
}
