package calc

import (
	"regexp"
	"strings"
	"time"

	"github.com/roach88/keypad/internal/expr"
)

// runSeparator splits a buffer into numeric runs.
var runSeparator = regexp.MustCompile(`[+\-*/\s()]`)

// IsToken reports whether tok is one of the appendable tokens:
// a digit, ".", "+", "-", "*", "/", "(" or ")".
func IsToken(tok string) bool {
	if len(tok) != 1 {
		return false
	}
	return strings.ContainsAny(tok, "0123456789.+-*/()")
}

func isOperator(tok string) bool {
	return tok == "+" || tok == "-" || tok == "*" || tok == "/"
}

func isDigit(tok string) bool {
	return len(tok) == 1 && tok[0] >= '0' && tok[0] <= '9'
}

func endsWithOperator(buf string) bool {
	return buf != "" && isOperator(buf[len(buf)-1:])
}

// Append applies guarded token entry.
//
//   - Operators: rejected on an empty buffer unless "-"; a trailing operator
//     is replaced rather than followed ("3+" then "*" gives "3*").
//   - ".": rejected if the last numeric run already has one; "0" is
//     inserted first when the last run is empty ("3+" then "." gives "3+0.").
//   - Everything else goes through AppendRaw.
//
// Rejected tokens, including anything IsToken refuses, return s unchanged.
func Append(s State, tok string) State {
	if !IsToken(tok) {
		return s
	}
	buf := s.Buffer

	if isOperator(tok) {
		if buf == "" && tok != "-" {
			return s
		}
		if endsWithOperator(buf) {
			return editing(buf[:len(buf)-1] + tok)
		}
	}

	if tok == "." {
		runs := runSeparator.Split(buf, -1)
		last := runs[len(runs)-1]
		if strings.Contains(last, ".") {
			return s
		}
		if last == "" {
			buf += "0"
		}
	}

	return appendRaw(s, buf, tok)
}

// AppendRaw applies bare token entry: only the leading-zero rules.
//
//   - Buffer "0" and token "0": rejected.
//   - Buffer "0" and any other digit: the digit replaces the buffer.
//   - Otherwise the token is appended verbatim.
func AppendRaw(s State, tok string) State {
	if !IsToken(tok) {
		return s
	}
	return appendRaw(s, s.Buffer, tok)
}

func appendRaw(s State, buf, tok string) State {
	if buf == "0" && tok == "0" {
		return s
	}
	if buf == "0" && isDigit(tok) {
		return editing(tok)
	}
	return editing(buf + tok)
}

// Backspace removes the last character. An empty buffer is left unchanged.
func Backspace(s State) State {
	if s.Buffer == "" {
		return s
	}
	return editing(s.Buffer[:len(s.Buffer)-1])
}

// Clear empties the buffer unconditionally.
func Clear(State) State {
	return State{Mode: Editing}
}

// Load replaces the buffer with buf verbatim. No entry guards apply, so buf
// may hold anything; Evaluate rejects what it cannot read.
func Load(_ State, buf string) State {
	return editing(buf)
}

// EvalOptions configures Evaluate.
type EvalOptions struct {
	// Evaluator computes the arithmetic. Nil uses expr.Native.
	Evaluator expr.Evaluator

	// Now is the time the error window starts from.
	Now time.Time

	// ErrorWindow is how long a failure is displayed. Zero uses DefaultErrorWindow.
	ErrorWindow time.Duration
}

// Evaluate replaces the buffer with the decimal form of its value.
//
// A buffer that is empty after trimming is a no-op. On failure the buffer is
// left untouched, the error window is opened at opts.Now, and the *expr.Error
// is returned.
func Evaluate(s State, opts EvalOptions) (State, error) {
	if strings.TrimSpace(s.Buffer) == "" {
		return s, nil
	}

	v, err := expr.Evaluate(opts.Evaluator, s.Buffer)
	if err != nil {
		window := opts.ErrorWindow
		if window <= 0 {
			window = DefaultErrorWindow
		}
		failed := s
		failed.ErrorUntil = opts.Now.Add(window)
		failed.ErrorKind = expr.KindOf(err)
		return failed, err
	}

	return State{Buffer: expr.FormatNumber(v), Mode: Evaluated}, nil
}
