package expr

import (
	"errors"
	"fmt"
)

// Kind categorizes evaluation failures.
type Kind string

const (
	// KindNone is the zero Kind, used where no failure occurred.
	KindNone Kind = ""

	// KindInvalidCharacters indicates a character outside the expression alphabet.
	KindInvalidCharacters Kind = "INVALID_CHARACTERS"

	// KindMalformed indicates an unrepairable operator run or a syntax error.
	KindMalformed Kind = "MALFORMED_EXPRESSION"

	// KindMath indicates a non-finite numeric result (division by zero, overflow, 0/0).
	KindMath Kind = "MATH_ERROR"
)

// Error is returned by Evaluate and Sanitize.
type Error struct {
	// Kind identifies the failure category.
	Kind Kind

	// Message is a human-readable description.
	Message string

	// Expr is the expression as it was handed to the failing stage.
	Expr string

	// Err is the underlying cause, if any (e.g. a *SyntaxError).
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// SyntaxError reports where an evaluator gave up on its input.
type SyntaxError struct {
	Offset  int // byte offset into the evaluated string, -1 if unknown
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Offset < 0 {
		return e.Message
	}
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Message)
}

// KindOf returns the Kind carried by err, or KindNone if err is not an *Error.
// Uses errors.As to handle wrapped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}

// IsInvalidCharacters returns true if err is an InvalidCharacters failure.
func IsInvalidCharacters(err error) bool {
	return KindOf(err) == KindInvalidCharacters
}

// IsMalformed returns true if err is a MalformedExpression failure.
func IsMalformed(err error) bool {
	return KindOf(err) == KindMalformed
}

// IsMathError returns true if err is a MathError failure.
func IsMathError(err error) bool {
	return KindOf(err) == KindMath
}
