// Package expr validates and evaluates calculator expression strings.
//
// Evaluation is a fixed pipeline:
//
//  1. Character check: anything outside [0-9+\-*/().\s] fails with
//     InvalidCharacters.
//  2. Operator-run check: two or more adjacent operators (whitespace ignored,
//     parentheses not counted) trigger a single leading-minus rewrite
//     ("-x" becomes "0-x"). If the rewritten string still has an operator
//     run, evaluation fails with MalformedExpression. Interior unary minus
//     ("3*-4") is never repaired.
//  3. Glyph substitution of the mis-encoded multiplication/division byte
//     sequences to ASCII "*" and "/".
//  4. Arithmetic evaluation by an Evaluator (standard precedence, unary
//     plus/minus, parentheses, decimal literals).
//  5. Non-finite results fail with MathError.
//
// The default evaluator is a small recursive-descent parser. No part of the
// pipeline executes input as code.
package expr
