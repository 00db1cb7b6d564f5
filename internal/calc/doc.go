// Package calc implements the keypad expression accumulator.
//
// The accumulator is an explicit State value (the expression buffer, a mode,
// and an error window) plus pure update functions:
//
//	Append     guarded token entry (keypad semantics)
//	AppendRaw  bare token entry (leading-zero rules only)
//	Backspace  drop the last character
//	Clear      empty the buffer
//	Evaluate   replace the buffer with its numeric result
//
// Rendering is a separate, stateless projection: Render(state, now).
//
// # Modes
//
// A state is either Editing or Evaluated. A successful Evaluate moves to
// Evaluated; every accepted edit moves back to Editing. Evaluated is not
// terminal and accepts the same operations as Editing.
//
// # Error window
//
// A failed Evaluate leaves the buffer untouched and sets ErrorUntil. Render
// shows "Error" while now is before ErrorUntil. Any later accepted operation
// clears the window, so a stale error display can never overwrite newer
// input. Rejected (no-op) operations return the state unchanged.
//
// # Session
//
// Session binds a State to a clock, an expr.Evaluator, a logger and an
// optional Recorder, and dispatches Events one at a time. Each applied event
// is stamped with a monotonic sequence number.
package calc
