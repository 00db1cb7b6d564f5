// Package harness runs keystroke scenarios against a calc session.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: division_by_zero
//	description: "Error shows for the window, then the buffer returns"
//	error_window: 800ms      # optional
//	keyboard: guarded        # optional: guarded | legacy
//	evaluator: native        # optional: native | govaluate
//	steps:
//	  - type: "5/0"          # each character is a keyboard key
//	  - press: equals        # keypad button: a token, or clear/back/equals
//	    expect:
//	      display: "Error"
//	      error: MATH_ERROR
//	  - advance: 800ms       # move the fake clock
//	    expect:
//	      display: "5/0"
//	  - key: Escape          # one keyboard key by name
//	    expect:
//	      buffer: ""
//	      mode: editing
//
// Each step sets exactly one of key, press, type or advance. Expectations
// are checked against the session after the step; error compares the kind
// of the step's last evaluation ("" for none).
//
// # Deterministic Testing
//
// Scenarios run with a fake clock starting at testutil.Epoch and a fixed
// session id, so the trace is byte-identical across runs and can be
// compared with golden files (see RunWithGolden).
package harness
