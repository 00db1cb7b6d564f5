package harness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Scenario {
	t.Helper()
	s, err := ParseScenario([]byte(src))
	require.NoError(t, err)
	return s
}

func TestRun_Passing(t *testing.T) {
	s := mustParse(t, `
name: pass
description: simple sum
steps:
  - type: "12+30="
    expect:
      display: "42"
      buffer: "42"
      error: ""
      mode: evaluated
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Trace, 6)

	last := result.Trace[5]
	assert.Equal(t, int64(6), last.Seq)
	assert.Equal(t, "type:=", last.Input)
	assert.Equal(t, "evaluate", last.Event)
	assert.Equal(t, "42", last.Display)
}

func TestRun_FailingExpectation(t *testing.T) {
	s := mustParse(t, `
name: fail
description: wrong answer
steps:
  - type: "2*2="
    expect:
      display: "5"
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "steps[0].display")
	assert.Contains(t, result.Errors[0], `Expected: "5"`)
	assert.Contains(t, result.Errors[0], `Actual: "4"`)
}

func TestRun_ErrorWindowOverride(t *testing.T) {
	s := mustParse(t, `
name: window
description: custom window
error_window: 2s
steps:
  - type: "1/0="
    expect:
      display: "Error"
      error: MATH_ERROR
  - advance: 1500ms
    expect:
      display: "Error"
  - advance: 500ms
    expect:
      display: "1/0"
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestRun_ErrorClearedByNextStep(t *testing.T) {
	s := mustParse(t, `
name: superseded
description: new input replaces the error display
steps:
  - type: "1/0="
    expect:
      error: MATH_ERROR
  - press: back
    expect:
      display: "1/"
      error: ""
  - advance: 1s
    expect:
      display: "1/"
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestRun_IgnoredKeysAreTraced(t *testing.T) {
	s := mustParse(t, `
name: ignored
description: unmapped keys
steps:
  - key: "7"
  - key: Shift
  - press: "x"
`)
	result, err := Run(s)
	require.NoError(t, err)
	require.Len(t, result.Trace, 3)

	for _, ev := range result.Trace[1:] {
		assert.Zero(t, ev.Seq)
		assert.Empty(t, ev.Event)
		assert.Equal(t, "7", ev.Buffer)
	}
}

func TestRun_FullWidthKeys(t *testing.T) {
	s := mustParse(t, `
name: wide
description: full-width digits fold to ASCII
steps:
  - type: "１＋２＝"
    expect:
      display: "3"
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestRun_GovaluateBackend(t *testing.T) {
	s := mustParse(t, `
name: backend
description: govaluate agrees on plain arithmetic
evaluator: govaluate
steps:
  - type: "(1+2)*3="
    expect:
      display: "9"
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestExpectationError_Format(t *testing.T) {
	err := &ExpectationError{
		Step:     2,
		Field:    "buffer",
		Expected: "1",
		Actual:   "2",
		Trace: []TraceEvent{
			{Input: "key:2", Display: "2"},
		},
	}
	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "Expectation failed: steps[2].buffer"))
	assert.Contains(t, msg, `[1] key:2 -> "2"`)
}

func TestResult(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)
	r.AddTrace(TraceEvent{Input: "key:1"})
	r.AddError("boom")
	assert.False(t, r.Pass)
	assert.Len(t, r.Trace, 1)
	assert.Equal(t, []string{"boom"}, r.Errors)
}
