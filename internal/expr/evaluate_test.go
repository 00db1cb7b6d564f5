package expr

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"-5+2", -3},
		{"10/4", 2.5},
		{"10-4-3", 3},
		{"24/4/2", 3},
		{"(-5)", -5},
		{"2-(-3)", 5},
		{"+5", 5},
		{"3.", 3},
		{".5+.5", 1},
		{"007", 7},
		{" 1 + 2 * ( 3 - 1 ) ", 5},
		{"(1.5*(3))*(3+4)", 31.5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Evaluate(Native{}, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_Failures(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"5/0", KindMath},
		{"0/0", KindMath},
		{"-1/0", KindMath},
		{"1" + strings.Repeat("9", 400), KindMath},
		{"3*-4", KindMalformed},
		{"2+", KindMalformed},
		{"(2+3", KindMalformed},
		{"2+3)", KindMalformed},
		{"2(3)", KindMalformed},
		{"()", KindMalformed},
		{"1.2.3", KindMalformed},
		{".", KindMalformed},
		{"   ", KindMalformed},
		{"2 3", KindMalformed},
		{"abc", KindInvalidCharacters},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Evaluate(nil, tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.want, KindOf(err), "error: %v", err)
		})
	}
}

func TestEvaluate_SyntaxErrorIsWrapped(t *testing.T) {
	_, err := Evaluate(Native{}, "2*(3+")
	require.Error(t, err)

	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 5, se.Offset)
	assert.True(t, IsMalformed(err))
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{14, "14"},
		{-3, "-3"},
		{2.5, "2.5"},
		{0.1 + 0.2, "0.30000000000000004"},
		{1.0 / 3.0, "0.3333333333333333"},
		{math.Copysign(0, -1), "0"},
		{1e-6, "0.000001"},
		{1e-7, "1e-7"},
		{1.5e-7, "1.5e-7"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{-1.5e21, "-1.5e+21"},
		{1e300, "1e+300"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.in))
		})
	}
}

func TestGovaluateMatchesNative(t *testing.T) {
	inputs := []string{
		"2+3*4",
		"(2+3)*4",
		"10/4",
		"10-4-3",
		"(1.5*3)*(3+4)",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			want, err := Evaluate(Native{}, in)
			require.NoError(t, err)

			got, err := Evaluate(Govaluate{}, in)
			require.NoError(t, err)
			assert.InDelta(t, want, got, 1e-12)
		})
	}
}

func TestByName(t *testing.T) {
	ev, err := ByName("")
	require.NoError(t, err)
	assert.IsType(t, Native{}, ev)

	ev, err = ByName(EvaluatorGovaluate)
	require.NoError(t, err)
	assert.IsType(t, Govaluate{}, ev)

	_, err = ByName("eval")
	assert.Error(t, err)
}
