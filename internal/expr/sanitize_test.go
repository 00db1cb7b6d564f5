package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr Kind
	}{
		{name: "plain arithmetic", input: "2+3*4", want: "2+3*4"},
		{name: "whitespace kept", input: "3 + 4", want: "3 + 4"},
		{name: "leading unary minus needs no repair", input: "-5+2", want: "-5+2"},
		{name: "minus after paren is not a run", input: "2-(-3)", want: "2-(-3)"},
		{name: "letters rejected", input: "2+a", wantErr: KindInvalidCharacters},
		{name: "empty rejected", input: "", wantErr: KindInvalidCharacters},
		{name: "caret rejected", input: "2^3", wantErr: KindInvalidCharacters},
		{name: "interior unary minus", input: "3*-4", wantErr: KindMalformed},
		{name: "double minus at start", input: "--5", wantErr: KindMalformed},
		{name: "run split by whitespace", input: "3+ +4", wantErr: KindMalformed},
		{name: "leading minus then plus", input: " -+5", wantErr: KindMalformed},
		{name: "double star", input: "2**3", wantErr: KindMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize(tt.input)
			if tt.wantErr != KindNone {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitize_MalformedReportsCleanedExpression(t *testing.T) {
	_, err := Sanitize(" -*5")
	require.Error(t, err)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindMalformed, e.Kind)
	assert.Equal(t, "0-*5", e.Expr)
}

func TestGlyphSubstitution(t *testing.T) {
	assert.Equal(t, "6*7", glyphs.Replace("6Ã—7"))
	assert.Equal(t, "8/2", glyphs.Replace("8Ã·2"))
	// The correctly encoded signs are not touched.
	assert.Equal(t, "6×7", glyphs.Replace("6×7"))
}

func TestErrorPredicates(t *testing.T) {
	inv := &Error{Kind: KindInvalidCharacters}
	mal := &Error{Kind: KindMalformed}
	math := &Error{Kind: KindMath}

	assert.True(t, IsInvalidCharacters(inv))
	assert.False(t, IsInvalidCharacters(mal))
	assert.True(t, IsMalformed(mal))
	assert.True(t, IsMathError(math))
	assert.False(t, IsMathError(nil))
	assert.Equal(t, KindNone, KindOf(assert.AnError))
}

func TestError_Message(t *testing.T) {
	e := &Error{Kind: KindMath, Message: "result is not finite"}
	assert.Equal(t, "MATH_ERROR: result is not finite", e.Error())

	wrapped := &Error{Kind: KindMalformed, Message: "syntax error", Err: &SyntaxError{Offset: 2, Message: "unexpected end of expression"}}
	assert.Equal(t, "MALFORMED_EXPRESSION: syntax error: offset 2: unexpected end of expression", wrapped.Error())
}
