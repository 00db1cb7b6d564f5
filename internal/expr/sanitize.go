package expr

import (
	"regexp"
	"strings"
)

var (
	allowedChars = regexp.MustCompile(`^[0-9+\-*/().\s]+$`)
	operatorRun  = regexp.MustCompile(`[+\-*/]{2,}`)
	whitespace   = regexp.MustCompile(`\s+`)
	leadingMinus = regexp.MustCompile(`^\s*-`)
)

// glyphs maps the multiplication and division signs as they appear after a
// UTF-8 -> Latin-1 round trip. They are matched as literal byte sequences.
var glyphs = strings.NewReplacer(
	"Ã—", "*",
	"Ã·", "/",
)

// Sanitize runs the validation stages of the pipeline and returns the string
// to hand to an Evaluator.
func Sanitize(s string) (string, error) {
	if !allowedChars.MatchString(s) {
		return "", &Error{Kind: KindInvalidCharacters, Message: "invalid characters", Expr: s}
	}

	if hasOperatorRun(s) {
		cleaned := leadingMinus.ReplaceAllString(s, "0-")
		if hasOperatorRun(cleaned) {
			return "", &Error{Kind: KindMalformed, Message: "consecutive operators", Expr: cleaned}
		}
		s = cleaned
	}

	return glyphs.Replace(s), nil
}

// hasOperatorRun reports whether s, with whitespace removed, contains two or
// more adjacent binary operator characters.
func hasOperatorRun(s string) bool {
	return operatorRun.MatchString(whitespace.ReplaceAllString(s, ""))
}
