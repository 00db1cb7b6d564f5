package expr

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders v the way a result is written back into the buffer:
// shortest round-trip digits, plain notation for magnitudes in [1e-6, 1e21),
// exponent notation ("1e+21", "1.5e-7") outside it. Negative zero renders "0".
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	s := strconv.FormatFloat(v, 'e', -1, 64)
	mant, exp, ok := strings.Cut(s, "e")
	if !ok || len(exp) < 2 {
		return s
	}
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + exp[:1] + digits
}
