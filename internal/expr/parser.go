package expr

import (
	"errors"
	"fmt"
	"strconv"
)

// Evaluator computes the numeric value of a sanitized arithmetic string.
//
// Implementations must honor standard precedence (* and / bind tighter than
// + and -), left associativity, parentheses, unary plus/minus and decimal
// literals ("3.", ".5", "0.25"). Syntax failures should be reported as
// *SyntaxError. Non-finite results are returned as values, not errors.
type Evaluator interface {
	Eval(s string) (float64, error)
}

// Native is the built-in recursive-descent Evaluator.
//
// Grammar:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | primary
//	primary = number | "(" expr ")"
//	number  = digits [ "." { digit } ] | "." digits
//
// Whitespace is allowed between any two tokens. Numbers with leading zeros
// are read as decimal.
type Native struct{}

// Eval parses and evaluates s.
func (Native) Eval(s string) (float64, error) {
	p := &parser{input: s}
	p.skipSpace()
	if p.atEnd() {
		return 0, p.errorf("empty expression")
	}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if !p.atEnd() {
		return 0, p.errorf("unexpected %q", p.input[p.pos])
	}
	return v, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) skipSpace() {
	for !p.atEnd() {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) errorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Offset: p.pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *parser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
		} else {
			left /= right
		}
	}
}

func (p *parser) parseUnary() (float64, error) {
	p.skipSpace()
	switch p.peek() {
	case '-':
		p.pos++
		v, err := p.parseUnary()
		return -v, err
	case '+':
		p.pos++
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (float64, error) {
	p.skipSpace()
	if p.atEnd() {
		return 0, p.errorf("unexpected end of expression")
	}

	c := p.peek()
	if c == '(' {
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return 0, p.errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	}
	if isDigit(c) || c == '.' {
		return p.parseNumber()
	}
	return 0, p.errorf("unexpected %q", c)
}

func (p *parser) parseNumber() (float64, error) {
	start := p.pos
	intDigits := p.scanDigits()
	fracDigits := 0
	if p.peek() == '.' {
		p.pos++
		fracDigits = p.scanDigits()
	}
	if intDigits == 0 && fracDigits == 0 {
		p.pos = start
		return 0, p.errorf("invalid number")
	}

	lit := p.input[start:p.pos]
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		// Out-of-range literals come back as ±Inf, which the caller
		// reports as a math error.
		if errors.Is(err, strconv.ErrRange) {
			return v, nil
		}
		return 0, &SyntaxError{Offset: start, Message: fmt.Sprintf("invalid number %q", lit)}
	}
	return v, nil
}

func (p *parser) scanDigits() int {
	n := 0
	for isDigit(p.peek()) {
		p.pos++
		n++
	}
	return n
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
