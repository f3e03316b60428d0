// Package mathexpr evaluates small arithmetic expressions found in chat input.
//
// Grammar (whitespace ignored):
//
//	expr   = term { ("+" | "-") term }
//	term   = unary { ("*" | "/") unary }
//	unary  = "-" unary | power
//	power  = atom [ "^" unary ]
//	atom   = number | "(" expr ")"
//
// "×" and "x" between digits are read as "*", "÷" as "/". Extract skips
// numeric text that only looks like arithmetic: clock times, dates, ranges
// and phone numbers.
package mathexpr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	MaxLength   = 64
	MaxDepth    = 16
	MaxExponent = 64
)

var (
	ErrSyntax       = errors.New("invalid expression")
	ErrTooLong      = errors.New("expression too long")
	ErrDivideByZero = errors.New("division by zero")
	ErrTooDeep      = errors.New("expression nested too deeply")
	ErrNoExpression = errors.New("no expression found")
)

// Eval parses and evaluates expr.
func Eval(expr string) (float64, error) {
	if utf8.RuneCountInString(expr) > MaxLength {
		return 0, ErrTooLong
	}
	p := &parser{src: canonical(expr)}
	p.skipSpace()
	if p.eof() {
		return 0, ErrSyntax
	}
	v, err := p.expr(0)
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if !p.eof() {
		return 0, fmt.Errorf("%w: unexpected %q", ErrSyntax, p.src[p.pos:])
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: result out of range", ErrSyntax)
	}
	return v, nil
}

// Extract returns the longest run of expression characters in text that
// contains an operator between two operands. A run whose only operators are
// hyphens glued to digits on both sides ("2-3", "1990-05-12",
// "8-800-555-35-35") is not an expression.
func Extract(text string) (string, error) {
	best := ""
	var run strings.Builder
	flush := func() {
		candidate := trimRun(run.String())
		run.Reset()
		c := canonical(candidate)
		if len(candidate) > len(best) && hasBinaryOperator(c) && !onlyBareHyphens(c) {
			best = candidate
		}
	}
	for _, r := range text {
		if isExprRune(r) {
			run.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	if best == "" {
		return "", ErrNoExpression
	}
	return best, nil
}

// Solve finds an expression in text and evaluates it.
func Solve(text string) (expr string, value float64, err error) {
	expr, err = Extract(text)
	if err != nil {
		return "", 0, err
	}
	value, err = Eval(expr)
	if err != nil {
		return expr, 0, err
	}
	return expr, value, nil
}

// FormatResult renders "expr = value" with integers printed without a
// fractional part.
func FormatResult(expr string, value float64) string {
	return fmt.Sprintf("%s = %s", strings.TrimSpace(expr), FormatNumber(value))
}

// FormatNumber prints v compactly.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// trimRun drops edge characters that cannot start or end an expression.
func trimRun(s string) string {
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return !(r >= '0' && r <= '9') && r != '(' && r != '-'
	})
	return strings.TrimRightFunc(s, func(r rune) bool {
		return !(r >= '0' && r <= '9') && r != ')'
	})
}

func isExprRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case strings.ContainsRune("+-*/^()., ×÷x", r):
		return true
	}
	return false
}

func canonical(s string) string {
	var b strings.Builder
	rs := []rune(s)
	for i, r := range rs {
		switch r {
		case '×':
			b.WriteByte('*')
		case '÷':
			b.WriteByte('/')
		case ',':
			b.WriteByte('.')
		case 'x':
			if between(rs, i) {
				b.WriteByte('*')
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// between reports whether rs[i] sits between a digit (or paren) on the left
// and a digit (or paren) on the right, skipping spaces.
func between(rs []rune, i int) bool {
	l, r := i-1, i+1
	for l >= 0 && rs[l] == ' ' {
		l--
	}
	for r < len(rs) && rs[r] == ' ' {
		r++
	}
	if l < 0 || r >= len(rs) {
		return false
	}
	isOperand := func(c rune) bool { return (c >= '0' && c <= '9') || c == '(' || c == ')' }
	return isOperand(rs[l]) && isOperand(rs[r])
}

func hasBinaryOperator(s string) bool {
	seenOperand := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			seenOperand = true
		case strings.IndexByte("+-*/^", c) >= 0 && seenOperand:
			rest := s[i+1:]
			if strings.IndexAny(rest, "0123456789") >= 0 {
				return true
			}
		}
	}
	return false
}

// onlyBareHyphens reports whether every binary operator in s is a "-" with
// a digit directly on each side. Parentheses count as arithmetic.
func onlyBareHyphens(s string) bool {
	if strings.ContainsAny(s, "()") {
		return false
	}
	isDigit := func(c byte) bool { return c >= '0' && c <= '9' }
	seenOperand := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isDigit(c):
			seenOperand = true
		case c == '-' && !seenOperand:
			// sign
		case c == '-':
			if i == 0 || i+1 >= len(s) || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
				return false
			}
		case strings.IndexByte("+*/^", c) >= 0:
			return false
		}
	}
	return true
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) skipSpace() {
	for !p.eof() && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expr(depth int) (float64, error) {
	if depth > MaxDepth {
		return 0, ErrTooDeep
	}
	left, err := p.term(depth)
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.term(depth)
			if err != nil {
				return 0, err
			}
			left += right
		case '-':
			p.pos++
			right, err := p.term(depth)
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *parser) term(depth int) (float64, error) {
	left, err := p.unary(depth)
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			right, err := p.unary(depth)
			if err != nil {
				return 0, err
			}
			left *= right
		case '/':
			p.pos++
			right, err := p.unary(depth)
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, ErrDivideByZero
			}
			left /= right
		default:
			return left, nil
		}
	}
}

func (p *parser) unary(depth int) (float64, error) {
	if depth > MaxDepth {
		return 0, ErrTooDeep
	}
	if p.peek() == '-' {
		p.pos++
		v, err := p.unary(depth + 1)
		return -v, err
	}
	return p.power(depth)
}

func (p *parser) power(depth int) (float64, error) {
	base, err := p.atom(depth)
	if err != nil {
		return 0, err
	}
	if p.peek() != '^' {
		return base, nil
	}
	p.pos++
	exp, err := p.unary(depth + 1)
	if err != nil {
		return 0, err
	}
	if exp != math.Trunc(exp) || math.Abs(exp) > MaxExponent {
		return 0, fmt.Errorf("%w: exponent must be an integer up to %d", ErrSyntax, MaxExponent)
	}
	if base == 0 && exp < 0 {
		return 0, ErrDivideByZero
	}
	return math.Pow(base, exp), nil
}

func (p *parser) atom(depth int) (float64, error) {
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		v, err := p.expr(depth + 1)
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("%w: missing ')'", ErrSyntax)
		}
		p.pos++
		return v, nil
	case (c >= '0' && c <= '9') || c == '.':
		return p.number()
	case c == 0:
		return 0, fmt.Errorf("%w: unexpected end", ErrSyntax)
	default:
		return 0, fmt.Errorf("%w: unexpected %q", ErrSyntax, c)
	}
}

func (p *parser) number() (float64, error) {
	start := p.pos
	dots := 0
	for !p.eof() {
		c := p.src[p.pos]
		if c == '.' {
			dots++
		} else if c < '0' || c > '9' {
			break
		}
		p.pos++
	}
	lit := p.src[start:p.pos]
	if dots > 1 || lit == "." {
		return 0, fmt.Errorf("%w: bad number %q", ErrSyntax, lit)
	}
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrSyntax, lit)
	}
	return v, nil
}
