package mathtool

import (
	"math"
	"strconv"
	"strings"

	"github.com/skosovsky/toolbox"
)

const (
	maxExpressionLen = 1024
	maxDepth         = 64
)

// Expr is a node of a parsed arithmetic expression.
type Expr interface {
	Eval() (float64, error)
}

// Num is a numeric literal.
type Num float64

func (n Num) Eval() (float64, error) { return float64(n), nil }

// Neg is unary minus.
type Neg struct{ X Expr }

func (n Neg) Eval() (float64, error) {
	v, err := n.X.Eval()
	return -v, err
}

// Binary is one of + - * / applied to two operands.
type Binary struct {
	Op   byte
	L, R Expr
}

func (b Binary) Eval() (float64, error) {
	l, err := b.L.Eval()
	if err != nil {
		return 0, err
	}
	r, err := b.R.Eval()
	if err != nil {
		return 0, err
	}
	var v float64
	switch b.Op {
	case '+':
		v = l + r
	case '-':
		v = l - r
	case '*':
		v = l * r
	case '/':
		if r == 0 {
			return 0, toolbox.Fail(toolbox.ErrInvalidExpression, "division by zero")
		}
		v = l / r
	default:
		return 0, toolbox.Fail(toolbox.ErrInvalidExpression, "unknown operator %q", b.Op)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, toolbox.Fail(toolbox.ErrInvalidExpression, "result out of range")
	}
	return v, nil
}

// Parse builds an expression tree from src. The grammar accepts numeric literals,
// the binary operators + - * /, unary + and -, and parentheses. Anything else is rejected.
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | primary
//	primary = number | "(" expr ")"
func Parse(src string) (Expr, error) {
	if len(src) > maxExpressionLen {
		return nil, toolbox.Fail(toolbox.ErrInvalidExpression, "expression longer than %d bytes", maxExpressionLen)
	}
	p := &parser{src: src}
	p.skipSpace()
	if p.done() {
		return nil, toolbox.Fail(toolbox.ErrInvalidExpression, "empty expression")
	}
	e, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, p.errorf("unexpected %q", p.src[p.pos])
	}
	return e, nil
}

// Evaluate parses and evaluates src.
func Evaluate(src string) (float64, error) {
	e, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return e.Eval()
}

type parser struct {
	src string
	pos int
}

func (p *parser) done() bool { return p.pos >= len(p.src) }

func (p *parser) skipSpace() {
	for !p.done() && strings.IndexByte(" \t\r\n", p.src[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) errorf(format string, args ...any) error {
	return toolbox.Fail(toolbox.ErrInvalidExpression, "at offset %d: "+format, append([]any{p.pos}, args...)...)
}

func (p *parser) expr(depth int) (Expr, error) {
	if depth > maxDepth {
		return nil, p.errorf("expression nested too deeply")
	}
	left, err := p.term(depth)
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		p.skipSpace()
		right, err := p.term(depth)
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, L: left, R: right}
	}
}

func (p *parser) term(depth int) (Expr, error) {
	left, err := p.unary(depth)
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		p.skipSpace()
		right, err := p.unary(depth)
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, L: left, R: right}
	}
}

func (p *parser) unary(depth int) (Expr, error) {
	if depth > maxDepth {
		return nil, p.errorf("expression nested too deeply")
	}
	switch p.peek() {
	case '-':
		p.pos++
		p.skipSpace()
		x, err := p.unary(depth + 1)
		if err != nil {
			return nil, err
		}
		return Neg{X: x}, nil
	case '+':
		p.pos++
		p.skipSpace()
		return p.unary(depth + 1)
	}
	return p.primary(depth)
}

func (p *parser) primary(depth int) (Expr, error) {
	if p.done() {
		return nil, p.errorf("unexpected end of expression")
	}
	if p.peek() == '(' {
		p.pos++
		p.skipSpace()
		e, err := p.expr(depth + 1)
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, p.errorf("missing closing parenthesis")
		}
		p.pos++
		p.skipSpace()
		return e, nil
	}
	return p.number()
}

func (p *parser) number() (Expr, error) {
	start := p.pos
	for !p.done() && (isDigit(p.peek()) || p.peek() == '.') {
		p.pos++
	}
	if (p.peek() == 'e' || p.peek() == 'E') && p.pos > start {
		save := p.pos
		p.pos++
		if p.peek() == '+' || p.peek() == '-' {
			p.pos++
		}
		if !isDigit(p.peek()) {
			p.pos = save
		}
		for !p.done() && isDigit(p.peek()) {
			p.pos++
		}
	}
	if start == p.pos {
		return nil, p.errorf("unexpected %q", p.src[p.pos])
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return nil, toolbox.Fail(toolbox.ErrInvalidExpression, "invalid number %q", p.src[start:p.pos])
	}
	p.skipSpace()
	return Num(v), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
