package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultMaxDepth is the maximum nesting depth of parenthesized groups used
// when an Evaluator does not set one.
const DefaultMaxDepth = 256

// Dialect selects the grammar that an Evaluator applies.
type Dialect int

const (
	// Strict is the default grammar. Postfix operators may only follow the
	// second and later operands of a multiplicative chain, and the POW, SQUARE,
	// and DOUBLE tokens are not part of the language:
	//
	//	Expression     := Addition
	//	Addition       := Multiplication (('+'|'-') Multiplication)*
	//	Multiplication := Terminal (('*'|'/') PostfixTerm)*
	//	PostfixTerm    := Terminal ('!'|'%')*
	//	Terminal       := NUMBER | '(' Addition ')'
	Strict Dialect = iota

	// Extended applies postfix operators to every multiplicative operand and
	// adds exponentiation and the SQUARE and DOUBLE prefix forms:
	//
	//	Expression     := Addition
	//	Addition       := Multiplication (('+'|'-') Multiplication)*
	//	Multiplication := Power (('*'|'/') Power)*
	//	Power          := PostfixTerm ('^' PostfixTerm)*
	//	PostfixTerm    := Prefixed ('!'|'%')*
	//	Prefixed       := SQUARE Terminal | DOUBLE Terminal | Terminal
	//	Terminal       := NUMBER | '(' Addition ')'
	Extended
)

func (d Dialect) String() string {
	switch d {
	case Strict:
		return "strict"
	case Extended:
		return "extended"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// ParseDialect parses the name of a dialect. Case is ignored.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case Strict.String():
		return Strict, nil
	case Extended.String():
		return Extended, nil
	default:
		return Strict, fmt.Errorf("dialect must be one of 'strict' or 'extended': %q", s)
	}
}

// Evaluator evaluates token streams. The zero-value is an Evaluator for the
// Strict dialect with the default nesting limit. Evaluator holds no state
// between calls and may be shared.
type Evaluator struct {
	Dialect Dialect

	// MaxDepth is the deepest that parenthesized groups may be nested. If set
	// to 0 or less, DefaultMaxDepth is used.
	MaxDepth int
}

// Evaluate evaluates the stream with the Strict dialect and the default
// nesting limit.
func Evaluate(s *Stream) (int, error) {
	return Evaluator{}.Evaluate(s)
}

// EvaluateString lexes the text and evaluates it with the Strict dialect.
func EvaluateString(text string) (int, error) {
	return Evaluator{}.EvaluateString(text)
}

// EvaluateString lexes the text and evaluates the resulting tokens.
func (ev Evaluator) EvaluateString(text string) (int, error) {
	s, err := Lex(text)
	if err != nil {
		return 0, err
	}
	return ev.Evaluate(s)
}

// Evaluate consumes the entire stream as one expression and returns its value.
// Any tokens left after a complete expression cause an error of kind
// TrailingInput. All returned errors are of type *Error.
func (ev Evaluator) Evaluate(s *Stream) (int, error) {
	maxDepth := ev.MaxDepth
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}

	p := &descent{tokens: s, dialect: ev.Dialect, maxDepth: maxDepth}

	v, err := p.addition()
	if err != nil {
		return 0, err
	}

	if t, ok := s.Peek(); ok {
		return 0, trailingInput(t)
	}

	return v, nil
}

// descent holds the cursor and settings for a single evaluation.
type descent struct {
	tokens   *Stream
	dialect  Dialect
	maxDepth int
	depth    int
}

func (p *descent) addition() (int, error) {
	acc, err := p.multiplication()
	if err != nil {
		return 0, err
	}

	for {
		op, ok := p.tokens.peekIs(Plus, Minus)
		if !ok {
			return acc, nil
		}
		p.tokens.Next()

		right, err := p.multiplication()
		if err != nil {
			return 0, err
		}

		if op.Kind == Plus {
			acc += right
		} else {
			acc -= right
		}
	}
}

func (p *descent) multiplication() (int, error) {
	var acc int
	var err error

	if p.dialect == Extended {
		acc, err = p.power()
	} else {
		acc, err = p.terminal()
	}
	if err != nil {
		return 0, err
	}

	for {
		op, ok := p.tokens.peekIs(Mul, Div)
		if !ok {
			return acc, nil
		}
		p.tokens.Next()

		var right int
		if p.dialect == Extended {
			right, err = p.power()
		} else {
			right, err = p.postfixTerm()
		}
		if err != nil {
			return 0, err
		}

		if op.Kind == Mul {
			acc *= right
			continue
		}

		if right == 0 {
			return 0, domainError(op, ErrDivideByZero)
		}
		acc /= right
	}
}

// power is only reached in the Extended dialect.
func (p *descent) power() (int, error) {
	acc, err := p.postfixTerm()
	if err != nil {
		return 0, err
	}

	for {
		op, ok := p.tokens.peekIs(Pow)
		if !ok {
			return acc, nil
		}
		p.tokens.Next()

		exp, err := p.postfixTerm()
		if err != nil {
			return 0, err
		}
		if exp < 0 {
			return 0, domainError(op, ErrNegativeExponent)
		}

		acc = intPow(acc, exp)
	}
}

func (p *descent) postfixTerm() (int, error) {
	var acc int
	var err error

	if p.dialect == Extended {
		acc, err = p.prefixed()
	} else {
		acc, err = p.terminal()
	}
	if err != nil {
		return 0, err
	}

	for {
		op, ok := p.tokens.peekIs(Fact, Percent)
		if !ok {
			return acc, nil
		}
		p.tokens.Next()

		if op.Kind == Percent {
			acc /= 100
			continue
		}

		if acc < 0 {
			return 0, domainError(op, ErrNegativeFactorial)
		}
		acc = factorial(acc)
	}
}

// prefixed is only reached in the Extended dialect.
func (p *descent) prefixed() (int, error) {
	op, ok := p.tokens.peekIs(Square, Double)
	if !ok {
		return p.terminal()
	}
	p.tokens.Next()

	v, err := p.terminal()
	if err != nil {
		return 0, err
	}

	if op.Kind == Square {
		return v * v, nil
	}
	return v * 2, nil
}

func (p *descent) terminal() (int, error) {
	t, ok := p.tokens.Next()
	if !ok {
		return 0, unexpectedEnd(Number, Open)
	}

	switch t.Kind {
	case Number:
		v, err := strconv.Atoi(t.Lexeme)
		if err != nil {
			return 0, literalFormatError(t, err)
		}
		return v, nil
	case Open:
		if p.depth >= p.maxDepth {
			return 0, tooDeepError(t, p.maxDepth)
		}
		p.depth++
		v, err := p.addition()
		p.depth--
		if err != nil {
			return 0, err
		}

		closeTok, ok := p.tokens.Next()
		if !ok {
			return 0, unexpectedEnd(Close)
		}
		if closeTok.Kind != Close {
			return 0, unexpectedToken(closeTok, Close)
		}
		return v, nil
	default:
		return 0, unexpectedToken(t, Number, Open)
	}
}

// factorialZeroFrom is the smallest n for which n! has at least IntSize factors
// of two, so that the wrapped product is 0 for every n at or above it.
var factorialZeroFrom = map[int]int{32: 34, 64: 66}[strconv.IntSize]

func factorial(n int) int {
	if n >= factorialZeroFrom {
		return 0
	}

	res := 1
	for i := 2; i <= n; i++ {
		res *= i
	}
	return res
}

func intPow(base, exp int) int {
	res := 1
	for exp > 0 {
		if exp&1 == 1 {
			res *= base
		}
		base *= base
		exp >>= 1
	}
	return res
}
