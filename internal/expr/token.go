// Package expr contains the lexer and the recursive-descent evaluator for
// TunaCalc integer expressions. Expressions are evaluated immediately as they
// are parsed; no syntax tree is ever built.
package expr

import (
	"fmt"
	"strconv"
)

// Kind is the kind of lexeme that a Token holds.
type Kind int

const (
	Number Kind = iota
	Open
	Close
	Plus
	Minus
	Mul
	Div
	Fact
	Percent
	Pow
	Square
	Double
)

var kindIDs = map[Kind]string{
	Number:  "NUMBER",
	Open:    "OPEN",
	Close:   "CLOSE",
	Plus:    "PLUS",
	Minus:   "MINUS",
	Mul:     "MUL",
	Div:     "DIV",
	Fact:    "FACT",
	Percent: "PERCENT",
	Pow:     "POW",
	Square:  "SQUARE",
	Double:  "DOUBLE",
}

var kindHumans = map[Kind]string{
	Number:  "number",
	Open:    "'('",
	Close:   "')'",
	Plus:    "'+'",
	Minus:   "'-'",
	Mul:     "'*'",
	Div:     "'/'",
	Fact:    "'!'",
	Percent: "'%'",
	Pow:     "'^'",
	Square:  "'sqr'",
	Double:  "'dbl'",
}

// String returns the upper-case identifier of the kind, such as "NUMBER".
func (k Kind) String() string {
	if id, ok := kindIDs[k]; ok {
		return id
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Human returns a human-readable name for the kind for use in error messages.
func (k Kind) Human() string {
	if h, ok := kindHumans[k]; ok {
		return h
	}
	return k.String()
}

// Token is a single lexeme of an expression. Line, Pos, and FullLine are only
// used for diagnostics; Tokens built by hand may leave them unset.
type Token struct {
	Kind Kind

	// Lexeme is the source text of the token. For Number tokens, it is the
	// text that is converted to the integer value.
	Lexeme string

	// Line is the 1-indexed line the token starts on, or 0 if unknown.
	Line int

	// Pos is the 1-indexed character position in Line, or 0 if unknown.
	Pos int

	// FullLine is the complete text of the line the token appears on.
	FullLine string
}

// NewToken creates a Token with no position information. If lexeme is empty,
// the canonical symbol for k is used.
func NewToken(k Kind, lexeme string) Token {
	if lexeme == "" {
		lexeme = canonicalLexeme(k)
	}
	return Token{Kind: k, Lexeme: lexeme}
}

// Num is shorthand for creating a Number token holding the given value.
func Num(v int) Token {
	return NewToken(Number, strconv.Itoa(v))
}

func (t Token) String() string {
	if t.Kind == Number {
		return fmt.Sprintf("(%s %q)", t.Kind, t.Lexeme)
	}
	return fmt.Sprintf("(%s)", t.Kind)
}

func canonicalLexeme(k Kind) string {
	switch k {
	case Open:
		return "("
	case Close:
		return ")"
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Fact:
		return "!"
	case Percent:
		return "%"
	case Pow:
		return "^"
	case Square:
		return "sqr"
	case Double:
		return "dbl"
	default:
		return ""
	}
}
