package expr

import (
	"errors"
	"fmt"
	"strings"
)

// file error.go contains errors generated from lexing and evaluating
// expressions.

var (
	ErrUnexpectedToken   = errors.New("unexpected token")
	ErrTrailingInput     = errors.New("unexpected trailing token")
	ErrArithmetic        = errors.New("arithmetic error")
	ErrDivideByZero      = errors.New("division by zero")
	ErrNegativeFactorial = errors.New("factorial of a negative number")
	ErrNegativeExponent  = errors.New("negative exponent")
	ErrLiteralFormat     = errors.New("malformed integer literal")
	ErrTooDeep           = errors.New("expression too deeply nested")
)

// ErrorKind is the category of an evaluation failure.
type ErrorKind int

const (
	// UnexpectedToken is a token (or the end of input) found where the grammar
	// required something else.
	UnexpectedToken ErrorKind = iota

	// TrailingInput is unconsumed tokens left after a complete expression.
	TrailingInput

	// ArithmeticDomain is an operand outside of the valid domain of its
	// operator, such as a zero divisor.
	ArithmeticDomain

	// LiteralFormat is a Number token whose text is not a valid int.
	LiteralFormat

	// TooDeep is parenthesized groups nested past the evaluator's limit.
	TooDeep
)

func (ek ErrorKind) String() string {
	switch ek {
	case UnexpectedToken:
		return "UnexpectedToken"
	case TrailingInput:
		return "TrailingInput"
	case ArithmeticDomain:
		return "ArithmeticDomain"
	case LiteralFormat:
		return "LiteralFormat"
	case TooDeep:
		return "TooDeep"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(ek))
	}
}

// Error is returned when evaluation of a token stream fails. It identifies the
// offending token, or holds a nil Token if the failure was caused by reaching
// the end of input.
//
// Error is compatible with errors.Is; it matches the Err* sentinel that
// corresponds to its Kind as well as any error it wraps.
type Error struct {
	Kind ErrorKind

	// Token is the offending token. It is nil if the end of input was reached
	// where more tokens were required.
	Token *Token

	// Expected holds the kinds that would have been accepted in place of Token.
	// It is only set for UnexpectedToken errors.
	Expected []Kind

	msg   string
	cause error
}

func (e *Error) Error() string {
	prefix := "syntax error"
	if e.Kind == ArithmeticDomain {
		prefix = "arithmetic error"
	}

	if e.Token != nil && e.Token.Line != 0 {
		return fmt.Sprintf("%s: around line %d, char %d: %s", prefix, e.Token.Line, e.Token.Pos, e.msg)
	}
	return fmt.Sprintf("%s: %s", prefix, e.msg)
}

// Unwrap returns the error that caused e, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is returns whether target is the sentinel error for the Kind of e.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case UnexpectedToken:
		return target == ErrUnexpectedToken
	case TrailingInput:
		return target == ErrTrailingInput
	case ArithmeticDomain:
		return target == ErrArithmetic
	case LiteralFormat:
		return target == ErrLiteralFormat
	case TooDeep:
		return target == ErrTooDeep
	}
	return false
}

// AtEnd returns whether the error was caused by reaching the end of input.
func (e *Error) AtEnd() bool {
	return e.Token == nil && e.Kind == UnexpectedToken
}

// FullMessage shows the complete message of the error along with the
// offending line and a cursor to the problem position. If the token has no
// position information, it is the same as Error().
func (e *Error) FullMessage() string {
	errMsg := e.Error()

	if e.Token != nil && e.Token.Line != 0 {
		errMsg = sourceLineWithCursor(e.Token.FullLine, e.Token.Pos) + "\n" + errMsg
	}

	return errMsg
}

func unexpectedToken(t Token, expected ...Kind) *Error {
	tok := t
	return &Error{
		Kind:     UnexpectedToken,
		Token:    &tok,
		Expected: expected,
		msg:      fmt.Sprintf("unexpected %s (%s); %s", describeToken(t), t.Kind, expectedList(expected)),
	}
}

func unexpectedEnd(expected ...Kind) *Error {
	return &Error{
		Kind:     UnexpectedToken,
		Expected: expected,
		msg:      fmt.Sprintf("unexpected end of expression; %s", expectedList(expected)),
	}
}

func trailingInput(t Token) *Error {
	tok := t
	return &Error{
		Kind:  TrailingInput,
		Token: &tok,
		msg:   fmt.Sprintf("unexpected trailing %s (%s) after complete expression", describeToken(t), t.Kind),
	}
}

func domainError(t Token, cause error) *Error {
	tok := t
	return &Error{
		Kind:  ArithmeticDomain,
		Token: &tok,
		msg:   cause.Error(),
		cause: cause,
	}
}

func literalFormatError(t Token, cause error) *Error {
	tok := t
	return &Error{
		Kind:  LiteralFormat,
		Token: &tok,
		msg:   fmt.Sprintf("%q is not a valid integer", t.Lexeme),
		cause: cause,
	}
}

func tooDeepError(t Token, limit int) *Error {
	tok := t
	return &Error{
		Kind:  TooDeep,
		Token: &tok,
		msg:   fmt.Sprintf("expression nested more than %d levels deep", limit),
	}
}

func describeToken(t Token) string {
	if t.Kind == Number {
		return fmt.Sprintf("number %q", t.Lexeme)
	}
	return t.Kind.Human()
}

func expectedList(kinds []Kind) string {
	if len(kinds) == 0 {
		return "expected end of expression"
	}

	names := make([]string, len(kinds))
	for i := range kinds {
		names[i] = kinds[i].Human()
	}

	if len(names) == 1 {
		return "expected " + names[0]
	}
	return "expected " + strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

// SyntaxError is an error in the text of an expression found during lexing,
// before any evaluation has taken place.
type SyntaxError struct {
	sourceLine string
	source     string

	// line that error occured on, 1-indexed.
	line int

	// position in line of error, 1-indexed.
	pos     int
	message string
}

func (se SyntaxError) Error() string {
	if se.line == 0 {
		return fmt.Sprintf("syntax error: %s", se.message)
	}

	return fmt.Sprintf("syntax error: around line %d, char %d: %s", se.line, se.pos, se.message)
}

// Source returns the exact text of the source code that caused the issue.
func (se SyntaxError) Source() string {
	return se.source
}

// Line returns the line the error occured on. Lines are 1-indexed. This will
// return 0 if the line is not set.
func (se SyntaxError) Line() int {
	return se.line
}

// Position returns the character position that the error occured on. Character
// positions are 1-indexed. This will return 0 if the character position is not
// set.
func (se SyntaxError) Position() int {
	return se.pos
}

// FullMessage shows the complete message of the error string along with the
// offending line and a cursor to the problem position in a formatted way.
func (se SyntaxError) FullMessage() string {
	errMsg := se.Error()

	if se.line != 0 {
		errMsg = sourceLineWithCursor(se.sourceLine, se.pos) + "\n" + errMsg
	}

	return errMsg
}

// sourceLineWithCursor returns the source line and directly under it a cursor
// at pos, which is 1-indexed.
func sourceLineWithCursor(line string, pos int) string {
	cursorLine := ""
	for i := 0; i < pos-1; i++ {
		cursorLine += " "
	}

	return line + "\n" + cursorLine + "^"
}
