// Package tcerrors has errors for the TunaCalc console that carry a message to
// show the operator separately from the technical description.
package tcerrors

import (
	"errors"
	"fmt"

	"github.com/dekarrin/tunacalc/internal/expr"
)

// interpreterError is an error caused by attempting to interpret a line of
// console input. Either the input could not be understood or it asks for
// something that cannot be done.
//
// interpreterError includes a human-readable message to show to the operator
// as well as a typical more technical "error message" style message.
type interpreterError struct {
	msg   string
	human string
	wrap  error
}

func (e *interpreterError) Error() string {
	return e.msg
}

// HumanMessage shows the message that should be displayed on the console to
// describe the error.
func (e *interpreterError) HumanMessage() string {
	return e.human
}

// Unwrap gives the error that the interpreterError wraps, if it wraps one.
func (e *interpreterError) Unwrap() error {
	return e.wrap
}

// Interpreter returns a new interpreter error that has both the message to show
// the operator and the technical description of the error.
func Interpreter(human, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got InterpreterError(%q)", human)
	}
	return &interpreterError{
		msg:   technical,
		human: human,
	}
}

// Interpreterf returns a new interpreter error that has a message to show to
// the operator and an automatically generated Error() description.
func Interpreterf(humanFormat string, a ...interface{}) error {
	return Interpreter(fmt.Sprintf(humanFormat, a...), "")
}

// WrapInterpreter returns a new interpreter error that has both the message to
// show the operator and the technical description of the error, and that wraps
// the given error.
func WrapInterpreter(e error, human, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got InterpreterError(%q): %v", human, e)
	}
	return &interpreterError{
		msg:   technical,
		human: human,
		wrap:  e,
	}
}

// WrapInterpreterf is WrapInterpreter with a formatted human message.
func WrapInterpreterf(e error, humanFormat string, a ...interface{}) error {
	return WrapInterpreter(e, fmt.Sprintf(humanFormat, a...), "")
}

// Message gets the message to display to the console for the given error. If
// it is an interpreter error, its human message is returned. Evaluation and
// lexing errors are given with their full message, which includes the source
// line and a cursor to the problem. Otherwise, err.Error() is returned.
func Message(err error) string {
	var intErr *interpreterError
	if errors.As(err, &intErr) {
		return intErr.HumanMessage()
	}

	var evalErr *expr.Error
	if errors.As(err, &evalErr) {
		return evalErr.FullMessage()
	}

	var synErr expr.SyntaxError
	if errors.As(err, &synErr) {
		return synErr.FullMessage()
	}

	return err.Error()
}
