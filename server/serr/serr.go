// Package serr has the errors returned by the TunaCalc server service layer.
// An Error carries a message along with any number of causes, and errors.Is
// matches an Error against each of its causes, so callers check for the
// sentinels below rather than inspecting types.
package serr

import "errors"

var (
	ErrBadCredentials = errors.New("the supplied username/password combination is incorrect")
	ErrPermissions    = errors.New("you don't have permission to do that")
	ErrNotFound       = errors.New("the requested entity could not be found")
	ErrAlreadyExists  = errors.New("resource with same identifying information already exists")
	ErrDB             = errors.New("an error occured with the DB")
	ErrBadArgument    = errors.New("one or more of the arguments is invalid")
	ErrBodyUnmarshal  = errors.New("malformed data in request")
	ErrEvaluation     = errors.New("the expression could not be evaluated")
)

// Error is a message with zero or more causes. Its text is the message
// followed by the text of the first cause; either part may be absent. Create
// one with New or WrapDB.
type Error struct {
	msg   string
	cause []error
}

func (e Error) Error() string {
	switch {
	case len(e.cause) == 0:
		return e.msg
	case e.msg == "":
		return e.cause[0].Error()
	default:
		return e.msg + ": " + e.cause[0].Error()
	}
}

// Unwrap gives every cause so errors.Is and errors.As search all of them.
func (e Error) Unwrap() []error {
	return e.cause
}

// Is reports whether target is an Error with the same message and causes.
// Matching against individual causes is done by errors.Is through Unwrap.
func (e Error) Is(target error) bool {
	other, ok := target.(Error)
	if !ok || other.msg != e.msg || len(other.cause) != len(e.cause) {
		return false
	}
	for i := range e.cause {
		if !errors.Is(e.cause[i], other.cause[i]) {
			return false
		}
	}
	return true
}

// WrapDB gives an Error caused by err and ErrDB. msg may be empty.
func WrapDB(msg string, err error) Error {
	return New(msg, err, ErrDB)
}

// New gives an Error with the given message and causes. Nil causes are
// dropped so an unset err may be passed directly.
func New(msg string, causes ...error) Error {
	e := Error{msg: msg}
	for _, c := range causes {
		if c != nil {
			e.cause = append(e.cause, c)
		}
	}
	return e
}
