package serr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Error_Is(t *testing.T) {
	cause := errors.New("disk full")

	testCases := []struct {
		name     string
		err      error
		target   error
		expectIs bool
	}{
		{name: "direct cause", err: New("could not save", cause), target: cause, expectIs: true},
		{name: "second cause", err: New("could not save", cause, ErrDB), target: ErrDB, expectIs: true},
		{name: "not a cause", err: New("could not save", cause), target: ErrNotFound, expectIs: false},
		{name: "wrapped by fmt", err: fmt.Errorf("op: %w", New("", ErrEvaluation)), target: ErrEvaluation, expectIs: true},
		{name: "WrapDB adds ErrDB", err: WrapDB("get", cause), target: ErrDB, expectIs: true},
		{name: "equal Error", err: New("msg", cause), target: New("msg", cause), expectIs: true},
		{name: "different message", err: New("msg", cause), target: New("other", cause), expectIs: false},
		{name: "nested Error cause", err: New("outer", New("inner", ErrDB)), target: New("outer", New("inner", ErrDB)), expectIs: true},
		{name: "nested Error sentinel", err: New("outer", New("inner", ErrDB)), target: ErrDB, expectIs: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expectIs, errors.Is(tc.err, tc.target))
		})
	}
}

func Test_Error_Error(t *testing.T) {
	testCases := []struct {
		name   string
		err    Error
		expect string
	}{
		{name: "message only", err: New("bad thing"), expect: "bad thing"},
		{name: "cause only", err: New("", ErrNotFound), expect: ErrNotFound.Error()},
		{name: "message and cause", err: New("get user", ErrNotFound), expect: "get user: " + ErrNotFound.Error()},
		{name: "nil cause skipped", err: New("blank", nil, ErrBadArgument), expect: "blank: " + ErrBadArgument.Error()},
		{name: "WrapDB keeps message", err: WrapDB("could not get", errors.New("locked")), expect: "could not get: locked"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expect, tc.err.Error())
		})
	}
}
