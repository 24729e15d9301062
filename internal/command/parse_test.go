package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Parse(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Command
		expectErr bool
	}{
		{name: "blank", input: "   ", expect: Command{}},
		{name: "expression", input: " 2 + 3*4 ", expect: Command{Verb: Eval, Arg: "2 + 3*4"}},
		{name: "expression starting with word", input: "sqr 3", expect: Command{Verb: Eval, Arg: "sqr 3"}},
		{name: "help", input: "help", expect: Command{Verb: Help}},
		{name: "help alias", input: "?", expect: Command{Verb: Help}},
		{name: "help with args", input: "HELP me", expectErr: true},
		{name: "history", input: "History", expect: Command{Verb: History}},
		{name: "history alias", input: "hist", expect: Command{Verb: History}},
		{name: "clear", input: "CLEAR", expect: Command{Verb: Clear}},
		{name: "quit", input: "quit", expect: Command{Verb: Quit}},
		{name: "exit is quit", input: "exit", expect: Command{Verb: Quit}},
		{name: "bye is quit", input: "BYE", expect: Command{Verb: Quit}},
		{name: "quit with args", input: "quit now", expectErr: true},
		{name: "dialect shown", input: "dialect", expect: Command{Verb: Dialect}},
		{name: "dialect switched", input: "DIALECT Extended", expect: Command{Verb: Dialect, Arg: "extended"}},
		{name: "dialect with too many args", input: "dialect strict extended", expectErr: true},
		{name: "save keeps case", input: "save ~/My History.bin", expect: Command{Verb: Save, Arg: "~/My History.bin"}},
		{name: "load", input: "LOAD hist.bin", expect: Command{Verb: Load, Arg: "hist.bin"}},
		{name: "load without file", input: "load", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Parse(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
		})
	}
}
