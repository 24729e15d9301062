// Package version contains information on the current version of the program.
// It is split from the main program for easy use.
package version

// Current is the string representing the current version of the TunaCalc
// console.
const Current = "0.1.0"

// ServerCurrent is the string representing the current version of the
// TunaCalc server.
const ServerCurrent = "0.1.0"

// EngineCurrent is the version of the expression evaluator shared by both the
// console and the server.
const EngineCurrent = "0.1.0"
