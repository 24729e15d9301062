// Package command defines console command data types and handles parsing of
// commands from input sources.
package command

// Verbs that a parsed Command may have.
const (
	Eval    = "EVAL"
	Help    = "HELP"
	History = "HISTORY"
	Dialect = "DIALECT"
	Save    = "SAVE"
	Load    = "LOAD"
	Clear   = "CLEAR"
	Quit    = "QUIT"
)

// Command is a valid command received from a console input source.
type Command struct {

	// Verb is the canonical name of the command being invoked, such as "HELP",
	// "SAVE", or "QUIT". Some verbs may be typed differently, for instance
	// "EXIT" or "BYE" could be typed instead of "QUIT", and in those cases they
	// would result in a Command with a verb of QUIT. Any line that does not
	// start with a known verb is an expression and has a verb of EVAL.
	Verb string

	// Arg is the rest of the line after the verb with its case preserved. For
	// EVAL, it is the entire expression. For SAVE and LOAD, it is the file
	// path. For DIALECT, it is the dialect to switch to, or empty to show the
	// current one.
	Arg string
}
