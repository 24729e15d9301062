// Package tunacalc contains a CLI-driven engine for reading integer
// expressions and console commands and evaluating them continuously until the
// user quits.
package tunacalc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/tunacalc/internal/command"
	"github.com/dekarrin/tunacalc/internal/expr"
	"github.com/dekarrin/tunacalc/internal/history"
	"github.com/dekarrin/tunacalc/internal/input"
	"github.com/dekarrin/tunacalc/internal/tcerrors"
)

const defaultConsoleWidth = 80

var commandHelp = [][2]string{
	{"EXPRESSION", "evaluate an integer expression, such as '(2+3)*4' or '2*5!'"},
	{"HELP", "show this help"},
	{"HISTORY", "show all expressions evaluated so far with their results"},
	{"DIALECT [name]", "show the current dialect, or switch to 'strict' or 'extended'"},
	{"SAVE FILE", "write the history to FILE"},
	{"LOAD FILE", "replace the history with the one in FILE"},
	{"CLEAR", "remove all entries from the history"},
	{"QUIT/EXIT/BYE", "leave the calculator"},
}

var textFormatOptions = rosed.Options{
	PreserveParagraphs: true,
	IndentStr:          "  ",
}

// Options configures an Engine.
type Options struct {
	// Evaluator evaluates each expression that is entered. Its dialect can be
	// changed while running with the DIALECT command.
	Evaluator expr.Evaluator

	// Width is the column width that messages are wrapped to. If 0, 80 is
	// used.
	Width int

	// HistoryFile is loaded when the Engine is created, if it exists, and is
	// written when RunUntilQuit returns. If empty, history is kept only in
	// memory.
	HistoryFile string

	// ForceDirect disables readline even when attached to stdin and stdout.
	ForceDirect bool
}

// Engine contains the things needed to run a calculator session from an
// interactive shell attached to an input stream and an output stream.
type Engine struct {
	ev          expr.Evaluator
	hist        *history.History
	histFile    string
	width       int
	in          command.Reader
	out         *bufio.Writer
	forceDirect bool
	running     bool
	quit        bool
	now         func() time.Time
}

// New creates a new engine ready to operate on the given input and output
// streams. It will immediately open a buffered reader on the input stream and a
// buffered writer on the output stream.
//
// If nil is given for the input stream, stdin is used. If nil is given for the
// output stream, stdout is used.
func New(inputStream io.Reader, outputStream io.Writer, opts Options) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	eng := &Engine{
		ev:          opts.Evaluator,
		hist:        &history.History{},
		histFile:    opts.HistoryFile,
		width:       opts.Width,
		out:         bufio.NewWriter(outputStream),
		forceDirect: opts.ForceDirect,
		now:         time.Now,
	}
	if eng.width < 1 {
		eng.width = defaultConsoleWidth
	}

	if eng.histFile != "" {
		err := eng.hist.Load(eng.histFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load history: %w", err)
		}
	}

	useReadline := !opts.ForceDirect && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		var err error
		eng.in, err = input.NewInteractiveReader()
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

// History returns all entries evaluated so far, oldest first.
func (eng *Engine) History() []history.Entry {
	return eng.hist.Entries()
}

// RunUntilQuit begins reading commands from the streams and executing them
// until the QUIT command is received or input ends. If a history file was
// configured, the history is saved to it before returning.
func (eng *Engine) RunUntilQuit() error {
	introMsg := "Welcome to TunaCalc\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "===================\n"
	introMsg += fmt.Sprintf("Dialect is %s. Type HELP for commands.\n", eng.ev.Dialect)

	if err := eng.write(introMsg); err != nil {
		return err
	}

	eng.running = true
	eng.quit = false
	// so we dont have to remember to do this on every returned error condition
	defer func() {
		eng.running = false
	}()

	for !eng.quit {
		cmd, err := command.Get(eng.in, eng.out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		output, err := eng.execute(cmd)
		if err != nil {
			output = eng.diagnostic(tcerrors.Message(err))
		}
		if output != "" {
			if err := eng.write(output + "\n"); err != nil {
				return err
			}
		}
	}

	if eng.histFile != "" {
		if err := eng.hist.Save(eng.histFile); err != nil {
			return fmt.Errorf("save history: %w", err)
		}
	}

	return eng.write("Goodbye\n")
}

// EvalLine parses and executes a single line of console input and returns the
// text that would be shown for it. Problems with the input, including
// expressions that fail to evaluate, are returned as an error; pass it to
// tcerrors.Message to get the text to show the user.
//
// A QUIT command gives empty output and causes a running RunUntilQuit to stop
// after the current line.
func (eng *Engine) EvalLine(line string) (string, error) {
	cmd, err := command.Parse(line)
	if err != nil {
		return "", err
	}
	return eng.execute(cmd)
}

func (eng *Engine) execute(cmd command.Command) (string, error) {
	switch cmd.Verb {
	case "":
		return "", nil
	case command.Eval:
		return eng.executeEval(cmd)
	case command.Help:
		return eng.executeHelp(), nil
	case command.History:
		return eng.executeHistory(), nil
	case command.Dialect:
		return eng.executeDialect(cmd)
	case command.Save:
		if err := eng.hist.Save(cmd.Arg); err != nil {
			return "", tcerrors.WrapInterpreterf(err, "Could not save history to %s", cmd.Arg)
		}
		return fmt.Sprintf("Saved %d entries to %s", eng.hist.Len(), cmd.Arg), nil
	case command.Load:
		if err := eng.hist.Load(cmd.Arg); err != nil {
			return "", tcerrors.WrapInterpreterf(err, "Could not load history from %s", cmd.Arg)
		}
		return fmt.Sprintf("Loaded %d entries from %s", eng.hist.Len(), cmd.Arg), nil
	case command.Clear:
		eng.hist.Clear()
		return "History cleared", nil
	case command.Quit:
		eng.quit = true
		return "", nil
	default:
		return "", tcerrors.Interpreterf("I don't know how to %q", cmd.Verb)
	}
}

func (eng *Engine) executeEval(cmd command.Command) (string, error) {
	entry := history.Entry{
		Expr:    cmd.Arg,
		Dialect: eng.ev.Dialect.String(),
		Time:    eng.now(),
	}

	v, err := eng.ev.EvaluateString(cmd.Arg)
	if err != nil {
		entry.Err = err.Error()
		eng.hist.Add(entry)
		return "", err
	}

	entry.Result = v
	eng.hist.Add(entry)
	return fmt.Sprintf("= %d", v), nil
}

func (eng *Engine) executeHelp() string {
	return rosed.Edit("").WithOptions(
		textFormatOptions.
			WithParagraphSeparator("\n").
			WithNoTrailingLineSeparators(true)).
		Insert(rosed.End, "Enter an expression to evaluate it, or one of these commands:\n").
		InsertDefinitionsTable(rosed.End, commandHelp, eng.width).String()
}

func (eng *Engine) executeHistory() string {
	entries := eng.hist.Entries()
	if len(entries) == 0 {
		return "History is empty"
	}

	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteRune('\n')
		}
		if e.Failed() {
			sb.WriteString(fmt.Sprintf("%d: [%s] %s => %s", i+1, e.Dialect, e.Expr, e.Err))
		} else {
			sb.WriteString(fmt.Sprintf("%d: [%s] %s = %d", i+1, e.Dialect, e.Expr, e.Result))
		}
	}
	return sb.String()
}

func (eng *Engine) executeDialect(cmd command.Command) (string, error) {
	if cmd.Arg == "" {
		return fmt.Sprintf("Dialect is %s", eng.ev.Dialect), nil
	}

	d, err := expr.ParseDialect(cmd.Arg)
	if err != nil {
		return "", tcerrors.WrapInterpreterf(err, "%q is not a dialect; use 'strict' or 'extended'", cmd.Arg)
	}

	eng.ev.Dialect = d
	return fmt.Sprintf("Dialect set to %s", d), nil
}

// diagnostic wraps the final line of msg to the console width. Any lines
// before it are source text with a cursor and are left untouched so that the
// cursor stays aligned.
func (eng *Engine) diagnostic(msg string) string {
	lines := strings.Split(msg, "\n")
	last := len(lines) - 1
	lines[last] = rosed.Edit(lines[last]).Wrap(eng.width).String()
	return strings.Join(lines, "\n")
}

func (eng *Engine) write(s string) error {
	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}
