/*
Tci starts an interactive TunaCalc console session.

It reads integer expressions and console commands from stdin and prints their
results to stdout until the input ends or the "QUIT" command is given. A single
expression can instead be evaluated with --expr, in which case its value is
printed and the program exits.

Usage:

	tci [flags]
	tci [flags] -e EXPRESSION

The flags are:

	-v, --version
		Give the current version of TunaCalc and then exit.

	-e, --expr EXPRESSION
		Evaluate EXPRESSION, print its value, and exit. The exit code is 1 if
		the expression could not be evaluated.

	-d, --direct
		Force reading directly from the console as opposed to using GNU readline
		based routines for reading command input even if launched in a tty with
		stdin and stdout.

	-x, --dialect NAME
		Evaluate with the given dialect, either "strict" or "extended". Defaults
		to the value in the config file, or "strict" if there is none.

	--max-depth N
		Allow parentheses to be nested at most N levels deep. Defaults to 256.

	-c, --config FILE
		Read settings from the given TOML config file.

	-H, --history FILE
		Load history from FILE at start and save it there at exit.

Once a session has started, type "HELP" for an explanation of the commands.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/tunacalc"
	"github.com/dekarrin/tunacalc/internal/config"
	"github.com/dekarrin/tunacalc/internal/tcerrors"
	"github.com/dekarrin/tunacalc/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitEvalError indicates an unsuccessful program execution due to a
	// problem during the session or with the expression given by --expr.
	ExitEvalError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// initializing the engine.
	ExitInitError
)

var (
	returnCode   = ExitSuccess
	flagVersion  = pflag.BoolP("version", "v", false, "Give the current version of TunaCalc and then exit.")
	flagExpr     = pflag.StringP("expr", "e", "", "Evaluate the given expression, print it, and exit.")
	flagDirect   = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
	flagDialect  = pflag.StringP("dialect", "x", "", "Evaluate with the given dialect, 'strict' or 'extended'.")
	flagMaxDepth = pflag.Int("max-depth", 0, "Maximum nesting depth of parentheses.")
	flagConfig   = pflag.StringP("config", "c", "", "Read settings from the given TOML file.")
	flagHistory  = pflag.StringP("history", "H", "", "Load history from and save history to the given file.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic(panicErr)
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (engine v%s)\n", version.Current, version.EngineCurrent)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments; did you mean to use --expr?\nDo -h for help.\n")
		returnCode = ExitInitError
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	ev, err := cfg.Eval.Evaluator()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	if pflag.Lookup("expr").Changed {
		v, err := ev.EvaluateString(*flagExpr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", tcerrors.Message(err))
			returnCode = ExitEvalError
			return
		}
		fmt.Printf("%d\n", v)
		return
	}

	calcEng, initErr := tunacalc.New(os.Stdin, os.Stdout, tunacalc.Options{
		Evaluator:   ev,
		Width:       cfg.Console.Width,
		HistoryFile: cfg.Console.HistoryFile,
		ForceDirect: *flagDirect,
	})
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer calcEng.Close()

	err = calcEng.RunUntilQuit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitEvalError
		return
	}
}

// loadConfig reads the config file if one was given and applies the flags
// over it.
func loadConfig() (config.Config, error) {
	var cfg config.Config

	if *flagConfig != "" {
		var err error
		cfg, err = config.Load(*flagConfig)
		if err != nil {
			return cfg, err
		}
	}

	if pflag.Lookup("dialect").Changed {
		cfg.Eval.Dialect = *flagDialect
	}
	if pflag.Lookup("max-depth").Changed {
		cfg.Eval.MaxDepth = *flagMaxDepth
	}
	if pflag.Lookup("history").Changed {
		cfg.Console.HistoryFile = *flagHistory
	}

	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}
