package command

import (
	"strings"

	"github.com/dekarrin/tunacalc/internal/tcerrors"
)

var (
	// VerbAliases maps shorthand verbs (which must be the first word in a
	// command) to their canonical forms. They are all uppercase.
	VerbAliases map[string]string = map[string]string{
		"EXIT": Quit,
		"BYE":  Quit,
		"?":    Help,
		"/?":   Help,
		"/H":   Help,
		"-H":   Help,
		"H":    Help,
		"HIST": History,
	}

	verbs = map[string]bool{
		Help:    true,
		History: true,
		Dialect: true,
		Save:    true,
		Load:    true,
		Clear:   true,
		Quit:    true,
	}
)

// Parse parses a command from the given text. If it cannot, a non-nil error is
// returned. Lines that do not begin with a command verb are returned as an
// EVAL command without further checks; whether they are valid expressions is
// only known once they are evaluated.
//
// If an empty string or a string composed only of whitespace is passed in, nil
// error is returned and a zero value for Command will be returned.
func Parse(toParse string) (Command, error) {
	var parsedCmd Command

	trimmed := strings.TrimSpace(toParse)

	casedTokens := strings.Fields(trimmed)
	if len(casedTokens) < 1 {
		return parsedCmd, nil
	}

	verb := ExpandAlias(strings.ToUpper(casedTokens[0]))
	if !verbs[verb] {
		parsedCmd.Verb = Eval
		parsedCmd.Arg = trimmed
		return parsedCmd, nil
	}

	parsedCmd.Verb = verb
	args := casedTokens[1:]

	switch verb {
	case Help, History, Clear, Quit:
		// these take no args
		if len(args) > 0 {
			errMsg := "%s does not take any arguments; type %s by itself"
			return Command{}, tcerrors.Interpreterf(errMsg, casedTokens[0], casedTokens[0])
		}
	case Dialect:
		if len(args) > 1 {
			return Command{}, tcerrors.Interpreterf("%s takes at most one dialect name", casedTokens[0])
		}
		if len(args) == 1 {
			parsedCmd.Arg = strings.ToLower(args[0])
		}
	case Save, Load:
		if len(args) < 1 {
			return Command{}, tcerrors.Interpreterf("I don't know what file you want to %s", strings.ToLower(verb))
		}

		// file names keep their case and inner spacing
		parsedCmd.Arg = strings.TrimSpace(trimmed[len(casedTokens[0]):])
	}

	return parsedCmd, nil
}

// ExpandAlias returns the canonical form of the given upper-case verb. If it is
// not an alias, it is returned unchanged.
func ExpandAlias(verb string) string {
	if expansion, ok := VerbAliases[verb]; ok {
		return expansion
	}
	return verb
}
