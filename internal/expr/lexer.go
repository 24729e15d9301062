package expr

import (
	"fmt"
	"strings"
	"unicode"
)

var wordKinds = map[string]Kind{
	"sqr": Square,
	"dbl": Double,
}

var symbolKinds = map[rune]Kind{
	'(': Open,
	')': Close,
	'+': Plus,
	'-': Minus,
	'*': Mul,
	'/': Div,
	'!': Fact,
	'%': Percent,
	'^': Pow,
}

// Lex reads the text of an expression and returns a Stream of its tokens ready
// for evaluation.
func Lex(s string) (*Stream, error) {
	toks, err := LexTokens(s)
	if err != nil {
		return nil, err
	}
	return &Stream{tokens: toks}, nil
}

// LexTokens reads the text of an expression and returns its tokens. Lexing
// only classifies characters; no check of token order is performed.
//
// If an unknown character or word is found, the returned error will be a
// SyntaxError.
func LexTokens(s string) ([]Token, error) {
	sRunes := []rune(s)

	var tokens []Token

	curLine := 1
	curLinePos := 1
	currentFullLine := readFullLine(sRunes)

	var sb strings.Builder
	var pending Token

	type lexMode int

	const (
		lexDefault lexMode = iota
		lexNumber
		lexWord
	)

	mode := lexDefault

	flush := func() error {
		if sb.Len() < 1 {
			return nil
		}
		pending.Lexeme = sb.String()
		pending.FullLine = currentFullLine
		sb.Reset()

		if mode == lexWord {
			k, ok := wordKinds[strings.ToLower(pending.Lexeme)]
			if !ok {
				return SyntaxError{
					sourceLine: pending.FullLine,
					source:     pending.Lexeme,
					line:       pending.Line,
					pos:        pending.Pos,
					message:    fmt.Sprintf("unknown word %q", pending.Lexeme),
				}
			}
			pending.Kind = k
		}

		tokens = append(tokens, pending)
		pending = Token{}
		mode = lexDefault
		return nil
	}

	for i := 0; i < len(sRunes); i++ {
		ch := sRunes[i]

		switch mode {
		case lexNumber:
			if '0' <= ch && ch <= '9' {
				sb.WriteRune(ch)
				break
			}
			if err := flush(); err != nil {
				return nil, err
			}
			i-- // re-lex in default mode
			continue
		case lexWord:
			if unicode.IsLetter(ch) {
				sb.WriteRune(ch)
				break
			}
			if err := flush(); err != nil {
				return nil, err
			}
			i-- // re-lex in default mode
			continue
		case lexDefault:
			if k, ok := symbolKinds[ch]; ok {
				tokens = append(tokens, Token{
					Kind:     k,
					Lexeme:   string(ch),
					Line:     curLine,
					Pos:      curLinePos,
					FullLine: currentFullLine,
				})
			} else if '0' <= ch && ch <= '9' {
				pending = Token{Kind: Number, Line: curLine, Pos: curLinePos}
				sb.WriteRune(ch)
				mode = lexNumber
			} else if unicode.IsLetter(ch) {
				pending = Token{Line: curLine, Pos: curLinePos}
				sb.WriteRune(ch)
				mode = lexWord
			} else if !unicode.IsSpace(ch) {
				return nil, SyntaxError{
					sourceLine: currentFullLine,
					source:     string(ch),
					line:       curLine,
					pos:        curLinePos,
					message:    fmt.Sprintf("unexpected character %q", ch),
				}
			}
		}

		curLinePos++
		if ch == '\n' {
			curLine++
			curLinePos = 1
			currentFullLine = readFullLine(sRunes[i+1:])
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return tokens, nil
}

func readFullLine(sRunes []rune) string {
	var lineBuilder strings.Builder
	for i := 0; i < len(sRunes) && sRunes[i] != '\n'; i++ {
		lineBuilder.WriteRune(sRunes[i])
	}
	return lineBuilder.String()
}
