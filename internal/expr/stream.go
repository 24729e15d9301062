package expr

// Stream is a front-to-back cursor over a sequence of tokens. Once a token has
// been consumed with Next it is never revisited; there is no rewinding.
//
// A Stream is owned by exactly one evaluation at a time and is not safe for
// concurrent use.
type Stream struct {
	tokens []Token
	cur    int
}

// NewStream creates a Stream over the given tokens. The slice is copied so
// later changes to it by the caller do not affect the Stream.
func NewStream(tokens ...Token) *Stream {
	toks := make([]Token, len(tokens))
	copy(toks, tokens)
	return &Stream{tokens: toks}
}

// Next returns the next token and advances the stream by one token. If the
// stream is exhausted, the returned bool is false.
func (s *Stream) Next() (Token, bool) {
	if s.cur >= len(s.tokens) {
		return Token{}, false
	}
	t := s.tokens[s.cur]
	s.cur++
	return t, true
}

// Peek returns the next token without advancing the stream. If the stream is
// exhausted, the returned bool is false.
func (s *Stream) Peek() (Token, bool) {
	if s.cur >= len(s.tokens) {
		return Token{}, false
	}
	return s.tokens[s.cur], true
}

// HasNext returns whether the stream has any tokens left.
func (s *Stream) HasNext() bool {
	return s.Remaining() > 0
}

// Remaining returns the number of tokens not yet consumed.
func (s *Stream) Remaining() int {
	return len(s.tokens) - s.cur
}

// peekIs returns whether the next token is one of the given kinds.
func (s *Stream) peekIs(kinds ...Kind) (Token, bool) {
	t, ok := s.Peek()
	if !ok {
		return t, false
	}
	for _, k := range kinds {
		if t.Kind == k {
			return t, true
		}
	}
	return t, false
}
