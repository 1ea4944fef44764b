package token

// Source is a pull-style token generator.  Next returns the next
// token and true, or false once the input is exhausted.  Callers must
// not call Next again after it returned false.
type Source interface {
	Next() (Token, bool)
}

// Func adapts a plain function to the Source interface.
type Func func() (Token, bool)

func (f Func) Next() (Token, bool) { return f() }

// SliceSource yields the tokens of a slice in order.
type SliceSource struct {
	tokens []Token
	pos    int
}

// NewSliceSource creates a source over tokens.  The slice is not
// copied.
func NewSliceSource(tokens []Token) *SliceSource {
	return &SliceSource{tokens: tokens}
}

func (s *SliceSource) Next() (Token, bool) {
	if s.pos >= len(s.tokens) {
		return Token{}, false
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, true
}

// Collect drains src into a slice.
func Collect(src Source) []Token {
	var tokens []Token
	for {
		tok, ok := src.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}
