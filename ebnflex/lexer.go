// Package ebnflex provides lexical scanning based on EBNF grammars.
//
// Productions whose name starts with an uppercase letter are lexical:
// each one is a token kind.  At every position the lexer picks the
// longest match among the grammar literals and the lexical
// productions.  Ties go to a literal first, then to the kind that
// sorts first.
package ebnflex

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/tliron/commonlog"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/packrat/token"
)

// ErrorKind is the kind of tokens made of input nothing matched.
const ErrorKind = "ERROR"

var log = commonlog.GetLogger("packrat.ebnflex")

// IsLexical reports whether the production name denotes a token kind.
func IsLexical(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// Kinds returns the names of the lexical productions of g, sorted.
func Kinds(g ebnf.Grammar) []string {
	var kinds []string
	for name, prod := range g {
		if prod.Expr != nil && IsLexical(name) {
			kinds = append(kinds, name)
		}
	}
	sort.Strings(kinds)
	return kinds
}

// LoadGrammar loads an EBNF grammar from a file.
func LoadGrammar(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	grammar, err := ebnf.Parse(filename, f)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}

	return grammar, nil
}

// memoKey is used for memoization of match results.
type memoKey struct {
	name   string
	offset int
}

type Option func(*Lexer)

// WithSkip drops tokens of the given kinds from Next and Tokenize.
func WithSkip(kinds ...string) Option {
	return func(l *Lexer) {
		for _, kind := range kinds {
			l.skip[kind] = true
		}
	}
}

// WithLiterals adds literal lexemes to match besides the lexical
// productions.
func WithLiterals(literals ...string) Option {
	return func(l *Lexer) {
		l.literals = append(l.literals, literals...)
	}
}

// WithClassifier sets the function giving every token its terminal
// id.  Without one every token is token.Invalid.
func WithClassifier(fn func(kind, lexeme string) int) Option {
	return func(l *Lexer) {
		l.classify = fn
	}
}

// Lexer tokenizes input based on an EBNF grammar.
type Lexer struct {
	grammar  ebnf.Grammar
	input    []byte
	pos      token.Position
	kinds    []string
	literals []string
	skip     map[string]bool
	classify func(kind, lexeme string) int
	errors   []token.Token

	memo     map[memoKey]int  // match length per production and offset, -1 for no match
	visiting map[memoKey]bool // cycle detection
}

// NewLexer creates a lexer for the given grammar and input.
func NewLexer(grammar ebnf.Grammar, input []byte, filename string, opts ...Option) *Lexer {
	l := &Lexer{
		grammar:  grammar,
		input:    input,
		pos:      token.Position{Filename: filename, Line: 1, Column: 1},
		kinds:    Kinds(grammar),
		skip:     make(map[string]bool),
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	sort.Strings(l.literals)
	return l
}

// Position returns the current position in the input.
func (l *Lexer) Position() token.Position { return l.pos }

// Errors returns the ERROR tokens produced so far.
func (l *Lexer) Errors() []token.Token { return l.errors }

// NextToken returns the next token from the input, skipped kinds
// included.  It returns io.EOF once the input is consumed.
func (l *Lexer) NextToken() (token.Token, error) {
	if l.pos.Offset >= len(l.input) {
		return token.Token{Terminal: token.Invalid, Kind: "EOF", Position: l.pos}, io.EOF
	}

	start := l.pos.Offset

	// Clear memoization cache for each new token (positions change)
	clear(l.memo)

	var bestKind string
	var bestLen int

	for _, lit := range l.literals {
		if len(lit) > bestLen && l.hasPrefix(start, lit) {
			bestLen = len(lit)
			bestKind = strconv.Quote(lit)
		}
	}
	for _, name := range l.kinds {
		clear(l.visiting)
		n, ok := l.tryMatch(l.grammar[name].Expr, start)
		if ok && n > bestLen {
			bestLen = n
			bestKind = name
		}
	}

	if bestLen == 0 {
		// No match - emit a single character as error token
		_, size := utf8.DecodeRune(l.input[start:])
		tok := l.emit(ErrorKind, size)
		l.errors = append(l.errors, tok)
		log.Debugf("%s: unexpected %q", tok.Position, tok.Lexeme)
		return tok, nil
	}

	return l.emit(bestKind, bestLen), nil
}

func (l *Lexer) emit(kind string, size int) token.Token {
	lexeme := string(l.input[l.pos.Offset : l.pos.Offset+size])
	tok := token.Token{
		Terminal: token.Invalid,
		Kind:     kind,
		Lexeme:   lexeme,
		Position: l.pos,
	}
	if l.classify != nil && kind != ErrorKind {
		tok.Terminal = l.classify(kind, lexeme)
	}
	l.pos = l.pos.Advance(lexeme)
	return tok
}

// Next returns the next token that is not of a skipped kind.  It
// makes the lexer a token.Source.
func (l *Lexer) Next() (token.Token, bool) {
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tok, false
		}
		if !l.skip[tok.Kind] {
			return tok, true
		}
	}
}

// Tokenize reads all remaining tokens that are not of a skipped kind.
func (l *Lexer) Tokenize() []token.Token {
	return token.Collect(l)
}

func (l *Lexer) hasPrefix(offset int, s string) bool {
	return offset+len(s) <= len(l.input) && string(l.input[offset:offset+len(s)]) == s
}

// tryMatch attempts to match an expression at the given offset and
// returns the length of the match.
func (l *Lexer) tryMatch(expr ebnf.Expression, offset int) (int, bool) {
	switch e := expr.(type) {
	case nil:
		// empty expression
		return 0, true

	case *ebnf.Token:
		if l.hasPrefix(offset, e.String) {
			return len(e.String), true
		}
		return 0, false

	case *ebnf.Range:
		return l.tryMatchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		pos := offset
		for _, item := range e {
			n, ok := l.tryMatch(item, pos)
			if !ok {
				return 0, false
			}
			pos += n
		}
		return pos - offset, true

	case ebnf.Alternative:
		best, matched := 0, false
		for _, alt := range e {
			if n, ok := l.tryMatch(alt, offset); ok && (!matched || n > best) {
				best, matched = n, true
			}
		}
		return best, matched

	case *ebnf.Repetition:
		pos := offset
		for {
			n, ok := l.tryMatch(e.Body, pos)
			if !ok || n == 0 {
				break
			}
			pos += n
		}
		return pos - offset, true

	case *ebnf.Option:
		n, ok := l.tryMatch(e.Body, offset)
		if !ok {
			return 0, true
		}
		return n, true

	case *ebnf.Group:
		return l.tryMatch(e.Body, offset)

	case *ebnf.Name:
		return l.tryMatchName(e.String, offset)

	default:
		return 0, false
	}
}

// tryMatchName matches a named production with memoization and cycle detection.
func (l *Lexer) tryMatchName(name string, offset int) (int, bool) {
	key := memoKey{name: name, offset: offset}

	if result, ok := l.memo[key]; ok {
		return max(result, 0), result >= 0
	}

	// A production re-entered at the same offset is left recursive;
	// fail the inner attempt to break the cycle.
	if l.visiting[key] {
		return 0, false
	}

	prod, ok := l.grammar[name]
	if !ok {
		l.memo[key] = -1
		return 0, false
	}

	l.visiting[key] = true
	n, ok := l.tryMatch(prod.Expr, offset)
	delete(l.visiting, key)

	if !ok {
		l.memo[key] = -1
		return 0, false
	}
	l.memo[key] = n
	return n, true
}

// tryMatchRange matches a single character in a range such as "a" … "z".
func (l *Lexer) tryMatchRange(begin, end string, offset int) (int, bool) {
	if offset >= len(l.input) {
		return 0, false
	}
	lo, n := utf8.DecodeRuneInString(begin)
	if n != len(begin) {
		return 0, false
	}
	hi, n := utf8.DecodeRuneInString(end)
	if n != len(end) {
		return 0, false
	}
	r, size := utf8.DecodeRune(l.input[offset:])
	if r == utf8.RuneError && size <= 1 {
		return 0, false
	}
	if r >= lo && r <= hi {
		return size, true
	}
	return 0, false
}
