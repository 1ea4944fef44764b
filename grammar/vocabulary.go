package grammar

import (
	"sort"
	"strconv"

	"github.com/dhamidi/packrat/token"
)

// Vocabulary interns the terminals of a grammar.  A terminal is
// either a token kind (the lexical category of a token, such as
// Number) or a literal lexeme (such as "+").  Ids are dense and start
// at zero.
type Vocabulary struct {
	names    []string
	kinds    map[string]int
	literals map[string]int
}

func NewVocabulary() *Vocabulary {
	return &Vocabulary{
		kinds:    make(map[string]int),
		literals: make(map[string]int),
	}
}

// Kind returns the terminal id of the token kind name, interning it
// when needed.
func (v *Vocabulary) Kind(name string) int {
	if id, ok := v.kinds[name]; ok {
		return id
	}
	id := len(v.names)
	v.names = append(v.names, name)
	v.kinds[name] = id
	return id
}

// Literal returns the terminal id of the literal lexeme, interning
// it when needed.
func (v *Vocabulary) Literal(lexeme string) int {
	if id, ok := v.literals[lexeme]; ok {
		return id
	}
	id := len(v.names)
	v.names = append(v.names, strconv.Quote(lexeme))
	v.literals[lexeme] = id
	return id
}

// Classify picks the terminal id of a lexed token.  A literal
// terminal for the exact lexeme wins over the token kind, so keywords
// lexed as identifiers still match their literal.
func (v *Vocabulary) Classify(kind, lexeme string) int {
	if id, ok := v.literals[lexeme]; ok {
		return id
	}
	if id, ok := v.kinds[kind]; ok {
		return id
	}
	return token.Invalid
}

// Name returns a printable name for the terminal id.
func (v *Vocabulary) Name(id int) string {
	if id >= 0 && id < len(v.names) {
		return v.names[id]
	}
	return "#" + strconv.Itoa(id)
}

// Len returns the number of interned terminals.
func (v *Vocabulary) Len() int { return len(v.names) }

// Literals returns the interned literal lexemes, sorted.
func (v *Vocabulary) Literals() []string {
	out := make([]string, 0, len(v.literals))
	for lit := range v.literals {
		out = append(out, lit)
	}
	sort.Strings(out)
	return out
}

// Kinds returns the interned token kinds, sorted.
func (v *Vocabulary) Kinds() []string {
	out := make([]string, 0, len(v.kinds))
	for kind := range v.kinds {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}
