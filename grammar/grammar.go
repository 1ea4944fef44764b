// Package grammar holds the static grammar the parser is driven by:
// productions made of ordered phrases made of symbols.
//
// Grammars are assembled with a postfix builder.  Symbols are added
// first, AddPhrase closes them into a phrase, and AddProductionRule
// closes every phrase added since the previous rule into the named
// production:
//
//	g := grammar.New(0, "S")
//	g.AddTerminalSymbol(a, true)
//	g.AddNonTerminalSymbol(0, true, false)
//	g.AddTerminalSymbol(a, true)
//	g.AddPhrase()
//	g.AddTerminalSymbol(b, true)
//	g.AddPhrase()
//	g.AddProductionRule(0)
//	g.Lock()
//
// Calling the builder out of order, or after Lock, panics.
package grammar

import (
	"fmt"
	"strings"
)

// Grammar is a set of productions indexed by id plus the id of the
// start production.
type Grammar struct {
	start       int
	productions []*Production
	vocabulary  *Vocabulary

	// builder state
	symbols []Symbol
	phrases []Phrase
	locked  bool
}

// New creates a grammar with one production slot per name.  Ids are
// the positions of the names.
func New(start int, names ...string) *Grammar {
	if start < 0 || start >= len(names) {
		panic(fmt.Sprintf("grammar: start production %d out of range [0, %d)", start, len(names)))
	}
	g := &Grammar{
		start:       start,
		productions: make([]*Production, len(names)),
		vocabulary:  NewVocabulary(),
	}
	for id, name := range names {
		g.productions[id] = &Production{ID: id, Name: name}
	}
	return g
}

func (g *Grammar) mustBeOpen(op string) {
	if g.locked {
		panic(fmt.Sprintf("grammar: %s called on a locked grammar", op))
	}
}

func (g *Grammar) mustBeProduction(op string, id int) {
	if id < 0 || id >= len(g.productions) {
		panic(fmt.Sprintf("grammar: %s: production %d out of range [0, %d)", op, id, len(g.productions)))
	}
}

// AddNonTerminalSymbol appends a reference to production id to the
// open phrase.
func (g *Grammar) AddNonTerminalSymbol(id int, nonExcludable, raiseChildren bool) {
	g.mustBeOpen("AddNonTerminalSymbol")
	g.mustBeProduction("AddNonTerminalSymbol", id)
	g.symbols = append(g.symbols, NonTerminal{
		Production: id,
		Flags:      Flags{NonExcludable: nonExcludable, RaiseChildren: raiseChildren},
	})
}

// AddTerminalSymbol appends a terminal to the open phrase.
func (g *Grammar) AddTerminalSymbol(id int, nonExcludable bool) {
	g.mustBeOpen("AddTerminalSymbol")
	if id < 0 {
		panic(fmt.Sprintf("grammar: AddTerminalSymbol: invalid terminal id %d", id))
	}
	g.symbols = append(g.symbols, Terminal{
		Token: id,
		Flags: Flags{NonExcludable: nonExcludable},
	})
}

// AddEpsilonSymbol appends an epsilon to the open phrase.
func (g *Grammar) AddEpsilonSymbol(nonExcludable bool) {
	g.mustBeOpen("AddEpsilonSymbol")
	g.symbols = append(g.symbols, Epsilon{Flags: Flags{NonExcludable: nonExcludable}})
}

// AddPhrase closes the symbols added since the previous phrase.
func (g *Grammar) AddPhrase() {
	g.mustBeOpen("AddPhrase")
	if len(g.symbols) == 0 {
		panic("grammar: AddPhrase: empty phrase, add an epsilon symbol instead")
	}
	g.phrases = append(g.phrases, Phrase(g.symbols))
	g.symbols = nil
}

// AddProductionRule closes the phrases added since the previous rule
// into production id.
func (g *Grammar) AddProductionRule(id int) {
	g.mustBeOpen("AddProductionRule")
	g.mustBeProduction("AddProductionRule", id)
	if len(g.symbols) > 0 {
		panic(fmt.Sprintf("grammar: AddProductionRule(%d): %d symbols not closed by AddPhrase", id, len(g.symbols)))
	}
	if len(g.phrases) == 0 {
		panic(fmt.Sprintf("grammar: AddProductionRule(%d): no phrases", id))
	}
	p := g.productions[id]
	if p.defined {
		panic(fmt.Sprintf("grammar: AddProductionRule(%d): production %q defined twice", id, p.Name))
	}
	p.Phrases = g.phrases
	p.defined = true
	for _, phrase := range p.Phrases {
		p.MaxBranches = max(p.MaxBranches, len(phrase))
	}
	g.phrases = nil
}

// Lock freezes the grammar.  Every production must have been defined
// and no symbols or phrases may be left open.
func (g *Grammar) Lock() {
	if g.locked {
		return
	}
	if len(g.symbols) > 0 || len(g.phrases) > 0 {
		panic("grammar: Lock: unclosed symbols or phrases")
	}
	for _, p := range g.productions {
		if !p.defined {
			panic(fmt.Sprintf("grammar: Lock: production %d (%q) never defined", p.ID, p.Name))
		}
	}
	g.locked = true
}

// Locked reports whether Lock was called.
func (g *Grammar) Locked() bool { return g.locked }

// Start returns the start production.
func (g *Grammar) Start() *Production { return g.productions[g.start] }

// Production returns the production with the given id.
func (g *Grammar) Production(id int) *Production {
	g.mustBeProduction("Production", id)
	return g.productions[id]
}

// Productions returns every production ordered by id.
func (g *Grammar) Productions() []*Production { return g.productions }

// Len returns the number of productions.
func (g *Grammar) Len() int { return len(g.productions) }

// Vocabulary returns the terminal names of the grammar.
func (g *Grammar) Vocabulary() *Vocabulary { return g.vocabulary }

// TerminalName returns a printable name for a terminal id.
func (g *Grammar) TerminalName(id int) string { return g.vocabulary.Name(id) }

// SymbolString renders a symbol using production and terminal names.
func (g *Grammar) SymbolString(s Symbol) string {
	var out string
	switch s := s.(type) {
	case NonTerminal:
		out = g.productions[s.Production].Name
	case Terminal:
		out = g.TerminalName(s.Token)
	case Epsilon:
		out = "ε"
	}
	f := s.SymbolFlags()
	if f.NonExcludable {
		out += "!"
	}
	if f.RaiseChildren {
		out += "^"
	}
	return out
}

// String renders the grammar one production per line.  A trailing !
// marks non-excludable symbols and ^ marks raised ones.
func (g *Grammar) String() string {
	var b strings.Builder
	for _, p := range g.productions {
		b.WriteString(p.Name)
		b.WriteString(" :=")
		for i, phrase := range p.Phrases {
			if i > 0 {
				b.WriteString(" |")
			}
			for _, s := range phrase {
				b.WriteString(" ")
				b.WriteString(g.SymbolString(s))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
