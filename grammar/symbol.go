package grammar

import "fmt"

// Flags are the tree shaping attributes every symbol carries.
type Flags struct {
	// NonExcludable keeps the matched node in the reduced tree even
	// when it would otherwise be pruned.
	NonExcludable bool

	// RaiseChildren splices the children of the matched node into
	// the parent instead of inserting the node itself.
	RaiseChildren bool
}

// Symbol is one element of a phrase: a NonTerminal, a Terminal or an
// Epsilon.  The set is closed; switch on the concrete type.
type Symbol interface {
	SymbolFlags() Flags
	String() string
}

// NonTerminal refers to another production by id.
type NonTerminal struct {
	Production int
	Flags      Flags
}

func (s NonTerminal) SymbolFlags() Flags { return s.Flags }
func (s NonTerminal) String() string     { return fmt.Sprintf("<%d>", s.Production) }

// Terminal matches a single token whose terminal id equals Token.
type Terminal struct {
	Token int
	Flags Flags
}

func (s Terminal) SymbolFlags() Flags { return s.Flags }
func (s Terminal) String() string     { return fmt.Sprintf("#%d", s.Token) }

// Epsilon matches the empty string.
type Epsilon struct {
	Flags Flags
}

func (s Epsilon) SymbolFlags() Flags { return s.Flags }
func (s Epsilon) String() string     { return "ε" }

// Phrase is one alternative of a production: symbols matched in
// order.
type Phrase []Symbol

// Production is an ordered choice between phrases.  The first phrase
// that matches wins.
type Production struct {
	ID      int
	Name    string
	Phrases []Phrase

	// MaxBranches is the largest symbol count among the phrases.
	// It sizes the children of the tree nodes built for this
	// production.
	MaxBranches int

	defined bool
}
