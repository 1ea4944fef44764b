// Package tree holds the parse tree: production branches, terminal
// leaves that double as the token chain, and epsilon leaves.  Every
// node of a parse is allocated through a Universe so the nodes that
// did not make it into the accepted tree can be released in bulk.
package tree

import (
	"strings"

	"github.com/dhamidi/packrat/token"
)

// Node is a parse tree node: *Branch, *Terminal or *Epsilon.
type Node interface {
	String() string
	isNode()
}

// Branch is the node built for a production match.
type Branch struct {
	Production int
	Name       string
	Children   []Node
}

func (*Branch) isNode() {}

// Append attaches child as the last child.
func (b *Branch) Append(child Node) {
	b.Children = append(b.Children, child)
}

// Reset drops every child, keeping the capacity.
func (b *Branch) Reset() {
	clear(b.Children)
	b.Children = b.Children[:0]
}

func (b *Branch) String() string {
	var s strings.Builder
	s.WriteString(b.Name)
	s.WriteByte('(')
	for i, child := range b.Children {
		if i > 0 {
			s.WriteString(", ")
		}
		s.WriteString(child.String())
	}
	s.WriteByte(')')
	return s.String()
}

// Terminal is a token wrapped as a tree node.  Terminals are linked
// in input order and form the token chain the parser walks.
type Terminal struct {
	Token token.Token

	// Index is the position of the token in the chain.  The end
	// sentinel has Index equal to the chain length.
	Index int

	prev, next *Terminal
	end        bool
}

func (*Terminal) isNode() {}

// Next returns the following terminal.  Calling Next on the end
// sentinel returns the sentinel itself.
func (t *Terminal) Next() *Terminal {
	if t.end {
		return t
	}
	return t.next
}

// Prev returns the previous terminal, or nil on the first one.
func (t *Terminal) Prev() *Terminal { return t.prev }

// IsEnd reports whether t is the end-of-chain sentinel.
func (t *Terminal) IsEnd() bool { return t.end }

func (t *Terminal) String() string { return t.Token.Lexeme }

// Epsilon is the node kept for a non-excludable empty match.
type Epsilon struct {
	Position token.Position
}

func (*Epsilon) isNode() {}

func (*Epsilon) String() string { return "ε" }
