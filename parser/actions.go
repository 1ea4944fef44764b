package parser

import (
	"fmt"

	"github.com/dhamidi/packrat/grammar"
	"github.com/dhamidi/packrat/tree"
)

// Action is run on every branch of a production after its children.
type Action func(*tree.Branch) error

// Actions maps productions to the actions run over an accepted tree.
type Actions struct {
	g   *grammar.Grammar
	fns map[int]Action
}

func NewActions(g *grammar.Grammar) *Actions {
	return &Actions{g: g, fns: make(map[int]Action)}
}

// Set registers fn for production id, replacing any previous action.
// An id outside the grammar panics.
func (a *Actions) Set(id int, fn Action) {
	a.fns[a.g.Production(id).ID] = fn
}

// SetByName registers fn for the production called name.
func (a *Actions) SetByName(name string, fn Action) error {
	for _, p := range a.g.Productions() {
		if p.Name == name {
			a.fns[p.ID] = fn
			return nil
		}
	}
	return fmt.Errorf("no production named %q", name)
}

// Run walks root bottom-up and stops at the first failing action.
func (a *Actions) Run(root tree.Node) error {
	return tree.Walk(root, func(n tree.Node) error {
		b, ok := n.(*tree.Branch)
		if !ok {
			return nil
		}
		fn, ok := a.fns[b.Production]
		if !ok {
			return nil
		}
		if err := fn(b); err != nil {
			return fmt.Errorf("action %s: %w", b.Name, err)
		}
		return nil
	})
}
