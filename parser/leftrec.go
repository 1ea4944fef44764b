package parser

import (
	"fmt"

	"github.com/dhamidi/packrat/grammar"
	"github.com/dhamidi/packrat/memo"
	"github.com/dhamidi/packrat/token"
)

// recurse is called when f asks for sym at the position it is already
// pending at: a left recursive call.  The nearest frame running the
// same production from the same terminal becomes the head of the
// recursion.  Its cache entry is marked so that the first match of
// the head is kept as a seed and grown instead of being returned.
func (r *run) recurse(f *frame, sym grammar.NonTerminal) {
	head := f
	for head != nil && !(head.production.ID == sym.Production && head.start == r.cur) {
		head = head.caller
	}
	if head == nil {
		panic(fmt.Sprintf("parser: pending %s at %d has no frame",
			r.g.Production(sym.Production).Name, r.cur.Index))
	}

	r.cache.EnableLeftRecursion(head.production.ID, head.start.Index)
	first := !head.leftRecursive
	head.leftRecursive = true

	if head == f {
		if first {
			r.stats.DirectRecursions++
		}
		return
	}
	if first {
		r.stats.IndirectRecursions++
	}
	if head.involved == nil {
		head.involved = make(map[int]struct{})
	}
	for g := f; g != head; g = g.caller {
		head.involved[g.production.ID] = struct{}{}
	}
	if r.p.trace {
		r.p.log.Debugf("indirect recursion on %s at %d through %d productions",
			head.production.Name, head.start.Index, len(head.involved))
	}
}

// involved reports whether f runs inside a growing left recursion it
// is part of.  Its result depends on the current seed and must not be
// memoized.
func (r *run) involved(f *frame) bool {
	for h := f.caller; h != nil; h = h.caller {
		if !h.leftRecursive || h.start != f.start {
			continue
		}
		if _, ok := h.involved[f.production.ID]; ok {
			return true
		}
	}
	return false
}

// grow is called when a left recursive head matched a whole phrase.
// The first match becomes the seed; every later match that reaches
// farther replaces it.  In both cases the head starts over from its
// first phrase and grow returns true.  A round that does not reach
// farther than the current seed ends the growth.
func (r *run) grow(f *frame) bool {
	e, _ := r.cache.Get(f.production.ID, f.start.Index)
	switch e := e.(type) {
	case *memo.Pending:
		r.cache.StoreSuccess(f.production.ID, f.start.Index, r.cur, f.tree)
	case *memo.Success:
		if r.cur.Index <= e.End.Index {
			return false
		}
		r.cache.StoreSuccess(f.production.ID, f.start.Index, r.cur, f.tree)
		r.stats.Grows++
	default:
		panic(fmt.Sprintf("parser: growing %s at %d over %T", f.production.Name, f.start.Index, e))
	}
	r.restart(f)
	return true
}

// restart runs f again from its first phrase with a fresh tree.
func (r *run) restart(f *frame) {
	f.phrase = 0
	f.next = 0
	f.backtrack = false
	f.tree = r.universe.NewBranch(f.production.ID, f.production.Name, f.production.MaxBranches)
	r.cur = f.start
}

// accept ends the growth of f with the last seed.
func (r *run) accept(f *frame, s *memo.Success) {
	r.cache.DisableLeftRecursion(f.production.ID, f.start.Index)
	if r.involved(f) {
		r.cache.Evict(f.production.ID, f.start.Index)
	}

	caller := f.caller
	if caller == nil {
		if s.End.IsEnd() {
			r.result = s.Tree
			return
		}
		r.reach(s.End, token.Invalid)
		r.stack.pop()
		return
	}
	r.merge(caller, f.symbol, s.Tree)
	caller.next++
	r.stack.pop()
	r.cur = s.End
}
