package parser

import (
	"github.com/dhamidi/packrat/grammar"
	"github.com/dhamidi/packrat/tree"
)

// frame is one production in progress.  Frames link to their caller
// instead of living on the Go call stack.
type frame struct {
	production *grammar.Production

	// phrase is the alternative being tried, next the index of the
	// next symbol to match within it.  Alternatives after phrase
	// are still untried.
	phrase int
	next   int

	// start is the backtrack point: where every alternative of
	// this attempt begins.
	start *tree.Terminal

	tree   *tree.Branch
	caller *frame

	// symbol is the caller's symbol that pushed this frame.  The
	// root frame has none.
	symbol grammar.NonTerminal

	backtrack bool

	// leftRecursive is set on the frame a left recursive call
	// re-entered.
	leftRecursive bool

	// involved holds the productions standing between this frame
	// and an indirect re-entry.  Their results depend on the seed.
	involved map[int]struct{}
}

func (f *frame) phraseSymbols() grammar.Phrase {
	return f.production.Phrases[f.phrase]
}

func (f *frame) exhausted() bool {
	return f.next >= len(f.phraseSymbols())
}

func (f *frame) canBacktrack() bool {
	return f.phrase+1 < len(f.production.Phrases)
}

// stack keeps the live frames plus a pool of released ones.
type stack struct {
	top   *frame
	free  []*frame
	depth int
	max   int
	peak  int
}

func newStack(max int) *stack {
	return &stack{max: max}
}

// full reports whether pushing another frame would exceed the
// ceiling.
func (s *stack) full() bool {
	return s.max > 0 && s.depth >= s.max
}

// push returns a zeroed frame linked on top of the stack.
func (s *stack) push() *frame {
	if s.full() {
		panic("parser: frame pushed past the depth ceiling")
	}
	var f *frame
	if n := len(s.free); n > 0 {
		f = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		f = &frame{}
	}
	f.caller = s.top
	s.top = f
	s.depth++
	s.peak = max(s.peak, s.depth)
	return f
}

// pop detaches the top frame and returns it to the pool.  The frame
// must not be used afterwards.
func (s *stack) pop() {
	f := s.top
	if f == nil {
		panic("parser: pop on empty stack")
	}
	s.top = f.caller
	s.depth--
	*f = frame{}
	s.free = append(s.free, f)
}
