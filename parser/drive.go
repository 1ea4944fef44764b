package parser

import (
	"fmt"
	"sort"

	"github.com/dhamidi/packrat/grammar"
	"github.com/dhamidi/packrat/memo"
	"github.com/dhamidi/packrat/token"
	"github.com/dhamidi/packrat/tree"
)

type state int

const (
	stateMatchSymbol state = iota
	stateBacktrack
	stateCascade
	stateSucceed
	stateDone
	stateParseError
)

var stateNames = map[state]string{
	stateMatchSymbol: "match",
	stateBacktrack:   "backtrack",
	stateCascade:     "cascade",
	stateSucceed:     "succeed",
	stateDone:        "done",
	stateParseError:  "error",
}

func (s state) String() string { return stateNames[s] }

// run is the state of a single parse.
type run struct {
	p        *Parser
	g        *grammar.Grammar
	universe *tree.Universe
	chain    *tree.Chain
	cache    *memo.Cache
	stack    *stack

	cur    *tree.Terminal
	result *tree.Branch

	// farthest is the rightmost terminal a match was attempted on
	// and expected the terminal ids tried there.
	farthest *tree.Terminal
	expected map[int]struct{}

	stats Stats
}

func newRun(p *Parser, src token.Source) *run {
	u := tree.NewUniverse()
	c := tree.BuildChain(src, u)
	return &run{
		p:        p,
		g:        p.grammar,
		universe: u,
		chain:    c,
		cache:    memo.New(),
		stack:    newStack(p.maxDepth),
		cur:      c.Head(),
		expected: make(map[int]struct{}),
		stats:    Stats{Tokens: c.Len()},
	}
}

// drive runs the state machine until the start production spans the
// whole chain or every alternative is exhausted.
func (r *run) drive() (*tree.Branch, error) {
	start := r.g.Start()
	if err := r.push(start, grammar.NonTerminal{Production: start.ID}); err != nil {
		return nil, err
	}

	for {
		st := r.next()
		if r.p.trace {
			r.tracef(st)
		}

		switch st {
		case stateDone:
			return r.result, nil

		case stateParseError:
			return nil, r.parseError()

		case stateBacktrack:
			r.cur = r.backtrack(r.stack.top)

		case stateCascade:
			r.cascade(r.stack.top)

		case stateSucceed:
			r.complete(r.stack.top)

		case stateMatchSymbol:
			if err := r.matchSymbol(r.stack.top); err != nil {
				return nil, err
			}
		}
	}
}

// next decides what the top frame does at the current position.
func (r *run) next() state {
	if r.result != nil {
		return stateDone
	}
	f := r.stack.top
	if f == nil {
		return stateParseError
	}
	if f.backtrack {
		if f.canBacktrack() {
			return stateBacktrack
		}
		return stateCascade
	}
	if !f.exhausted() {
		return stateMatchSymbol
	}
	if f.caller == nil && !f.leftRecursive {
		if r.cur.IsEnd() {
			r.result = f.tree
			return stateDone
		}
		// the start production matched a prefix only
		r.reach(r.cur, token.Invalid)
		f.backtrack = true
		return r.next()
	}
	return stateSucceed
}

func (r *run) tracef(st state) {
	f := r.stack.top
	if f == nil {
		r.p.log.Debugf("%-9s depth=0 cur=%d", st, r.cur.Index)
		return
	}
	r.p.log.Debugf("%-9s depth=%d cur=%d %s[%d.%d]@%d",
		st, r.stack.depth, r.cur.Index, f.production.Name, f.phrase, f.next, f.start.Index)
}

// push opens production at the current position: a new frame on its
// first alternative, an empty tree registered in the universe and a
// pending memo entry.
func (r *run) push(production *grammar.Production, sym grammar.NonTerminal) error {
	if r.stack.full() {
		err := &DepthError{
			Max:        r.stack.max,
			Production: production.Name,
			Position:   r.cur.Token.Position,
		}
		r.p.log.Errorf("aborting parse: %s", err)
		return err
	}
	f := r.stack.push()
	f.production = production
	f.start = r.cur
	f.symbol = sym
	f.tree = r.universe.NewBranch(production.ID, production.Name, production.MaxBranches)
	r.cache.StorePending(production.ID, r.cur.Index)

	r.stats.Pushes++
	return nil
}

// matchSymbol matches the next symbol of f's phrase at the current
// position.
func (r *run) matchSymbol(f *frame) error {
	switch s := f.phraseSymbols()[f.next].(type) {
	case grammar.NonTerminal:
		e, ok := r.cache.Get(s.Production, r.cur.Index)
		if !ok {
			return r.push(r.g.Production(s.Production), s)
		}
		switch e := e.(type) {
		case *memo.Pending:
			r.recurse(f, s)
			f.backtrack = true
		case memo.Failed:
			f.backtrack = true
		case *memo.Success:
			r.merge(f, s, e.Tree)
			f.next++
			r.cur = e.End
		}

	case grammar.Terminal:
		r.reach(r.cur, s.Token)
		if r.cur.IsEnd() || r.cur.Token.Terminal != s.Token {
			f.backtrack = true
			return nil
		}
		if s.Flags.NonExcludable {
			f.tree.Append(r.cur)
		}
		f.next++
		r.cur = r.cur.Next()

	case grammar.Epsilon:
		if s.Flags.NonExcludable {
			f.tree.Append(r.universe.NewEpsilon(r.cur.Token.Position))
		}
		f.next++

	default:
		panic(fmt.Sprintf("parser: unknown symbol type %T", s))
	}
	return nil
}

// merge attaches a production's tree to f's tree as the flags of the
// symbol that matched it say: raised children are spliced in, kept
// nodes are attached whole, and anything else is elided when it has
// a single child or dropped when it has none.
func (r *run) merge(f *frame, sym grammar.NonTerminal, child *tree.Branch) {
	switch {
	case sym.Flags.RaiseChildren:
		for _, c := range child.Children {
			f.tree.Append(c)
		}
	case sym.Flags.NonExcludable:
		f.tree.Append(child)
	case len(child.Children) == 0:
	case len(child.Children) == 1:
		f.tree.Append(child.Children[0])
	default:
		f.tree.Append(child)
	}
}

// succeeded resolves the top frame as a match ending at end, hands
// its tree to the caller and resumes the caller past the symbol that
// pushed it.
func (r *run) succeeded(f *frame, end *tree.Terminal, t *tree.Branch) {
	caller := f.caller
	if r.involved(f) {
		r.cache.Evict(f.production.ID, f.start.Index)
	} else {
		r.cache.StoreSuccess(f.production.ID, f.start.Index, end, t)
	}
	r.merge(caller, f.symbol, t)
	caller.next++
	r.stack.pop()
	r.cur = end
}

// failed resolves the top frame as a failure and flags the caller for
// backtracking.  Failing the root frame empties the stack.
func (r *run) failed(f *frame) {
	caller := f.caller
	if r.involved(f) {
		r.cache.Evict(f.production.ID, f.start.Index)
	} else {
		r.cache.StoreFailure(f.production.ID, f.start.Index)
	}
	r.stack.pop()
	if caller != nil {
		caller.backtrack = true
	}
}

// backtrack moves f to its next alternative and returns the position
// to rewind to.
func (r *run) backtrack(f *frame) *tree.Terminal {
	if !f.canBacktrack() {
		panic("parser: backtrack without alternatives left")
	}
	f.phrase++
	f.next = 0
	f.tree.Reset()
	f.backtrack = false
	r.stats.Backtracks++
	return f.start
}

// cascade handles a frame with every alternative exhausted.  A left
// recursive seed that stopped growing is a success; anything else
// fails upward.
func (r *run) cascade(f *frame) {
	r.stats.Cascades++
	if f.leftRecursive {
		e, _ := r.cache.Get(f.production.ID, f.start.Index)
		if s, ok := e.(*memo.Success); ok && s.LeftRecursive {
			r.accept(f, s)
			return
		}
	}
	r.failed(f)
}

// complete handles a frame that matched its whole phrase.
func (r *run) complete(f *frame) {
	if f.leftRecursive {
		if r.grow(f) {
			return
		}
		e, _ := r.cache.Get(f.production.ID, f.start.Index)
		r.accept(f, e.(*memo.Success))
		return
	}
	r.succeeded(f, r.cur, f.tree)
}

// reach records a terminal match attempt for diagnostics.
func (r *run) reach(t *tree.Terminal, want int) {
	switch {
	case r.farthest == nil || t.Index > r.farthest.Index:
		r.farthest = t
		clear(r.expected)
	case t.Index < r.farthest.Index:
		return
	}
	r.expected[want] = struct{}{}
}

func (r *run) parseError() *ParseError {
	at := r.farthest
	if at == nil {
		at = r.chain.Head()
	}
	err := &ParseError{Position: at.Token.Position, End: at.Token.Position, Found: "end of input"}
	if !at.IsEnd() {
		err.End = at.Token.End()
		err.Found = fmt.Sprintf("%q", at.Token.Lexeme)
	}
	for id := range r.expected {
		name := "end of input"
		if id != token.Invalid {
			name = r.g.TerminalName(id)
		}
		err.Expected = append(err.Expected, name)
	}
	sort.Strings(err.Expected)
	return err
}
