// Package parser runs a grammar over a token stream and builds the
// reduced parse tree.
//
// The parser is a packrat parser: ordered choice with backtracking
// and a memo table holding one entry per (production, position)
// attempt.  Left recursion, direct or indirect, is handled by growing
// a seed: the first non recursive match of a re-entered production is
// memoized, the production is run again over it, and the loop stops
// when a round consumes no more input than the previous one.
//
// Productions in progress are kept as explicit frames linked to their
// caller, so nesting depth is bounded by WithMaxDepth rather than by
// the Go stack.
package parser

import (
	"github.com/tliron/commonlog"

	"github.com/dhamidi/packrat/grammar"
	"github.com/dhamidi/packrat/token"
	"github.com/dhamidi/packrat/tree"
)

// DefaultMaxDepth is the default ceiling on productions in progress.
const DefaultMaxDepth = 4096

type Option func(*Parser)

// WithMaxDepth sets the most productions that may be in progress at
// once.  Zero or less disables the ceiling.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		p.maxDepth = n
	}
}

// WithTrace logs every state transition of the parse at debug level.
func WithTrace() Option {
	return func(p *Parser) {
		p.trace = true
	}
}

// WithLogger replaces the package logger.
func WithLogger(log commonlog.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// WithReleaseHook is called once for every node discarded at the end
// of a parse.
func WithReleaseHook(fn func(tree.Node)) Option {
	return func(p *Parser) {
		p.release = fn
	}
}

// Parser parses token streams with one grammar.  A Parser may be
// reused for any number of parses, one at a time; every parse owns a
// fresh memo table, stack and universe.
type Parser struct {
	grammar  *grammar.Grammar
	maxDepth int
	trace    bool
	log      commonlog.Logger
	release  func(tree.Node)
}

// New creates a parser for g.  The grammar is locked.
func New(g *grammar.Grammar, opts ...Option) *Parser {
	g.Lock()
	p := &Parser{
		grammar:  g,
		maxDepth: DefaultMaxDepth,
		log:      commonlog.GetLogger("packrat.parser"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Grammar returns the grammar the parser runs.
func (p *Parser) Grammar() *grammar.Grammar { return p.grammar }

// Stats describes the work done by one parse.
type Stats struct {
	Tokens int

	Pushes     int
	Backtracks int
	Cascades   int
	MaxDepth   int

	CacheLookups int
	CacheHits    int

	DirectRecursions   int
	IndirectRecursions int
	Grows              int

	Allocated int
	Kept      int
	Released  int
}

// Result is the outcome of a parse.  Root is nil when the parse
// failed; Stats is always filled in.
type Result struct {
	Root  *tree.Branch
	Stats Stats
}

// Parse pulls every token from src and parses them from the start
// production.  It returns ErrNoInput when src is empty, a *ParseError
// when no complete parse exists and a *DepthError when the depth
// ceiling is hit.
func (p *Parser) Parse(src token.Source) (*Result, error) {
	r := newRun(p, src)
	if r.chain.Len() == 0 {
		r.finalize(nil)
		return &Result{Stats: r.stats}, ErrNoInput
	}

	root, err := r.drive()
	r.finalize(root)
	if err != nil {
		p.log.Infof("parse failed after %d tokens: %s", r.chain.Len(), err)
		return &Result{Stats: r.stats}, err
	}
	p.log.Debugf("parsed %d tokens, %d nodes kept", r.chain.Len(), r.stats.Kept)
	return &Result{Root: root, Stats: r.stats}, nil
}

// ParseTokens parses a slice of tokens.
func (p *Parser) ParseTokens(tokens []token.Token) (*Result, error) {
	return p.Parse(token.NewSliceSource(tokens))
}
