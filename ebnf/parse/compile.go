// Package parse compiles EBNF grammars for the packrat parser and
// parses input with them.
//
// Syntactic productions (lowercase names) reachable from the start
// production become grammar productions.  Lexical productions
// (uppercase names) are token kinds matched by the ebnflex lexer and
// referenced as terminals, and quoted strings are literal terminals.
// Groups, options and repetitions become synthetic productions whose
// children are raised into the referencing node, so they never show
// up in the tree:
//
//	(x)  G := x
//	[x]  O := x | ε
//	{x}  R := R x | ε
//
// Repetitions are left recursive so long lists grow a seed instead of
// nesting frames.
package parse

import (
	"fmt"
	"sort"
	"strings"
	"text/scanner"

	"github.com/tliron/commonlog"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/packrat/ebnflex"
	"github.com/dhamidi/packrat/grammar"
)

var log = commonlog.GetLogger("packrat.ebnf")

// Options select how an EBNF grammar is compiled.
type Options struct {
	// Start is the name of the start production.
	Start string

	// Keep lists productions whose nodes are always kept, even when
	// they have a single child or none.
	Keep []string

	// Raise lists productions whose children are spliced into the
	// parent instead of getting a node of their own.
	Raise []string

	// Drop lists literal lexemes left out of the tree, such as
	// punctuation.
	Drop []string

	// Skip lists token kinds the lexer discards.
	Skip []string
}

// Problem is one error found while compiling a grammar.
type Problem struct {
	Pos scanner.Position
	Msg string
}

func (p Problem) String() string {
	if p.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", p.Pos, p.Msg)
	}
	return p.Msg
}

// GrammarError lists every problem found in a grammar.
type GrammarError struct {
	Problems []Problem
}

func (e *GrammarError) Error() string {
	lines := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		lines[i] = p.String()
	}
	return strings.Join(lines, "\n")
}

type symbolKind int

const (
	epsilonSymbol symbolKind = iota
	productionSymbol
	kindSymbol
	literalSymbol
)

type symbol struct {
	kind       symbolKind
	production int
	text       string
	keep       bool
	raise      bool
}

type rule struct {
	name    string
	phrases [][]symbol
}

type compiler struct {
	src   ebnf.Grammar
	opts  Options
	keep  map[string]bool
	raise map[string]bool
	drop  map[string]bool

	ids   map[string]int
	rules []*rule

	problems []Problem
}

func set(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func (c *compiler) errorf(pos scanner.Position, format string, args ...any) {
	c.problems = append(c.problems, Problem{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// Compile turns src into a grammar.  Every problem found is reported
// in a *GrammarError.
func Compile(src ebnf.Grammar, opts Options) (*Language, error) {
	c := &compiler{
		src:   src,
		opts:  opts,
		keep:  set(opts.Keep),
		raise: set(opts.Raise),
		drop:  set(opts.Drop),
		ids:   make(map[string]int),
	}

	start, ok := src[opts.Start]
	switch {
	case opts.Start == "":
		c.errorf(scanner.Position{}, "no start production")
	case !ok:
		c.errorf(scanner.Position{}, "start production %s is not defined", opts.Start)
	case ebnflex.IsLexical(opts.Start):
		c.errorf(start.Pos(), "start production %s is lexical", opts.Start)
	}
	for _, name := range append(append([]string{}, opts.Keep...), opts.Raise...) {
		if _, ok := src[name]; !ok {
			c.errorf(scanner.Position{}, "no production named %s", name)
		}
	}
	if len(c.problems) > 0 {
		return nil, &GrammarError{Problems: c.problems}
	}

	for _, name := range c.reachable(opts.Start) {
		c.ids[name] = len(c.rules)
		c.rules = append(c.rules, &rule{name: name})
	}
	// synthetic rules are appended while compiling
	for id := 0; id < len(c.ids); id++ {
		r := c.rules[id]
		r.phrases = c.alternatives(r.name, c.src[r.name].Expr)
	}
	if len(c.problems) > 0 {
		return nil, &GrammarError{Problems: c.problems}
	}

	g := c.build()
	log.Debugf("compiled %d productions (%d synthetic) from %s",
		g.Len(), g.Len()-len(c.ids), opts.Start)
	return &Language{
		Lexicon: src,
		Grammar: g,
		Skip:    opts.Skip,
	}, nil
}

// reachable returns the syntactic productions reachable from start
// through syntactic references, start first and the rest sorted.
// Productions only used by lexical ones are lexer helpers.
func (c *compiler) reachable(start string) []string {
	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		walk(c.src[name].Expr, func(n *ebnf.Name) {
			if ebnflex.IsLexical(n.String) || seen[n.String] {
				return
			}
			seen[n.String] = true
			if _, ok := c.src[n.String]; ok {
				queue = append(queue, n.String)
			}
		})
	}
	var names []string
	for name := range seen {
		if _, ok := c.src[name]; ok && name != start {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return append([]string{start}, names...)
}

func walk(expr ebnf.Expression, fn func(*ebnf.Name)) {
	switch e := expr.(type) {
	case ebnf.Alternative:
		for _, x := range e {
			walk(x, fn)
		}
	case ebnf.Sequence:
		for _, x := range e {
			walk(x, fn)
		}
	case *ebnf.Group:
		walk(e.Body, fn)
	case *ebnf.Option:
		walk(e.Body, fn)
	case *ebnf.Repetition:
		walk(e.Body, fn)
	case *ebnf.Name:
		fn(e)
	}
}

// alternatives compiles expr into the phrases of the production
// named owner.
func (c *compiler) alternatives(owner string, expr ebnf.Expression) [][]symbol {
	switch e := expr.(type) {
	case nil:
		return [][]symbol{{{kind: epsilonSymbol}}}
	case ebnf.Alternative:
		var phrases [][]symbol
		for _, alt := range e {
			phrases = append(phrases, c.alternatives(owner, alt)...)
		}
		return phrases
	case ebnf.Sequence:
		phrase := make([]symbol, 0, len(e))
		for _, item := range e {
			phrase = append(phrase, c.symbol(owner, item))
		}
		return [][]symbol{phrase}
	default:
		return [][]symbol{{c.symbol(owner, e)}}
	}
}

// symbol compiles a single item of a phrase.
func (c *compiler) symbol(owner string, expr ebnf.Expression) symbol {
	switch e := expr.(type) {
	case *ebnf.Name:
		if _, ok := c.src[e.String]; !ok {
			c.errorf(e.Pos(), "%s is not defined", e.String)
			return symbol{kind: epsilonSymbol}
		}
		if ebnflex.IsLexical(e.String) {
			return symbol{kind: kindSymbol, text: e.String, keep: true}
		}
		return symbol{
			kind:       productionSymbol,
			production: c.ids[e.String],
			keep:       c.keep[e.String],
			raise:      c.raise[e.String],
		}

	case *ebnf.Token:
		if e.String == "" {
			c.errorf(e.Pos(), "empty literal in %s", owner)
			return symbol{kind: epsilonSymbol}
		}
		return symbol{kind: literalSymbol, text: e.String, keep: !c.drop[e.String]}

	case *ebnf.Group:
		return c.synthetic(owner, c.alternatives(owner, e.Body))

	case *ebnf.Option:
		phrases := c.alternatives(owner, e.Body)
		return c.synthetic(owner, append(phrases, []symbol{{kind: epsilonSymbol}}))

	case *ebnf.Repetition:
		id := c.reserve(owner)
		self := symbol{kind: productionSymbol, production: id, raise: true}
		var phrases [][]symbol
		for _, p := range c.alternatives(owner, e.Body) {
			phrases = append(phrases, append([]symbol{self}, p...))
		}
		c.rules[id].phrases = append(phrases, []symbol{{kind: epsilonSymbol}})
		return self

	case *ebnf.Range:
		c.errorf(e.Pos(), "character range in syntactic production %s", owner)

	case ebnf.Alternative, ebnf.Sequence:
		return c.synthetic(owner, c.alternatives(owner, e))

	default:
		c.errorf(expr.Pos(), "unsupported expression %T in %s", expr, owner)
	}
	return symbol{kind: epsilonSymbol}
}

// reserve adds an empty synthetic rule named after owner.
func (c *compiler) reserve(owner string) int {
	id := len(c.rules)
	c.rules = append(c.rules, &rule{name: fmt.Sprintf("%s.%d", owner, id)})
	return id
}

func (c *compiler) synthetic(owner string, phrases [][]symbol) symbol {
	id := c.reserve(owner)
	c.rules[id].phrases = phrases
	return symbol{kind: productionSymbol, production: id, raise: true}
}

// build replays the compiled rules through the grammar builder.
func (c *compiler) build() *grammar.Grammar {
	names := make([]string, len(c.rules))
	for id, r := range c.rules {
		names[id] = r.name
	}
	g := grammar.New(0, names...)
	v := g.Vocabulary()
	for id, r := range c.rules {
		for _, phrase := range r.phrases {
			for _, s := range phrase {
				switch s.kind {
				case epsilonSymbol:
					g.AddEpsilonSymbol(s.keep)
				case productionSymbol:
					g.AddNonTerminalSymbol(s.production, s.keep, s.raise)
				case kindSymbol:
					g.AddTerminalSymbol(v.Kind(s.text), s.keep)
				case literalSymbol:
					g.AddTerminalSymbol(v.Literal(s.text), s.keep)
				}
			}
			g.AddPhrase()
		}
		g.AddProductionRule(id)
	}
	g.Lock()
	return g
}
