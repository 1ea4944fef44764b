package parser

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/packrat/grammar"
	"github.com/dhamidi/packrat/memo"
	"github.com/dhamidi/packrat/token"
	"github.com/dhamidi/packrat/tree"
)

// lex turns every non-space rune of input into a token: digits are
// "num" tokens, everything else is a literal.
func lex(g *grammar.Grammar, input string) []token.Token {
	var tokens []token.Token
	pos := token.Position{Line: 1, Column: 1}
	for _, r := range input {
		lexeme := string(r)
		if !unicode.IsSpace(r) {
			kind := "op"
			if unicode.IsDigit(r) {
				kind = "num"
			}
			tokens = append(tokens, token.Token{
				Terminal: g.Vocabulary().Classify(kind, lexeme),
				Kind:     kind,
				Lexeme:   lexeme,
				Position: pos,
			})
		}
		pos = pos.Advance(lexeme)
	}
	return tokens
}

// parse runs g over input and checks that every node allocated by the
// parse was either kept or released exactly once.
func parse(t *testing.T, g *grammar.Grammar, input string, opts ...Option) (*Result, error) {
	t.Helper()
	released := make(map[tree.Node]int)
	opts = append(opts, WithReleaseHook(func(n tree.Node) { released[n]++ }))

	res, err := New(g, opts...).ParseTokens(lex(g, input))
	require.NotNil(t, res)

	st := res.Stats
	assert.Equal(t, st.Allocated, st.Kept+st.Released, "allocated = kept + released")
	assert.Len(t, released, st.Released)
	for n, times := range released {
		assert.Equal(t, 1, times, "%s released more than once", n)
	}
	if res.Root != nil {
		_ = tree.Walk(res.Root, func(n tree.Node) error {
			_, gone := released[n]
			assert.False(t, gone, "%s released but part of the result", n)
			return nil
		})
	} else {
		assert.Zero(t, st.Kept)
	}
	return res, err
}

func lit(g *grammar.Grammar, s string) int { return g.Vocabulary().Literal(s) }

// S := 'a' S 'a' | 'b'
func palindrome() *grammar.Grammar {
	g := grammar.New(0, "S")
	a, b := lit(g, "a"), lit(g, "b")
	g.AddTerminalSymbol(a, true)
	g.AddNonTerminalSymbol(0, true, false)
	g.AddTerminalSymbol(a, true)
	g.AddPhrase()
	g.AddTerminalSymbol(b, true)
	g.AddPhrase()
	g.AddProductionRule(0)
	return g
}

// E := E '+' num | num
func sum() *grammar.Grammar {
	g := grammar.New(0, "E")
	plus, num := lit(g, "+"), g.Vocabulary().Kind("num")
	g.AddNonTerminalSymbol(0, true, false)
	g.AddTerminalSymbol(plus, true)
	g.AddTerminalSymbol(num, true)
	g.AddPhrase()
	g.AddTerminalSymbol(num, true)
	g.AddPhrase()
	g.AddProductionRule(0)
	return g
}

func TestParsePalindrome(t *testing.T) {
	res, err := parse(t, palindrome(), "a a b a a")
	require.NoError(t, err)
	assert.Equal(t, "S(a, S(a, S(b), a), a)", res.Root.String())
	assert.Equal(t, 5, res.Stats.Tokens)
	assert.Equal(t, 8, res.Stats.Kept)
	assert.Zero(t, res.Stats.DirectRecursions)
}

func TestParseBacktracksToNextPhrase(t *testing.T) {
	// S := 'a' 'b' | 'a' 'c'
	g := grammar.New(0, "S")
	a, b, c := lit(g, "a"), lit(g, "b"), lit(g, "c")
	g.AddTerminalSymbol(a, true)
	g.AddTerminalSymbol(b, true)
	g.AddPhrase()
	g.AddTerminalSymbol(a, true)
	g.AddTerminalSymbol(c, true)
	g.AddPhrase()
	g.AddProductionRule(0)

	res, err := parse(t, g, "a c")
	require.NoError(t, err)
	assert.Equal(t, "S(a, c)", res.Root.String())
	assert.Equal(t, 1, res.Stats.Backtracks)
}

func TestParseOrderedChoiceCommits(t *testing.T) {
	// S := A 'c'
	// A := 'a' | 'a' 'b'
	g := grammar.New(0, "S", "A")
	a, b, c := lit(g, "a"), lit(g, "b"), lit(g, "c")
	g.AddNonTerminalSymbol(1, true, false)
	g.AddTerminalSymbol(c, true)
	g.AddPhrase()
	g.AddProductionRule(0)
	g.AddTerminalSymbol(a, true)
	g.AddPhrase()
	g.AddTerminalSymbol(a, true)
	g.AddTerminalSymbol(b, true)
	g.AddPhrase()
	g.AddProductionRule(1)

	res, err := parse(t, g, "a b c")
	require.Error(t, err)
	assert.Nil(t, res.Root)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, `"b"`, perr.Found)
	assert.Equal(t, []string{`"c"`}, perr.Expected)
	assert.Equal(t, 1, perr.Line())
	assert.Equal(t, 3, perr.Column())
	assert.Equal(t, `parse error at 1:3: unexpected "b", expected "c"`, err.Error())
}

func TestParseErrorAtEndOfInput(t *testing.T) {
	_, err := parse(t, palindrome(), "a a b a")

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "end of input", perr.Found)
	assert.Equal(t, []string{`"a"`}, perr.Expected)
	assert.Equal(t, 8, perr.Column())
}

func TestParseTrailingInput(t *testing.T) {
	_, err := parse(t, palindrome(), "b a")

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, `"a"`, perr.Found)
	assert.Equal(t, []string{"end of input"}, perr.Expected)
}

func TestParseDirectLeftRecursion(t *testing.T) {
	res, err := parse(t, sum(), "1+2+3")
	require.NoError(t, err)
	assert.Equal(t, "E(E(E(1), +, 2), +, 3)", res.Root.String())
	assert.Equal(t, 1, res.Stats.DirectRecursions)
	assert.Zero(t, res.Stats.IndirectRecursions)
	assert.Equal(t, 2, res.Stats.Grows)
}

func TestLeftRecursionLeavesResolvedSuccess(t *testing.T) {
	g := sum()
	r := newRun(New(g), token.NewSliceSource(lex(g, "1+2+3")))
	root, err := r.drive()
	require.NoError(t, err)

	e, ok := r.cache.Get(0, 0)
	require.True(t, ok)
	s, ok := e.(*memo.Success)
	require.True(t, ok, "entry is %T", e)
	assert.True(t, s.End.IsEnd())
	assert.False(t, s.LeftRecursive)
	assert.False(t, r.cache.IsLeftRecursive(0, 0))
	assert.Same(t, root, s.Tree)
}

func TestParseLeftRecursionSeedOnly(t *testing.T) {
	res, err := parse(t, sum(), "7")
	require.NoError(t, err)
	assert.Equal(t, "E(7)", res.Root.String())
	assert.Zero(t, res.Stats.Grows)
}

func TestParseLeftRecursionPrefix(t *testing.T) {
	_, err := parse(t, sum(), "1+2+")

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "end of input", perr.Found)
	assert.Equal(t, []string{`num`}, perr.Expected)
}

func TestParseIndirectLeftRecursion(t *testing.T) {
	// P := Q 'x' | 'y'
	// Q := P 'z'
	g := grammar.New(0, "P", "Q")
	x, y, z := lit(g, "x"), lit(g, "y"), lit(g, "z")
	g.AddNonTerminalSymbol(1, true, false)
	g.AddTerminalSymbol(x, true)
	g.AddPhrase()
	g.AddTerminalSymbol(y, true)
	g.AddPhrase()
	g.AddProductionRule(0)
	g.AddNonTerminalSymbol(0, true, false)
	g.AddTerminalSymbol(z, true)
	g.AddPhrase()
	g.AddProductionRule(1)

	res, err := parse(t, g, "y z x")
	require.NoError(t, err)
	assert.Equal(t, "P(Q(P(y), z), x)", res.Root.String())
	assert.Equal(t, 1, res.Stats.IndirectRecursions)
	assert.Zero(t, res.Stats.DirectRecursions)
	assert.Equal(t, 1, res.Stats.Grows)

	res, err = parse(t, g, "y z x z x")
	require.NoError(t, err)
	assert.Equal(t, "P(Q(P(Q(P(y), z), x), z), x)", res.Root.String())
}

func TestParseTreeShaping(t *testing.T) {
	// S := L^ M N O 'x'
	// L := 'a'! 'b'!
	// M := 'c'!
	// N := 'd'! 'e'!
	// O := ε
	g := grammar.New(0, "S", "L", "M", "N", "O")
	a, b, c, d, e, x := lit(g, "a"), lit(g, "b"), lit(g, "c"), lit(g, "d"), lit(g, "e"), lit(g, "x")
	g.AddNonTerminalSymbol(1, false, true)
	g.AddNonTerminalSymbol(2, false, false)
	g.AddNonTerminalSymbol(3, false, false)
	g.AddNonTerminalSymbol(4, false, false)
	g.AddTerminalSymbol(x, false)
	g.AddPhrase()
	g.AddProductionRule(0)
	g.AddTerminalSymbol(a, true)
	g.AddTerminalSymbol(b, true)
	g.AddPhrase()
	g.AddProductionRule(1)
	g.AddTerminalSymbol(c, true)
	g.AddPhrase()
	g.AddProductionRule(2)
	g.AddTerminalSymbol(d, true)
	g.AddTerminalSymbol(e, true)
	g.AddPhrase()
	g.AddProductionRule(3)
	g.AddEpsilonSymbol(false)
	g.AddPhrase()
	g.AddProductionRule(4)

	res, err := parse(t, g, "a b c d e x")
	require.NoError(t, err)
	assert.Equal(t, "S(a, b, c, N(d, e))", res.Root.String())
	// S, N and the five kept terminals
	assert.Equal(t, 7, res.Stats.Kept)
}

func TestParseKeptEpsilon(t *testing.T) {
	// S := 'a' O
	// O := ε!
	g := grammar.New(0, "S", "O")
	g.AddTerminalSymbol(lit(g, "a"), true)
	g.AddNonTerminalSymbol(1, true, false)
	g.AddPhrase()
	g.AddProductionRule(0)
	g.AddEpsilonSymbol(true)
	g.AddPhrase()
	g.AddProductionRule(1)

	res, err := parse(t, g, "a")
	require.NoError(t, err)
	assert.Equal(t, "S(a, O(ε))", res.Root.String())

	eps, ok := res.Root.Children[1].(*tree.Branch).Children[0].(*tree.Epsilon)
	require.True(t, ok)
	assert.Equal(t, 2, eps.Position.Column)
}

func TestParseNoInput(t *testing.T) {
	res, err := parse(t, palindrome(), "  ")
	require.ErrorIs(t, err, ErrNoInput)
	assert.Nil(t, res.Root)
	assert.Zero(t, res.Stats.Allocated)
}

// S := 'a' S | 'a'
func rightRecursive() *grammar.Grammar {
	g := grammar.New(0, "S")
	a := lit(g, "a")
	g.AddTerminalSymbol(a, true)
	g.AddNonTerminalSymbol(0, true, false)
	g.AddPhrase()
	g.AddTerminalSymbol(a, true)
	g.AddPhrase()
	g.AddProductionRule(0)
	return g
}

func TestParseDepthCeiling(t *testing.T) {
	input := strings.Repeat("a", 10)

	_, err := parse(t, rightRecursive(), input, WithMaxDepth(5))
	require.ErrorIs(t, err, ErrDepthExceeded)
	var derr *DepthError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, 5, derr.Max)
	assert.Equal(t, "S", derr.Production)

	res, err := parse(t, rightRecursive(), input, WithMaxDepth(0))
	require.NoError(t, err)
	// the innermost S is tried, and fails, at the end of input
	assert.Equal(t, 11, res.Stats.MaxDepth)
}

func TestParseMemoBound(t *testing.T) {
	// S := A 'x' | A 'y'
	// A := 'a' A | 'a'
	g := grammar.New(0, "S", "A")
	a, x, y := lit(g, "a"), lit(g, "x"), lit(g, "y")
	g.AddNonTerminalSymbol(1, true, false)
	g.AddTerminalSymbol(x, true)
	g.AddPhrase()
	g.AddNonTerminalSymbol(1, true, false)
	g.AddTerminalSymbol(y, true)
	g.AddPhrase()
	g.AddProductionRule(0)
	g.AddTerminalSymbol(a, true)
	g.AddNonTerminalSymbol(1, true, false)
	g.AddPhrase()
	g.AddTerminalSymbol(a, true)
	g.AddPhrase()
	g.AddProductionRule(1)

	input := strings.Repeat("a ", 20) + "y"
	res, err := parse(t, g, input)
	require.NoError(t, err)

	st := res.Stats
	assert.LessOrEqual(t, st.Pushes, g.Len()*(st.Tokens+1))
	assert.Positive(t, st.CacheHits)
	assert.LessOrEqual(t, st.CacheHits, st.CacheLookups)
}

func TestParserReuse(t *testing.T) {
	g := palindrome()
	p := New(g)
	for _, input := range []string{"b", "a b a", "a a b a a"} {
		res, err := p.ParseTokens(lex(g, input))
		require.NoError(t, err, input)
		assert.Equal(t, strings.Count(input, " ")+1, res.Stats.Tokens)
	}
}

func TestParseTrace(t *testing.T) {
	res, err := parse(t, sum(), "1+2", WithTrace())
	require.NoError(t, err)
	assert.Equal(t, "E(E(1), +, 2)", res.Root.String())
}

func TestActions(t *testing.T) {
	g := sum()
	res, err := parse(t, g, "1+2+3")
	require.NoError(t, err)

	values := make(map[*tree.Branch]int)
	number := func(n tree.Node) (int, error) {
		return strconv.Atoi(n.(*tree.Terminal).Token.Lexeme)
	}
	actions := NewActions(g)
	require.NoError(t, actions.SetByName("E", func(b *tree.Branch) error {
		last, err := number(b.Children[len(b.Children)-1])
		if err != nil {
			return err
		}
		if len(b.Children) == 3 {
			last += values[b.Children[0].(*tree.Branch)]
		}
		values[b] = last
		return nil
	}))
	require.NoError(t, actions.Run(res.Root))
	assert.Equal(t, 6, values[res.Root])

	assert.Error(t, actions.SetByName("F", nil))

	boom := errors.New("boom")
	actions.Set(0, func(*tree.Branch) error { return boom })
	err = actions.Run(res.Root)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "action E: boom", err.Error())
}
