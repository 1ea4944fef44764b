package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/packrat/parser"
	"github.com/dhamidi/packrat/tree"
)

func mustCompile(t *testing.T, filename string, opts Options) *Language {
	t.Helper()
	lang, err := Load(filename, opts)
	require.NoError(t, err)
	return lang
}

func calc(t *testing.T, keep ...string) *Language {
	return mustCompile(t, "testdata/calc.ebnf", Options{
		Start: "expr",
		Keep:  keep,
		Drop:  []string{"(", ")"},
		Skip:  []string{"WhiteSpace", "Comment"},
	})
}

func TestCompileCalc(t *testing.T) {
	lang := calc(t)
	g := lang.Grammar

	require.Equal(t, 2, g.Len())
	assert.Equal(t, "expr", g.Start().Name)
	assert.Equal(t, "term", g.Production(1).Name)
	assert.Equal(t, []int{0}, g.LeftRecursive())
	assert.ElementsMatch(t, []string{"+", "(", ")"}, g.Vocabulary().Literals())
	assert.ElementsMatch(t, []string{"Identifier", "Number"}, g.Vocabulary().Kinds())
}

func TestParseCalc(t *testing.T) {
	for _, test := range []struct {
		Name  string
		Keep  []string
		Input string
		Want  string
	}{
		{
			Name:  "left associative",
			Input: "1 + x + (2)",
			Want:  "expr(expr(1, +, x), +, 2)",
		},
		{
			Name:  "kept terms",
			Keep:  []string{"term"},
			Input: "1 + x",
			Want:  "expr(term(1), +, term(x))",
		},
		{
			Name:  "comments skipped",
			Input: "a # note\n + b",
			Want:  "expr(a, +, b)",
		},
	} {
		t.Run(test.Name, func(t *testing.T) {
			res, err := calc(t, test.Keep...).Parse([]byte(test.Input), "")
			require.NoError(t, err)
			assert.Equal(t, test.Want, res.Root.String())
			assert.Empty(t, res.LexErrors)
		})
	}
}

func TestParseRepetition(t *testing.T) {
	lang := mustCompile(t, "testdata/list.ebnf", Options{
		Start: "list",
		Drop:  []string{"[", "]", ","},
		Skip:  []string{"WhiteSpace"},
	})
	assert.Equal(t, 4, lang.Grammar.Len())

	res, err := lang.Parse([]byte("[1, 2, 3]"), "")
	require.NoError(t, err)
	assert.Equal(t, "list(items(1, 2, 3))", res.Root.String())
	assert.Equal(t, 2, res.Stats.Grows)

	res, err = lang.Parse([]byte("[7]"), "")
	require.NoError(t, err)
	assert.Equal(t, "list(7)", res.Root.String())

	res, err = lang.Parse([]byte("[]"), "")
	require.NoError(t, err)
	assert.Equal(t, "list()", res.Root.String())
}

func TestParseLongRepetitionStaysShallow(t *testing.T) {
	lang := mustCompile(t, "testdata/list.ebnf", Options{
		Start: "list",
		Drop:  []string{"[", "]", ","},
		Skip:  []string{"WhiteSpace"},
	})

	input := "[" + strings.TrimSuffix(strings.Repeat("1,", 500), ",") + "]"
	res, err := lang.Parse([]byte(input), "", parser.WithMaxDepth(16))
	require.NoError(t, err)
	items, ok := res.Root.Children[0].(*tree.Branch)
	require.True(t, ok)
	assert.Equal(t, "items", items.Name)
	assert.Len(t, items.Children, 500)
	assert.LessOrEqual(t, res.Stats.MaxDepth, 5)
}

func TestParseErrors(t *testing.T) {
	lang := calc(t)

	res, err := lang.Parse([]byte("1 + ?"), "in.calc")
	var perr *parser.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, `"?"`, perr.Found)
	assert.Equal(t, "in.calc:1:5", perr.Position.String())
	assert.ElementsMatch(t, []string{`"("`, "Identifier", "Number"}, perr.Expected)
	require.Len(t, res.LexErrors, 1)
	assert.Equal(t, "?", res.LexErrors[0].Lexeme)

	_, err = lang.Parse([]byte("  # nothing here\n"), "")
	require.ErrorIs(t, err, parser.ErrNoInput)
}

func TestParseFile(t *testing.T) {
	res, err := ParseFile(calc(t), "testdata/sum.calc")
	require.NoError(t, err)
	assert.Equal(t, "expr(expr(1, +, x), +, expr(2, +, y))", res.Root.String())

	_, err = ParseFile(calc(t), "testdata/missing.calc")
	require.ErrorContains(t, err, "read input")
}

func TestCompileProblems(t *testing.T) {
	src, err := ebnf.Parse("bad.ebnf", strings.NewReader(`
s = missing "x" | "a" … "z" .
B = "b" .
`))
	require.NoError(t, err)

	for _, test := range []struct {
		Name string
		Opts Options
		Want []string
	}{
		{
			Name: "no start",
			Want: []string{"no start production"},
		},
		{
			Name: "unknown start",
			Opts: Options{Start: "nope"},
			Want: []string{"start production nope is not defined"},
		},
		{
			Name: "lexical start",
			Opts: Options{Start: "B"},
			Want: []string{"start production B is lexical"},
		},
		{
			Name: "unknown keep",
			Opts: Options{Start: "s", Keep: []string{"zzz"}},
			Want: []string{"no production named zzz"},
		},
		{
			Name: "bad references",
			Opts: Options{Start: "s"},
			Want: []string{"missing is not defined", "character range in syntactic production s"},
		},
	} {
		t.Run(test.Name, func(t *testing.T) {
			_, err := Compile(src, test.Opts)
			var gerr *GrammarError
			require.ErrorAs(t, err, &gerr)
			require.Len(t, gerr.Problems, len(test.Want))
			for i, want := range test.Want {
				assert.Contains(t, gerr.Problems[i].Msg, want)
			}
		})
	}
}

func TestCompileProblemPositions(t *testing.T) {
	src, err := ebnf.Parse("bad.ebnf", strings.NewReader("s = t .\nt = u .\n"))
	require.NoError(t, err)

	_, err = Compile(src, Options{Start: "s"})
	require.Error(t, err)
	assert.Equal(t, "bad.ebnf:2:5: u is not defined", err.Error())
}
