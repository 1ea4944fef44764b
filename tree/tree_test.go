package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/packrat/token"
)

func tokens(lexemes ...string) token.Source {
	var toks []token.Token
	col := 1
	for i, lx := range lexemes {
		toks = append(toks, token.Token{
			Terminal: i,
			Kind:     "Word",
			Lexeme:   lx,
			Position: token.Position{Line: 1, Column: col, Offset: col - 1},
		})
		col += len(lx) + 1
	}
	return token.NewSliceSource(toks)
}

func TestBuildChain(t *testing.T) {
	u := NewUniverse()
	c := BuildChain(tokens("a", "bb", "c"), u)

	require.Equal(t, 3, c.Len())
	require.Equal(t, 3, u.Len())
	require.Equal(t, 3, u.Allocated())

	ts := c.Terminals()
	require.Len(t, ts, 3)
	assert.Equal(t, "a", ts[0].Token.Lexeme)
	assert.Nil(t, ts[0].Prev())
	assert.Equal(t, ts[1], ts[0].Next())
	assert.Equal(t, ts[0], ts[1].Prev())
	assert.Equal(t, 2, ts[2].Index)

	end := ts[2].Next()
	require.True(t, end.IsEnd())
	assert.Equal(t, c.End(), end)
	assert.Equal(t, 3, end.Index)
	assert.Equal(t, ts[2], end.Prev())
	assert.Equal(t, end, end.Next())
	assert.False(t, u.Contains(end))
	assert.Equal(t, token.Position{Line: 1, Column: 7, Offset: 6}, end.Token.Position)
}

func TestBuildChainEmpty(t *testing.T) {
	u := NewUniverse()
	c := BuildChain(tokens(), u)

	assert.Equal(t, 0, c.Len())
	assert.True(t, c.Head().IsEnd())
	assert.Equal(t, 0, u.Len())
}

func TestUniverseKeepAndRelease(t *testing.T) {
	u := NewUniverse()
	c := BuildChain(tokens("x", "y"), u)
	root := u.NewBranch(0, "S", 2)
	dropped := u.NewBranch(1, "T", 1)
	eps := u.NewEpsilon(token.Position{Line: 1, Column: 1})
	x := c.Head()
	root.Append(x)
	root.Append(eps)
	dropped.Append(x)

	require.Equal(t, 5, u.Allocated())

	_ = Walk(root, func(n Node) error {
		u.Keep(n)
		return nil
	})
	assert.False(t, u.Contains(root))
	assert.False(t, u.Contains(x))
	assert.True(t, u.Contains(dropped))
	assert.False(t, u.Keep(root))

	var released []Node
	n := u.Release(func(n Node) { released = append(released, n) })
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []Node{dropped, x.Next()}, released)
	assert.Equal(t, 0, u.Len())
	assert.Equal(t, u.Allocated(), Count(root)+n)
}

func TestUniverseAddTwice(t *testing.T) {
	u := NewUniverse()
	b := u.NewBranch(0, "S", 0)
	assert.Panics(t, func() { u.Add(b) })
}

func TestWalkPostOrder(t *testing.T) {
	u := NewUniverse()
	c := BuildChain(tokens("a", "b", "c"), u)
	ts := c.Terminals()

	inner := u.NewBranch(1, "I", 2)
	inner.Append(ts[1])
	inner.Append(ts[2])
	root := u.NewBranch(0, "R", 2)
	root.Append(ts[0])
	root.Append(inner)

	var order []string
	require.NoError(t, Walk(root, func(n Node) error {
		switch n := n.(type) {
		case *Branch:
			order = append(order, n.Name)
		case *Terminal:
			order = append(order, n.Token.Lexeme)
		}
		return nil
	}))
	assert.Equal(t, []string{"a", "b", "c", "I", "R"}, order)
	assert.Equal(t, "R(a, I(b, c))", root.String())
	assert.Equal(t, 5, Count(root))

	inner.Reset()
	assert.Empty(t, inner.Children)
	assert.Equal(t, "I()", inner.String())
}

func TestSpan(t *testing.T) {
	u := NewUniverse()
	ts := BuildChain(tokens("a", "bb", "c"), u).Terminals()

	inner := u.NewBranch(1, "I", 2)
	inner.Append(ts[1])
	inner.Append(ts[2])
	root := u.NewBranch(0, "R", 3)
	root.Append(u.NewBranch(2, "Empty", 0))
	root.Append(ts[0])
	root.Append(inner)

	start, end, ok := Span(root)
	require.True(t, ok)
	assert.Equal(t, 1, start.Column)
	assert.Equal(t, 7, end.Column)

	start, end, ok = Span(inner)
	require.True(t, ok)
	assert.Equal(t, 3, start.Column)
	assert.Equal(t, 7, end.Column)

	_, _, ok = Span(root.Children[0])
	assert.False(t, ok)
}
