package tree

import "github.com/dhamidi/packrat/token"

// Walk visits n and its descendants in post-order.  Trees built by
// the parser never share nodes, so each node is visited once.
func Walk(n Node, fn func(Node) error) error {
	if b, ok := n.(*Branch); ok {
		for _, child := range b.Children {
			if err := Walk(child, fn); err != nil {
				return err
			}
		}
	}
	return fn(n)
}

// Count returns the number of distinct nodes reachable from n.
func Count(n Node) int {
	seen := make(map[Node]struct{})
	_ = Walk(n, func(n Node) error {
		seen[n] = struct{}{}
		return nil
	})
	return len(seen)
}

// Span returns where n starts and ends in the input.  A branch spans
// from its first to its last leaf; ok is false for a branch without
// leaves.
func Span(n Node) (start, end token.Position, ok bool) {
	switch n := n.(type) {
	case *Terminal:
		return n.Token.Position, n.Token.End(), true
	case *Epsilon:
		return n.Position, n.Position, true
	case *Branch:
		for _, child := range n.Children {
			if start, _, ok = Span(child); ok {
				break
			}
		}
		if !ok {
			return start, end, false
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			if _, end, ok = Span(n.Children[i]); ok {
				break
			}
		}
		return start, end, true
	}
	return start, end, false
}
