package tree

import "github.com/dhamidi/packrat/token"

// Universe is the set of nodes allocated during one parse.  Nodes
// leave it only by being kept; whatever remains after a parse is
// garbage and is released once.
type Universe struct {
	nodes     map[Node]struct{}
	allocated int
}

func NewUniverse() *Universe {
	return &Universe{nodes: make(map[Node]struct{})}
}

// Add registers n.  Adding a node twice is a programming error.
func (u *Universe) Add(n Node) {
	if _, ok := u.nodes[n]; ok {
		panic("tree: node registered twice in universe")
	}
	u.nodes[n] = struct{}{}
	u.allocated++
}

// NewBranch allocates and registers an empty branch sized for
// branches children.
func (u *Universe) NewBranch(production int, name string, branches int) *Branch {
	b := &Branch{
		Production: production,
		Name:       name,
		Children:   make([]Node, 0, branches),
	}
	u.Add(b)
	return b
}

// NewEpsilon allocates and registers an epsilon node.
func (u *Universe) NewEpsilon(pos token.Position) *Epsilon {
	e := &Epsilon{Position: pos}
	u.Add(e)
	return e
}

// Keep removes n from the universe and reports whether it was still
// there.
func (u *Universe) Keep(n Node) bool {
	if _, ok := u.nodes[n]; !ok {
		return false
	}
	delete(u.nodes, n)
	return true
}

// Contains reports whether n is still owned by the universe.
func (u *Universe) Contains(n Node) bool {
	_, ok := u.nodes[n]
	return ok
}

// Len returns the number of nodes still owned by the universe.
func (u *Universe) Len() int { return len(u.nodes) }

// Allocated returns the number of nodes ever registered.
func (u *Universe) Allocated() int { return u.allocated }

// Release hands every remaining node to fn, if not nil, empties the
// universe and returns how many nodes were released.
func (u *Universe) Release(fn func(Node)) int {
	n := len(u.nodes)
	for node := range u.nodes {
		if fn != nil {
			fn(node)
		}
	}
	clear(u.nodes)
	return n
}
