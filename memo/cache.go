// Package memo implements the packrat memoization table: one entry
// per (production, position) attempt.
package memo

import (
	"fmt"

	"github.com/dhamidi/packrat/tree"
)

// Entry is the state of an attempt: Failed, *Pending or *Success.
type Entry interface {
	isEntry()
}

// Failed marks a production that does not match at a position.
type Failed struct{}

// Pending marks a production currently being attempted at a
// position.  Finding it on lookup means the production re-entered
// itself without consuming input.
type Pending struct {
	LeftRecursive bool
}

// Success records a match and where it ended.
type Success struct {
	End           *tree.Terminal
	Tree          *tree.Branch
	LeftRecursive bool
}

func (Failed) isEntry()   {}
func (*Pending) isEntry() {}
func (*Success) isEntry() {}

// Key identifies an attempt.  Position is the chain index of the
// first token.
type Key struct {
	Production int
	Position   int
}

// Cache is owned by a single parse.  Invariant violations panic.
type Cache struct {
	entries map[Key]Entry

	lookups int
	hits    int
}

func New() *Cache {
	return &Cache{entries: make(map[Key]Entry)}
}

// StorePending opens the attempt (production, pos).  The key must not
// have been written before.
func (c *Cache) StorePending(production, pos int) {
	k := Key{production, pos}
	if prev, ok := c.entries[k]; ok {
		panic(fmt.Sprintf("memo: pending entry for %v overwrites %T", k, prev))
	}
	c.entries[k] = &Pending{}
}

// StoreSuccess resolves (production, pos) as a match ending at end.
// The entry must be pending, or already successful while a left
// recursive seed grows.  The left recursion bit carries over.
func (c *Cache) StoreSuccess(production, pos int, end *tree.Terminal, t *tree.Branch) {
	k := Key{production, pos}
	var lr bool
	switch e := c.entries[k].(type) {
	case *Pending:
		lr = e.LeftRecursive
	case *Success:
		lr = e.LeftRecursive
	default:
		panic(fmt.Sprintf("memo: success for %v stored over %T", k, e))
	}
	c.entries[k] = &Success{End: end, Tree: t, LeftRecursive: lr}
}

// StoreFailure resolves a pending (production, pos) as a failure.
func (c *Cache) StoreFailure(production, pos int) {
	k := Key{production, pos}
	if _, ok := c.entries[k].(*Pending); !ok {
		panic(fmt.Sprintf("memo: failure for %v stored over %T", k, c.entries[k]))
	}
	c.entries[k] = Failed{}
}

// Evict forgets an unresolved attempt.  It is used for productions
// involved in a left recursion that is still growing: their result
// depends on the seed and must be recomputed on the next round.
func (c *Cache) Evict(production, pos int) {
	k := Key{production, pos}
	switch c.entries[k].(type) {
	case *Pending, *Success:
		delete(c.entries, k)
	default:
		panic(fmt.Sprintf("memo: evicting %v holding %T", k, c.entries[k]))
	}
}

// Get returns the entry for (production, pos).  The boolean is false
// when the attempt was never made.
func (c *Cache) Get(production, pos int) (Entry, bool) {
	c.lookups++
	e, ok := c.entries[Key{production, pos}]
	if ok {
		c.hits++
	}
	return e, ok
}

// IsLeftRecursive reports the left recursion bit of an entry.  Absent
// and failed entries are never left recursive.
func (c *Cache) IsLeftRecursive(production, pos int) bool {
	switch e := c.entries[Key{production, pos}].(type) {
	case *Pending:
		return e.LeftRecursive
	case *Success:
		return e.LeftRecursive
	}
	return false
}

func (c *Cache) EnableLeftRecursion(production, pos int)  { c.setLeftRecursion(production, pos, true) }
func (c *Cache) DisableLeftRecursion(production, pos int) { c.setLeftRecursion(production, pos, false) }

func (c *Cache) setLeftRecursion(production, pos int, v bool) {
	k := Key{production, pos}
	switch e := c.entries[k].(type) {
	case *Pending:
		e.LeftRecursive = v
	case *Success:
		e.LeftRecursive = v
	default:
		panic(fmt.Sprintf("memo: left recursion bit on %v holding %T", k, e))
	}
}

// Len returns the number of entries.
func (c *Cache) Len() int { return len(c.entries) }

// Lookups returns how many times Get was called.
func (c *Cache) Lookups() int { return c.lookups }

// Hits returns how many lookups found an entry.
func (c *Cache) Hits() int { return c.hits }

// Reset empties the cache so it can serve another parse.
func (c *Cache) Reset() {
	clear(c.entries)
	c.lookups = 0
	c.hits = 0
}
