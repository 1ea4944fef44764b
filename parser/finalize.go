package parser

import "github.com/dhamidi/packrat/tree"

// finalize moves the nodes of the accepted tree out of the universe
// and releases everything else: abandoned alternatives, superseded
// seeds, branches elided by merge and unused terminals.
func (r *run) finalize(root *tree.Branch) {
	if root != nil {
		_ = tree.Walk(root, func(n tree.Node) error {
			if r.universe.Keep(n) {
				r.stats.Kept++
			}
			return nil
		})
	}
	r.stats.Released = r.universe.Release(r.p.release)
	r.stats.Allocated = r.universe.Allocated()
	r.stats.CacheLookups = r.cache.Lookups()
	r.stats.CacheHits = r.cache.Hits()
	r.stats.MaxDepth = r.stack.peak
}
