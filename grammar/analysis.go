package grammar

// Nullable returns, per production id, whether the production can
// match the empty string.
func (g *Grammar) Nullable() []bool {
	nullable := make([]bool, len(g.productions))
	for changed := true; changed; {
		changed = false
		for _, p := range g.productions {
			if nullable[p.ID] {
				continue
			}
			for _, phrase := range p.Phrases {
				if g.phraseNullable(phrase, nullable) {
					nullable[p.ID] = true
					changed = true
					break
				}
			}
		}
	}
	return nullable
}

func (g *Grammar) phraseNullable(phrase Phrase, nullable []bool) bool {
	for _, s := range phrase {
		switch s := s.(type) {
		case Terminal:
			return false
		case NonTerminal:
			if !nullable[s.Production] {
				return false
			}
		}
	}
	return true
}

// LeftRecursive returns the ids of the productions that can call
// themselves without consuming input, directly or through other
// productions.  It builds the left-call graph, where P calls Q when Q
// appears in a phrase of P preceded only by nullable symbols, and
// reports the productions that reach themselves.
func (g *Grammar) LeftRecursive() []int {
	nullable := g.Nullable()
	calls := make([][]int, len(g.productions))
	for _, p := range g.productions {
		for _, phrase := range p.Phrases {
		symbols:
			for _, s := range phrase {
				switch s := s.(type) {
				case Terminal:
					break symbols
				case NonTerminal:
					calls[p.ID] = append(calls[p.ID], s.Production)
					if !nullable[s.Production] {
						break symbols
					}
				}
			}
		}
	}

	var out []int
	for _, p := range g.productions {
		if reaches(calls, p.ID, p.ID) {
			out = append(out, p.ID)
		}
	}
	return out
}

func reaches(calls [][]int, from, target int) bool {
	seen := make([]bool, len(calls))
	stack := append([]int(nil), calls[from]...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == target {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		stack = append(stack, calls[n]...)
	}
	return false
}
