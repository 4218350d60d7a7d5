package grammar

// ComputeFirst computes FIRST for every nonterminal of g.
func ComputeFirst(g *Grammar) Sets {
	first := make(Sets, len(g.Nonterminals))
	for _, name := range g.Nonterminals {
		first[name] = make(Set)
	}
	for changed := true; changed; {
		changed = false
		for _, name := range g.Nonterminals {
			for _, p := range g.Productions[name] {
				if first[name].addAllBut(FirstOfSequence(g, first, p), "") {
					changed = true
				}
			}
		}
	}
	return first
}

// FirstOfSequence returns FIRST of a symbol sequence under the current
// FIRST sets. The scan stops at the first symbol that cannot derive ε;
// ε is included only if every symbol can.
func FirstOfSequence(g *Grammar, first Sets, seq []string) Set {
	out := make(Set)
	for _, sym := range seq {
		if !g.IsNonterminal(sym) {
			out.Add(sym)
			return out
		}
		out.addAllBut(first[sym], Epsilon)
		if !first[sym].Has(Epsilon) {
			return out
		}
	}
	out.Add(Epsilon)
	return out
}

// ComputeFollow computes FOLLOW for every nonterminal of g. FOLLOW(start)
// always holds EndMarker.
func ComputeFollow(g *Grammar, first Sets, start string) Sets {
	follow := make(Sets, len(g.Nonterminals))
	for _, name := range g.Nonterminals {
		follow[name] = make(Set)
	}
	if s, ok := follow[start]; ok {
		s.Add(EndMarker)
	}
	for changed := true; changed; {
		changed = false
		for _, name := range g.Nonterminals {
			for _, p := range g.Productions[name] {
				for i, sym := range p {
					if !g.IsNonterminal(sym) {
						continue
					}
					rest := FirstOfSequence(g, first, p[i+1:])
					if follow[sym].addAllBut(rest, Epsilon) {
						changed = true
					}
					if rest.Has(Epsilon) && follow[sym].addAllBut(follow[name], "") {
						changed = true
					}
				}
			}
		}
	}
	return follow
}
