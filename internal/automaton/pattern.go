package automaton

import "slices"

// Pattern describes a regular language. Patterns are compiled to an
// NFA with Thompson's construction.
type Pattern interface {
	compile(b *builder) fragment
}

// fragment is a partially built NFA with one entry and one exit state.
type fragment struct {
	start, end State
}

type builder struct {
	nfa    *NFA
	symbol map[rune]bool
}

func (b *builder) state() State {
	s := State(len(b.nfa.States))
	b.nfa.States = append(b.nfa.States, s)
	return s
}

func (b *builder) edge(from State, r rune, to State) {
	e := Edge{from, r}
	b.nfa.Transitions[e] = append(b.nfa.Transitions[e], to)
	if r != Epsilon && !b.symbol[r] {
		b.symbol[r] = true
		b.nfa.Alphabet = append(b.nfa.Alphabet, r)
	}
}

// Compile builds an NFA accepting the language of p.
func Compile(p Pattern) *NFA {
	b := &builder{
		nfa:    &NFA{Transitions: make(map[Edge][]State)},
		symbol: make(map[rune]bool),
	}
	f := p.compile(b)
	b.nfa.Start = f.start
	b.nfa.Finals = []State{f.end}
	slices.Sort(b.nfa.Alphabet)
	return b.nfa
}

type literal string

// Literal matches s exactly.
func Literal(s string) Pattern { return literal(s) }

func (l literal) compile(b *builder) fragment {
	start := b.state()
	cur := start
	for _, r := range string(l) {
		next := b.state()
		b.edge(cur, r, next)
		cur = next
	}
	return fragment{start, cur}
}

type charSet []rune

// OneOf matches a single rune from chars.
func OneOf(chars string) Pattern { return charSet([]rune(chars)) }

// Range matches a single rune between lo and hi inclusive.
func Range(lo, hi rune) Pattern {
	set := make(charSet, 0, hi-lo+1)
	for r := lo; r <= hi; r++ {
		set = append(set, r)
	}
	return set
}

// AnyExcept matches a single rune that is not in excluded. Every ASCII
// rune is listed explicitly; non-ASCII runes take the Other transition.
func AnyExcept(excluded string) Pattern {
	skip := make(map[rune]bool, len(excluded))
	for _, r := range excluded {
		skip[r] = true
	}
	set := charSet{Other}
	for r := rune(0); r < 0x80; r++ {
		if !skip[r] {
			set = append(set, r)
		}
	}
	return set
}

func (c charSet) compile(b *builder) fragment {
	start, end := b.state(), b.state()
	for _, r := range c {
		b.edge(start, r, end)
	}
	return fragment{start, end}
}

type concat []Pattern

// Concat matches each pattern in sequence.
func Concat(ps ...Pattern) Pattern { return concat(ps) }

func (c concat) compile(b *builder) fragment {
	if len(c) == 0 {
		s := b.state()
		return fragment{s, s}
	}
	first := c[0].compile(b)
	end := first.end
	for _, p := range c[1:] {
		f := p.compile(b)
		b.edge(end, Epsilon, f.start)
		end = f.end
	}
	return fragment{first.start, end}
}

type union []Pattern

// Union matches any one of ps.
func Union(ps ...Pattern) Pattern { return union(ps) }

func (u union) compile(b *builder) fragment {
	start, end := b.state(), b.state()
	for _, p := range u {
		f := p.compile(b)
		b.edge(start, Epsilon, f.start)
		b.edge(f.end, Epsilon, end)
	}
	return fragment{start, end}
}

type repeat struct {
	p       Pattern
	min1    bool // at least one
	atMost1 bool // no loop back
}

// Star matches zero or more repetitions of p.
func Star(p Pattern) Pattern { return repeat{p: p} }

// Plus matches one or more repetitions of p.
func Plus(p Pattern) Pattern { return repeat{p: p, min1: true} }

// Optional matches p or the empty string.
func Optional(p Pattern) Pattern { return repeat{p: p, atMost1: true} }

func (r repeat) compile(b *builder) fragment {
	start, end := b.state(), b.state()
	f := r.p.compile(b)
	b.edge(start, Epsilon, f.start)
	b.edge(f.end, Epsilon, end)
	if !r.min1 {
		b.edge(start, Epsilon, end)
	}
	if !r.atMost1 {
		b.edge(f.end, Epsilon, f.start)
	}
	return fragment{start, end}
}
