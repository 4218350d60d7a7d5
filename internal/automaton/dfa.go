package automaton

import (
	"fmt"
	"io"
	"slices"
	"unicode/utf8"
)

// DFA is a deterministic finite automaton produced by subset
// construction. State 0 is the start state.
type DFA struct {
	states   []dfaState
	alphabet map[rune]bool
}

type dfaState struct {
	set   StateSet // underlying NFA states
	final bool
	next  map[rune]int
}

// SubsetConstruction converts nfa into an equivalent DFA. It fails only
// if the NFA does not pass [NFA.Validate].
func SubsetConstruction(nfa *NFA) (*DFA, error) {
	if err := nfa.Validate(); err != nil {
		return nil, err
	}

	alphabet := slices.Clone(nfa.Alphabet)
	slices.Sort(alphabet)
	alphabet = slices.Compact(alphabet)
	finals := NewStateSet(nfa.Finals...)

	d := &DFA{alphabet: make(map[rune]bool, len(alphabet))}
	for _, r := range alphabet {
		d.alphabet[r] = true
	}

	ids := make(map[string]int)
	register := func(set StateSet) int {
		id := len(d.states)
		ids[set.Key()] = id
		d.states = append(d.states, dfaState{
			set:   set,
			final: set.Intersects(finals),
			next:  make(map[rune]int),
		})
		return id
	}

	unmarked := []int{register(nfa.EpsilonClosure(NewStateSet(nfa.Start)))}
	for len(unmarked) > 0 {
		id := unmarked[0]
		unmarked = unmarked[1:]
		set := d.states[id].set
		for _, r := range alphabet {
			target := nfa.EpsilonClosure(nfa.Move(set, r))
			if len(target) == 0 {
				continue
			}
			to, ok := ids[target.Key()]
			if !ok {
				to = register(target)
				unmarked = append(unmarked, to)
			}
			d.states[id].next[r] = to
		}
	}
	return d, nil
}

// MustSubsetConstruction is like SubsetConstruction but panics on a
// malformed NFA. It is intended for static definitions.
func MustSubsetConstruction(nfa *NFA) *DFA {
	d, err := SubsetConstruction(nfa)
	if err != nil {
		panic(err)
	}
	return d
}

// NumStates returns the number of DFA states.
func (d *DFA) NumStates() int {
	return len(d.states)
}

// Set returns the NFA states that make up DFA state id.
func (d *DFA) Set(id int) StateSet {
	return d.states[id].set
}

// IsFinal reports whether DFA state id accepts.
func (d *DFA) IsFinal(id int) bool {
	return d.states[id].final
}

// Step returns the successor of state id on r. Runes outside the
// alphabet follow the Other transition when there is one.
func (d *DFA) Step(id int, r rune) (int, bool) {
	if !d.alphabet[r] {
		r = Other
	}
	to, ok := d.states[id].next[r]
	return to, ok
}

// Accepts reports whether the DFA accepts all of input.
func (d *DFA) Accepts(input string) bool {
	state := 0
	for _, r := range input {
		next, ok := d.Step(state, r)
		if !ok {
			return false
		}
		state = next
	}
	return d.states[state].final
}

// LongestMatch runs the DFA over input as far as transitions allow and
// returns the byte length of the longest accepted prefix. A result of
// zero means no non-empty prefix is accepted.
func (d *DFA) LongestMatch(input string) int {
	state, last := 0, 0
	for offset := 0; offset < len(input); {
		r, size := utf8.DecodeRuneInString(input[offset:])
		next, ok := d.Step(state, r)
		if !ok {
			break
		}
		state = next
		offset += size
		if d.states[state].final {
			last = offset
		}
	}
	return last
}

// Format writes a readable transition listing.
func (d *DFA) Format(w io.Writer) error {
	for id, s := range d.states {
		mark := " "
		if s.final {
			mark = "*"
		}
		if _, err := fmt.Fprintf(w, "%sD%d %s\n", mark, id, s.set); err != nil {
			return err
		}
		symbols := make([]rune, 0, len(s.next))
		for r := range s.next {
			symbols = append(symbols, r)
		}
		slices.Sort(symbols)
		for _, r := range symbols {
			if _, err := fmt.Fprintf(w, "    %s -> D%d\n", SymbolString(r), s.next[r]); err != nil {
				return err
			}
		}
	}
	return nil
}
