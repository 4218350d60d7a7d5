// Package automaton builds deterministic finite automata from
// nondeterministic ones by subset construction.
//
// Token classes are declared as [Pattern] values, compiled to an [NFA]
// with Thompson's construction, then determinized once with
// [SubsetConstruction]. The resulting [DFA] is immutable and safe for
// concurrent use.
package automaton

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// State identifies a state within one automaton.
type State int

const (
	// Epsilon labels a transition that consumes no input.
	Epsilon rune = -1

	// Other labels a transition taken on any rune that is not
	// otherwise part of the automaton's alphabet.
	Other rune = -2
)

// Edge is the key of the NFA transition relation.
type Edge struct {
	From   State
	Symbol rune
}

// NFA is a nondeterministic finite automaton with ε-transitions.
type NFA struct {
	States      []State
	Alphabet    []rune // input symbols, Epsilon excluded
	Transitions map[Edge][]State
	Start       State
	Finals      []State
}

// Error reports a malformed automaton.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return "automaton: " + e.Message
}

func errorf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// Validate checks that every state referenced by the start state, a
// transition or the final set is declared, and that every transition
// symbol belongs to the alphabet.
func (n *NFA) Validate() error {
	declared := make(map[State]bool, len(n.States))
	for _, s := range n.States {
		declared[s] = true
	}
	symbols := make(map[rune]bool, len(n.Alphabet))
	for _, r := range n.Alphabet {
		if r == Epsilon {
			return errorf("epsilon must not be part of the alphabet")
		}
		symbols[r] = true
	}

	if !declared[n.Start] {
		return errorf("start state %d is not declared", n.Start)
	}
	for _, f := range n.Finals {
		if !declared[f] {
			return errorf("final state %d is not declared", f)
		}
	}
	// Sorted so that the reported error is stable.
	edges := make([]Edge, 0, len(n.Transitions))
	for e := range n.Transitions {
		edges = append(edges, e)
	}
	slices.SortFunc(edges, func(a, b Edge) int {
		if a.From != b.From {
			return int(a.From - b.From)
		}
		return int(a.Symbol - b.Symbol)
	})
	for _, e := range edges {
		if !declared[e.From] {
			return errorf("transition from undeclared state %d on %s", e.From, SymbolString(e.Symbol))
		}
		if e.Symbol != Epsilon && !symbols[e.Symbol] {
			return errorf("transition from %d on %s: symbol not in alphabet", e.From, SymbolString(e.Symbol))
		}
		for _, to := range n.Transitions[e] {
			if !declared[to] {
				return errorf("transition %d --%s--> %d targets an undeclared state", e.From, SymbolString(e.Symbol), to)
			}
		}
	}
	return nil
}

// EpsilonClosure returns every state reachable from states using only
// ε-transitions, states included.
func (n *NFA) EpsilonClosure(states StateSet) StateSet {
	seen := make(map[State]bool, len(states))
	stack := make([]State, 0, len(states))
	for _, s := range states {
		if !seen[s] {
			seen[s] = true
			stack = append(stack, s)
		}
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, t := range n.Transitions[Edge{s, Epsilon}] {
			if !seen[t] {
				seen[t] = true
				stack = append(stack, t)
			}
		}
	}
	return setOf(seen)
}

// Move returns the states reachable from states by exactly one
// transition on symbol. Moving on Epsilon yields the empty set.
func (n *NFA) Move(states StateSet, symbol rune) StateSet {
	if symbol == Epsilon {
		return nil
	}
	seen := make(map[State]bool)
	for _, s := range states {
		for _, t := range n.Transitions[Edge{s, symbol}] {
			seen[t] = true
		}
	}
	return setOf(seen)
}

// Accepts simulates the NFA directly on input.
func (n *NFA) Accepts(input string) bool {
	alphabet := make(map[rune]bool, len(n.Alphabet))
	for _, r := range n.Alphabet {
		alphabet[r] = true
	}
	current := n.EpsilonClosure(NewStateSet(n.Start))
	for _, r := range input {
		if !alphabet[r] {
			r = Other
		}
		current = n.EpsilonClosure(n.Move(current, r))
		if len(current) == 0 {
			return false
		}
	}
	return current.Intersects(NewStateSet(n.Finals...))
}

// StateSet is a sorted set of NFA states without duplicates.
type StateSet []State

// NewStateSet returns the canonical set holding states.
func NewStateSet(states ...State) StateSet {
	set := slices.Clone(states)
	slices.Sort(set)
	return slices.Compact(set)
}

func setOf(m map[State]bool) StateSet {
	set := make(StateSet, 0, len(m))
	for s := range m {
		set = append(set, s)
	}
	slices.Sort(set)
	return set
}

// Contains reports whether s is a member of the set.
func (set StateSet) Contains(s State) bool {
	_, found := slices.BinarySearch(set, s)
	return found
}

// Intersects reports whether both sets share a member.
func (set StateSet) Intersects(other StateSet) bool {
	i, j := 0, 0
	for i < len(set) && j < len(other) {
		switch {
		case set[i] == other[j]:
			return true
		case set[i] < other[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// Key returns a string that identifies the set; equal sets have equal keys.
func (set StateSet) Key() string {
	var sb strings.Builder
	for i, s := range set {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(s)))
	}
	return sb.String()
}

func (set StateSet) String() string {
	return "{" + set.Key() + "}"
}

// SymbolString formats a transition symbol for diagnostics.
func SymbolString(r rune) string {
	switch r {
	case Epsilon:
		return "ε"
	case Other:
		return "<other>"
	}
	return strconv.QuoteRune(r)
}
