// Package grammar analyzes context-free grammars for LL(1) parsing.
//
// It computes FIRST and FOLLOW sets by fixed-point iteration, derives
// the predictive parsing table, and rejects grammars in which two
// productions claim the same table cell. The stardust grammar itself is
// defined in [Stardust].
package grammar

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("stardust.grammar")

const (
	// Epsilon marks the empty string in FIRST sets.
	Epsilon = "ε"
	// EndMarker marks end of input in FOLLOW sets and the parse table.
	EndMarker = "$"
)

// Production is the right-hand side of a grammar rule. The empty
// production derives ε.
type Production []string

// P builds a production from symbols.
func P(symbols ...string) Production {
	return Production(symbols)
}

func (p Production) String() string {
	if len(p) == 0 {
		return Epsilon
	}
	return strings.Join(p, " ")
}

// Grammar maps nonterminals to ordered productions. Any symbol that is
// not a nonterminal is a terminal.
type Grammar struct {
	Start        string
	Nonterminals []string // declaration order
	Productions  map[string][]Production
}

// New returns an empty grammar with the given start symbol.
func New(start string) *Grammar {
	return &Grammar{
		Start:       start,
		Productions: make(map[string][]Production),
	}
}

// Add appends productions to nonterminal name.
func (g *Grammar) Add(name string, prods ...Production) *Grammar {
	if _, ok := g.Productions[name]; !ok {
		g.Nonterminals = append(g.Nonterminals, name)
	}
	g.Productions[name] = append(g.Productions[name], prods...)
	return g
}

// IsNonterminal reports whether sym has productions.
func (g *Grammar) IsNonterminal(sym string) bool {
	_, ok := g.Productions[sym]
	return ok
}

// Terminals returns every terminal used by a production, sorted.
func (g *Grammar) Terminals() []string {
	seen := make(Set)
	for _, name := range g.Nonterminals {
		for _, p := range g.Productions[name] {
			for _, sym := range p {
				if !g.IsNonterminal(sym) {
					seen.Add(sym)
				}
			}
		}
	}
	return seen.Sorted()
}

// Validate checks the start symbol and reserved symbols.
func (g *Grammar) Validate() error {
	if !g.IsNonterminal(g.Start) {
		return fmt.Errorf("grammar: start symbol %q has no productions", g.Start)
	}
	for _, name := range g.Nonterminals {
		if name == Epsilon || name == EndMarker {
			return fmt.Errorf("grammar: reserved symbol %q used as a nonterminal", name)
		}
		if len(g.Productions[name]) == 0 {
			return fmt.Errorf("grammar: nonterminal %s has no productions", name)
		}
		for _, p := range g.Productions[name] {
			if slices.Contains(p, Epsilon) || slices.Contains(p, EndMarker) {
				return fmt.Errorf("grammar: production %s -> %s uses a reserved symbol", name, p)
			}
		}
	}
	return nil
}

// Set is a set of grammar symbols.
type Set map[string]struct{}

// Add inserts sym and reports whether it was new.
func (s Set) Add(sym string) bool {
	if _, ok := s[sym]; ok {
		return false
	}
	s[sym] = struct{}{}
	return true
}

// Has reports membership.
func (s Set) Has(sym string) bool {
	_, ok := s[sym]
	return ok
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for sym := range s {
		out = append(out, sym)
	}
	slices.Sort(out)
	return out
}

func (s Set) String() string {
	return "{" + strings.Join(s.Sorted(), ", ") + "}"
}

// addAllBut merges other into s, leaving out skip, and reports growth.
func (s Set) addAllBut(other Set, skip string) bool {
	changed := false
	for sym := range other {
		if sym != skip && s.Add(sym) {
			changed = true
		}
	}
	return changed
}

// Sets maps each nonterminal to its FIRST or FOLLOW set.
type Sets map[string]Set
