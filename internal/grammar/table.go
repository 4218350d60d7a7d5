package grammar

import (
	"fmt"
	"io"
	"slices"
)

// ConflictError reports that the grammar is not LL(1): two productions
// of one nonterminal are selected by the same lookahead terminal.
type ConflictError struct {
	Nonterminal string
	Terminal    string
	Existing    Production
	Conflicting Production
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("LL(1) conflict at (%s, %s): %s -> %s vs %s -> %s",
		e.Nonterminal, e.Terminal, e.Nonterminal, e.Existing, e.Nonterminal, e.Conflicting)
}

type cell struct {
	nonterminal, terminal string
}

// entry records which alternative of its nonterminal fills a cell.
type entry struct {
	index int
	prod  Production
}

// Table is a predictive parsing table. It is immutable once built.
type Table struct {
	start        string
	nonterminals Set
	cells        map[cell]entry
}

// BuildTable derives the LL(1) table of g from its FIRST and FOLLOW
// sets. The first cell claimed by two different productions aborts
// construction with a *ConflictError.
func BuildTable(g *Grammar, first, follow Sets) (*Table, error) {
	t := &Table{start: g.Start, nonterminals: make(Set), cells: make(map[cell]entry)}
	for _, name := range g.Nonterminals {
		t.nonterminals.Add(name)
	}
	for _, name := range g.Nonterminals {
		for i, p := range g.Productions[name] {
			firstP := FirstOfSequence(g, first, p)
			for _, term := range firstP.Sorted() {
				if term == Epsilon {
					continue
				}
				if err := t.set(name, term, i, p); err != nil {
					return nil, err
				}
			}
			if firstP.Has(Epsilon) {
				for _, term := range follow[name].Sorted() {
					if err := t.set(name, term, i, p); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	return t, nil
}

// set claims a cell for alternative index of nonterminal. Only the same
// alternative may claim a cell twice, through both FIRST and FOLLOW; two
// alternatives conflict even when their right-hand sides are equal.
func (t *Table) set(nonterminal, terminal string, index int, p Production) error {
	key := cell{nonterminal, terminal}
	if existing, ok := t.cells[key]; ok {
		if existing.index == index {
			return nil
		}
		return &ConflictError{
			Nonterminal: nonterminal,
			Terminal:    terminal,
			Existing:    existing.prod,
			Conflicting: p,
		}
	}
	t.cells[key] = entry{index: index, prod: p}
	return nil
}

// Lookup returns the production selected for nonterminal on terminal.
func (t *Table) Lookup(nonterminal, terminal string) (Production, bool) {
	e, ok := t.cells[cell{nonterminal, terminal}]
	return e.prod, ok
}

// Len returns the number of filled cells.
func (t *Table) Len() int {
	return len(t.cells)
}

// Expected returns the terminals that have an entry for nonterminal.
func (t *Table) Expected(nonterminal string) []string {
	var out []string
	for c := range t.cells {
		if c.nonterminal == nonterminal {
			out = append(out, c.terminal)
		}
	}
	slices.Sort(out)
	return out
}

// Format writes every filled cell, one per line, ordered by nonterminal
// name then terminal.
func (t *Table) Format(w io.Writer) error {
	keys := make([]cell, 0, len(t.cells))
	for c := range t.cells {
		keys = append(keys, c)
	}
	slices.SortFunc(keys, func(a, b cell) int {
		if a.nonterminal != b.nonterminal {
			if a.nonterminal < b.nonterminal {
				return -1
			}
			return 1
		}
		switch {
		case a.terminal < b.terminal:
			return -1
		case a.terminal > b.terminal:
			return 1
		}
		return 0
	})
	for _, c := range keys {
		if _, err := fmt.Fprintf(w, "%-20s %-10s %s\n", c.nonterminal, c.terminal, t.cells[c].prod); err != nil {
			return err
		}
	}
	return nil
}

// Analysis bundles a grammar with its derived sets and table.
type Analysis struct {
	Grammar *Grammar
	First   Sets
	Follow  Sets
	Table   *Table
}

// Analyze validates g and builds its FIRST and FOLLOW sets and table.
func Analyze(g *Grammar) (*Analysis, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	first := ComputeFirst(g)
	follow := ComputeFollow(g, first, g.Start)
	table, err := BuildTable(g, first, follow)
	if err != nil {
		return nil, err
	}
	log.Debugf("grammar %s: %d nonterminals, %d table cells", g.Start, len(g.Nonterminals), table.Len())
	return &Analysis{Grammar: g, First: first, Follow: follow, Table: table}, nil
}

// FormatSets writes FIRST and FOLLOW in nonterminal declaration order.
func (a *Analysis) FormatSets(w io.Writer) error {
	for _, name := range a.Grammar.Nonterminals {
		if _, err := fmt.Fprintf(w, "%-20s FIRST=%s FOLLOW=%s\n", name, a.First[name], a.Follow[name]); err != nil {
			return err
		}
	}
	return nil
}
