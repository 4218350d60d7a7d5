package grammar

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/kolkov/stardust/internal/lexer"
)

// exprGrammar is the textbook LL(1) expression grammar.
func exprGrammar() *Grammar {
	g := New("E")
	g.Add("E", P("T", "E'"))
	g.Add("E'", P("+", "T", "E'"), P())
	g.Add("T", P("F", "T'"))
	g.Add("T'", P("*", "F", "T'"), P())
	g.Add("F", P("(", "E", ")"), P("id"))
	return g
}

func setOf(syms ...string) Set {
	s := make(Set)
	for _, sym := range syms {
		s.Add(sym)
	}
	return s
}

func sameSet(a, b Set) bool {
	return slices.Equal(a.Sorted(), b.Sorted())
}

func TestComputeFirst(t *testing.T) {
	g := exprGrammar()
	first := ComputeFirst(g)
	tests := []struct {
		nt   string
		want Set
	}{
		{"E", setOf("(", "id")},
		{"T", setOf("(", "id")},
		{"F", setOf("(", "id")},
		{"E'", setOf("+", Epsilon)},
		{"T'", setOf("*", Epsilon)},
	}
	for _, tt := range tests {
		if !sameSet(first[tt.nt], tt.want) {
			t.Errorf("FIRST(%s) = %s, want %s", tt.nt, first[tt.nt], tt.want)
		}
	}
}

func TestComputeFollow(t *testing.T) {
	g := exprGrammar()
	first := ComputeFirst(g)
	follow := ComputeFollow(g, first, "E")
	tests := []struct {
		nt   string
		want Set
	}{
		{"E", setOf(")", EndMarker)},
		{"E'", setOf(")", EndMarker)},
		{"T", setOf("+", ")", EndMarker)},
		{"T'", setOf("+", ")", EndMarker)},
		{"F", setOf("*", "+", ")", EndMarker)},
	}
	for _, tt := range tests {
		if !sameSet(follow[tt.nt], tt.want) {
			t.Errorf("FOLLOW(%s) = %s, want %s", tt.nt, follow[tt.nt], tt.want)
		}
		if follow[tt.nt].Has(Epsilon) {
			t.Errorf("FOLLOW(%s) contains ε", tt.nt)
		}
	}
}

func TestFirstOfSequence(t *testing.T) {
	g := New("S")
	g.Add("S", P("A", "B", "c"))
	g.Add("A", P("a"), P())
	g.Add("B", P("b"), P())
	first := ComputeFirst(g)
	tests := []struct {
		seq  []string
		want Set
	}{
		{nil, setOf(Epsilon)},
		{[]string{"A"}, setOf("a", Epsilon)},
		{[]string{"A", "B"}, setOf("a", "b", Epsilon)},
		{[]string{"A", "B", "c"}, setOf("a", "b", "c")},
		{[]string{"c", "A"}, setOf("c")},
	}
	for _, tt := range tests {
		got := FirstOfSequence(g, first, tt.seq)
		if !sameSet(got, tt.want) {
			t.Errorf("FIRST(%v) = %s, want %s", tt.seq, got, tt.want)
		}
	}
	if !sameSet(first["S"], setOf("a", "b", "c")) {
		t.Errorf("FIRST(S) = %s", first["S"])
	}
}

func TestBuildTable(t *testing.T) {
	a, err := Analyze(exprGrammar())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		nt, term string
		want     string
		ok       bool
	}{
		{"E", "id", "T E'", true},
		{"E", "(", "T E'", true},
		{"E'", "+", "+ T E'", true},
		{"E'", ")", Epsilon, true},
		{"E'", EndMarker, Epsilon, true},
		{"T'", "+", Epsilon, true},
		{"T'", "*", "* F T'", true},
		{"F", "id", "id", true},
		{"F", "+", "", false},
		{"E", ")", "", false},
	}
	for _, tt := range tests {
		p, ok := a.Table.Lookup(tt.nt, tt.term)
		if ok != tt.ok {
			t.Errorf("Lookup(%s, %s) ok = %v, want %v", tt.nt, tt.term, ok, tt.ok)
			continue
		}
		if ok && p.String() != tt.want {
			t.Errorf("Lookup(%s, %s) = %s, want %s", tt.nt, tt.term, p, tt.want)
		}
	}
	if a.Table.Len() != 13 {
		t.Errorf("table has %d cells, want 13", a.Table.Len())
	}
}

func TestBuildTableConflict(t *testing.T) {
	tests := []struct {
		name     string
		grammar  *Grammar
		nt, term string
		prods    []string
	}{
		{
			name:    "common prefix",
			grammar: New("S").Add("S", P("a", "b"), P("a", "c")),
			nt:      "S",
			term:    "a",
			prods:   []string{"a b", "a c"},
		},
		{
			name: "nullable follow overlap",
			grammar: New("S").
				Add("S", P("A", "a")).
				Add("A", P("a"), P()),
			nt:    "A",
			term:  "a",
			prods: []string{"a", Epsilon},
		},
		{
			name:    "duplicated alternative",
			grammar: New("S").Add("S", P("a"), P("a")),
			nt:      "S",
			term:    "a",
			prods:   []string{"a", "a"},
		},
		{
			name: "duplicated empty alternative",
			grammar: New("S").
				Add("S", P("A", "b")).
				Add("A", P(), P()),
			nt:    "A",
			term:  "b",
			prods: []string{Epsilon, Epsilon},
		},
		{
			name: "left recursion",
			grammar: New("E").
				Add("E", P("E", "+", "id"), P("id")),
			nt:    "E",
			term:  "id",
			prods: []string{"E + id", "id"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Analyze(tt.grammar)
			var ce *ConflictError
			if !errors.As(err, &ce) {
				t.Fatalf("got %v, want *ConflictError", err)
			}
			if ce.Nonterminal != tt.nt || ce.Terminal != tt.term {
				t.Errorf("conflict at (%s, %s), want (%s, %s)", ce.Nonterminal, ce.Terminal, tt.nt, tt.term)
			}
			got := []string{ce.Existing.String(), ce.Conflicting.String()}
			slices.Sort(got)
			want := slices.Clone(tt.prods)
			slices.Sort(want)
			if !slices.Equal(got, want) {
				t.Errorf("conflicting productions %v, want %v", got, want)
			}
			for _, p := range tt.prods {
				if !strings.Contains(err.Error(), p) {
					t.Errorf("message %q does not name %q", err, p)
				}
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := New("S").Validate(); err == nil {
		t.Error("missing start symbol should fail")
	}
	if err := New("S").Add("S", P("a", EndMarker)).Validate(); err == nil {
		t.Error("reserved symbol in production should fail")
	}
	if err := exprGrammar().Validate(); err != nil {
		t.Error(err)
	}
}

func TestStardustIsLL1(t *testing.T) {
	a, err := Analyze(Stardust())
	if err != nil {
		t.Fatalf("stardust grammar is not LL(1): %v", err)
	}
	if Compiled() != Compiled() {
		t.Error("Compiled should be shared")
	}
	if !a.Follow["Program"].Has(EndMarker) {
		t.Error("FOLLOW(Program) must contain $")
	}
	if a.Follow["RelTail"].Has("<") {
		t.Error("comparison must be non-associative")
	}
	terms := a.Grammar.Terminals()
	for _, want := range []string{"IDENT", "INT", "FLOAT", "STRING", "function", "elsif", "//", "<=", ";"} {
		if !slices.Contains(terms, want) {
			t.Errorf("terminal %q missing", want)
		}
	}
}

func TestRecognizeStardust(t *testing.T) {
	table := Compiled().Table
	valid := []string{
		``,
		`x = 1 + 2 * 3;`,
		`f(1, "a", true); g();`,
		`-x * 2 < y and z != null;`,
		`function add(a, b) { return a + b; }`,
		`function f() { return; } f();`,
		`if (x < 1) { y = 2; } elsif (x == 1) { y = 3; } else { y = 4; }`,
		`while (i <= 10 or done) { i = i + 1; }`,
		`for (i = 0; i < 10; i = i + 1) { ; }`,
		`for (;;) { }`,
		`{ { x; } }`,
		`(1 + 2) // 3 % 4;`,
	}
	for _, src := range valid {
		toks := lexer.Tokenize(src)
		input := make([]Token, len(toks))
		for i, tok := range toks {
			input[i] = tok
		}
		tree, err := table.Recognize(input)
		if err != nil {
			t.Errorf("%q: %v", src, err)
			continue
		}
		leaves := tree.Leaves()
		if len(leaves) != len(toks)-1 {
			t.Errorf("%q: %d leaves for %d tokens", src, len(leaves), len(toks)-1)
		}
	}

	invalid := []struct {
		src    string
		symbol string
	}{
		{`x = ;`, "Expression"},
		{`a < b < c;`, ""},
		{`x = 1`, ""},
		{`function f( { }`, "ParamListOpt"},
		{`if x { }`, ""},
		{`{ function f() { } }`, "StatementList"},
		{`x = y = 1;`, ""},
	}
	for _, tt := range invalid {
		toks := lexer.Tokenize(tt.src)
		input := make([]Token, len(toks))
		for i, tok := range toks {
			input[i] = tok
		}
		_, err := table.Recognize(input)
		var re *RecognizeError
		if !errors.As(err, &re) {
			t.Errorf("%q: got %v, want *RecognizeError", tt.src, err)
			continue
		}
		if tt.symbol != "" && re.Symbol != tt.symbol {
			t.Errorf("%q: failed in %s, want %s (%v)", tt.src, re.Symbol, tt.symbol, err)
		}
	}
}

func TestRecognizeTreeShape(t *testing.T) {
	toks := lexer.Tokenize(`x = 1;`)
	input := make([]Token, len(toks))
	for i, tok := range toks {
		input[i] = tok
	}
	tree, err := Compiled().Table.Recognize(input)
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	if err := tree.Format(&sb); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	for _, want := range []string{"Program", "SimpleStmt", "IdentRest", "INT 1", "ItemList -> ε"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree missing %q:\n%s", want, out)
		}
	}
	if tree.Symbol() != "Program" {
		t.Errorf("root = %s", tree.Symbol())
	}
}

func TestFormat(t *testing.T) {
	a := Compiled()
	var sb strings.Builder
	if err := a.Table.Format(&sb); err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(sb.String(), "\n"); lines != a.Table.Len() {
		t.Errorf("Format wrote %d lines for %d cells", lines, a.Table.Len())
	}
	sb.Reset()
	if err := a.FormatSets(&sb); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "FOLLOW={$}") {
		t.Errorf("FormatSets output:\n%s", sb.String())
	}
}
