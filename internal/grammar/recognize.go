package grammar

import (
	"fmt"
	"io"
	"strings"
)

// Token is what the recognizer needs from a scanned token: its terminal
// name in the grammar.
type Token interface {
	Terminal() string
}

// Tree is a parse tree node: either a *Leaf or a *Branch.
type Tree interface {
	Symbol() string
	tree()
}

// Leaf is a matched terminal.
type Leaf struct {
	Token Token
}

// Branch is an expanded nonterminal.
type Branch struct {
	Name     string
	Children []Tree
}

func (l *Leaf) Symbol() string   { return l.Token.Terminal() }
func (b *Branch) Symbol() string { return b.Name }
func (*Leaf) tree()              {}
func (*Branch) tree()            {}

// Leaves returns the matched tokens in input order.
func (b *Branch) Leaves() []Token {
	var out []Token
	var walk func(Tree)
	walk = func(t Tree) {
		switch n := t.(type) {
		case *Leaf:
			out = append(out, n.Token)
		case *Branch:
			for _, c := range n.Children {
				walk(c)
			}
		}
	}
	walk(b)
	return out
}

// Format writes the tree, one node per line, indented by depth.
func (b *Branch) Format(w io.Writer) error {
	var err error
	var walk func(Tree, int)
	walk = func(t Tree, depth int) {
		if err != nil {
			return
		}
		indent := strings.Repeat("  ", depth)
		switch n := t.(type) {
		case *Leaf:
			_, err = fmt.Fprintf(w, "%s%s\n", indent, n.Token)
		case *Branch:
			if len(n.Children) == 0 {
				_, err = fmt.Fprintf(w, "%s%s -> %s\n", indent, n.Name, Epsilon)
				return
			}
			_, err = fmt.Fprintf(w, "%s%s\n", indent, n.Name)
			for _, c := range n.Children {
				walk(c, depth+1)
			}
		}
	}
	walk(b, 0)
	return err
}

// RecognizeError reports input the table does not accept.
type RecognizeError struct {
	Index    int   // position in the input slice
	Token    Token // nil at end of input
	Symbol   string
	Expected []string
}

func (e *RecognizeError) Error() string {
	got := EndMarker
	if e.Token != nil {
		got = e.Token.Terminal()
	}
	if len(e.Expected) == 1 {
		return fmt.Sprintf("unexpected %s while parsing %s, expected %s", got, e.Symbol, e.Expected[0])
	}
	return fmt.Sprintf("unexpected %s while parsing %s, expected one of %s",
		got, e.Symbol, strings.Join(e.Expected, " "))
}

// Recognize runs the table-driven LL(1) parse of input and returns the
// parse tree. The input may end with a token whose terminal is
// EndMarker; if it does not, end of input is implied.
func (t *Table) Recognize(input []Token) (*Branch, error) {
	type frame struct {
		symbol string
		parent *Branch
	}

	pos := 0
	lookahead := func() (string, Token) {
		if pos < len(input) {
			return input[pos].Terminal(), input[pos]
		}
		return EndMarker, nil
	}

	root := &Branch{Name: t.start}
	stack := []frame{{symbol: EndMarker}}

	expand := func(b *Branch) error {
		term, tok := lookahead()
		p, ok := t.Lookup(b.Name, term)
		if !ok {
			return &RecognizeError{Index: pos, Token: tok, Symbol: b.Name, Expected: t.Expected(b.Name)}
		}
		for i := len(p) - 1; i >= 0; i-- {
			stack = append(stack, frame{symbol: p[i], parent: b})
		}
		return nil
	}
	if err := expand(root); err != nil {
		return nil, err
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		term, tok := lookahead()

		if f.symbol == EndMarker {
			if term != EndMarker {
				return nil, &RecognizeError{Index: pos, Token: tok, Symbol: t.start, Expected: []string{EndMarker}}
			}
			break
		}
		if t.nonterminals.Has(f.symbol) {
			child := &Branch{Name: f.symbol}
			f.parent.Children = append(f.parent.Children, child)
			if err := expand(child); err != nil {
				return nil, err
			}
			continue
		}
		if term != f.symbol {
			return nil, &RecognizeError{Index: pos, Token: tok, Symbol: f.parent.Name, Expected: []string{f.symbol}}
		}
		f.parent.Children = append(f.parent.Children, &Leaf{Token: tok})
		pos++
	}
	return root, nil
}
