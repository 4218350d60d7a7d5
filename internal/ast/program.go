package ast

import "github.com/kolkov/stardust/internal/token"

// Program is a complete translation unit: function declarations and
// statements in source order.
type Program struct {
	Filename string
	Items    []Item

	StartPos token.Position
	EndPos   token.Position
}

func (p *Program) Pos() token.Position { return p.StartPos }
func (p *Program) End() token.Position { return p.EndPos }

// Functions returns the function declarations in source order.
func (p *Program) Functions() []*FuncDecl {
	var out []*FuncDecl
	for _, it := range p.Items {
		if fn, ok := it.(*FuncDecl); ok {
			out = append(out, fn)
		}
	}
	return out
}

// Statements returns the top-level statements in source order.
func (p *Program) Statements() []Stmt {
	var out []Stmt
	for _, it := range p.Items {
		if s, ok := it.(Stmt); ok {
			out = append(out, s)
		}
	}
	return out
}

// FuncDecl is a function declaration. Functions are only declared at
// top level.
// Example: function add(a, b) { return a + b; }
type FuncDecl struct {
	Name    string
	NamePos token.Position
	Params  []*Ident
	Body    *BlockStmt

	StartPos token.Position
	EndPos   token.Position
}

func (f *FuncDecl) Pos() token.Position { return f.StartPos }
func (f *FuncDecl) End() token.Position { return f.EndPos }
func (f *FuncDecl) itemNode()           {}
