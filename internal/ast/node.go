// Package ast defines the abstract syntax tree for stardust programs.
//
// Node hierarchy:
//
//	Node (interface)
//	├── Expr (interface) - expressions that produce values
//	│   ├── Literal, Ident - leaves
//	│   ├── BinaryExpr, UnaryExpr - operations
//	│   └── CallExpr - calls
//	├── Stmt (interface) - statements, also valid top-level items
//	│   ├── AssignStmt, ExprStmt, EmptyStmt - simple
//	│   ├── IfStmt, WhileStmt, ForStmt - control flow
//	│   └── ReturnStmt, BlockStmt
//	└── Program, FuncDecl - top-level structures
//
// The node set is closed: the marker methods are unexported, so only
// this package can add variants, and [Visitor] names every one.
package ast

import "github.com/kolkov/stardust/internal/token"

// Node is the interface implemented by all AST nodes.
type Node interface {
	// Pos returns the position of the first character belonging to this node.
	Pos() token.Position

	// End returns the position of the first character immediately after this node.
	End() token.Position
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Item
	stmtNode()
}

// Item is a top-level program element: a *FuncDecl or a Stmt.
type Item interface {
	Node
	itemNode()
}

// BaseExpr provides position tracking for expression nodes.
type BaseExpr struct {
	StartPos token.Position // Position of first token
	EndPos   token.Position // Position after last token
}

func (b *BaseExpr) Pos() token.Position { return b.StartPos }
func (b *BaseExpr) End() token.Position { return b.EndPos }
func (b *BaseExpr) exprNode()           {}

// BaseStmt provides position tracking for statement nodes.
type BaseStmt struct {
	StartPos token.Position
	EndPos   token.Position
}

func (b *BaseStmt) Pos() token.Position { return b.StartPos }
func (b *BaseStmt) End() token.Position { return b.EndPos }
func (b *BaseStmt) stmtNode()           {}
func (b *BaseStmt) itemNode()           {}

// MakeBaseExpr creates a BaseExpr with the given positions.
func MakeBaseExpr(start, end token.Position) BaseExpr {
	return BaseExpr{StartPos: start, EndPos: end}
}

// MakeBaseStmt creates a BaseStmt with the given positions.
func MakeBaseStmt(start, end token.Position) BaseStmt {
	return BaseStmt{StartPos: start, EndPos: end}
}

var (
	_ Expr = (*Literal)(nil)
	_ Expr = (*Ident)(nil)
	_ Expr = (*BinaryExpr)(nil)
	_ Expr = (*UnaryExpr)(nil)
	_ Expr = (*CallExpr)(nil)

	_ Stmt = (*AssignStmt)(nil)
	_ Stmt = (*ExprStmt)(nil)
	_ Stmt = (*EmptyStmt)(nil)
	_ Stmt = (*BlockStmt)(nil)
	_ Stmt = (*IfStmt)(nil)
	_ Stmt = (*WhileStmt)(nil)
	_ Stmt = (*ForStmt)(nil)
	_ Stmt = (*ReturnStmt)(nil)

	_ Item = (*FuncDecl)(nil)
)
