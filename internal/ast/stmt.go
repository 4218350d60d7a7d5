package ast

import "github.com/kolkov/stardust/internal/token"

// AssignStmt binds a value to a name.
// Example: total = total + x
type AssignStmt struct {
	BaseStmt
	Name    string
	NamePos token.Position
	Value   Expr
}

// ExprStmt is an expression evaluated for its effect.
// Example: print(x)
type ExprStmt struct {
	BaseStmt
	Expr Expr
}

// EmptyStmt is a lone semicolon.
type EmptyStmt struct {
	BaseStmt
}

// BlockStmt is a braced statement list. It opens a scope.
type BlockStmt struct {
	BaseStmt
	Stmts []Stmt
}

// IfStmt is a conditional. An elsif chain is represented by an IfStmt
// in Else with Elsif set.
// Examples:
//   - if (c) { }
//   - if (c) { } elsif (d) { } else { }
type IfStmt struct {
	BaseStmt
	Cond  Expr
	Then  *BlockStmt
	Else  Stmt // nil, *BlockStmt, or *IfStmt for elsif
	Elsif bool // introduced by elsif rather than if
}

// WhileStmt is a pre-tested loop.
type WhileStmt struct {
	BaseStmt
	Cond Expr
	Body *BlockStmt
}

// ForStmt is a C-style loop. Init and Post are nil, *AssignStmt or
// *ExprStmt; a nil Cond loops forever.
// Example: for (i = 0; i < n; i = i + 1) { }
type ForStmt struct {
	BaseStmt
	Init Stmt
	Cond Expr
	Post Stmt
	Body *BlockStmt
}

// ReturnStmt leaves the enclosing function. Value is nil for a bare
// return.
type ReturnStmt struct {
	BaseStmt
	Value Expr
}
