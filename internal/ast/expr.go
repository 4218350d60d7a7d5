package ast

import "github.com/kolkov/stardust/internal/token"

// Literal is a constant: INT, FLOAT, STRING, true, false or null.
// Kind records which; exactly one value field is meaningful.
type Literal struct {
	BaseExpr
	Kind  token.Kind // INT, FLOAT, STRING, TRUE, FALSE or NULL
	Raw   string     // source lexeme
	Int   int64
	Float float64
	Str   string // unquoted STRING value
}

// Bool returns the value of a TRUE or FALSE literal.
func (l *Literal) Bool() bool {
	return l.Kind == token.TRUE
}

// Ident is a reference to a variable or function name.
type Ident struct {
	BaseExpr
	Name string
}

// BinaryExpr is an infix operation.
// Examples: a + b, x <= y, ok and done
type BinaryExpr struct {
	BaseExpr
	Left  Expr
	Op    token.Kind
	OpPos token.Position
	Right Expr
}

// UnaryExpr is a prefix operation. The only prefix operator is SUB.
type UnaryExpr struct {
	BaseExpr
	Op      token.Kind
	Operand Expr
}

// CallExpr calls a named function.
// Example: max(a, b)
type CallExpr struct {
	BaseExpr
	Name    string
	NamePos token.Position
	Args    []Expr
}
