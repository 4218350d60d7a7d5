package ast

import "fmt"

// Visitor has one method per node variant. Type parameter T is the
// result type of every visit.
//
// Example usage for type inference:
//
//	type inferer struct{}
//	func (in *inferer) VisitLiteral(n *Literal) types.Type { ... }
//	// ... other methods
type Visitor[T any] interface {
	// Program-level
	VisitProgram(*Program) T
	VisitFuncDecl(*FuncDecl) T

	// Expressions
	VisitLiteral(*Literal) T
	VisitIdent(*Ident) T
	VisitBinaryExpr(*BinaryExpr) T
	VisitUnaryExpr(*UnaryExpr) T
	VisitCallExpr(*CallExpr) T

	// Statements
	VisitAssignStmt(*AssignStmt) T
	VisitExprStmt(*ExprStmt) T
	VisitEmptyStmt(*EmptyStmt) T
	VisitBlockStmt(*BlockStmt) T
	VisitIfStmt(*IfStmt) T
	VisitWhileStmt(*WhileStmt) T
	VisitForStmt(*ForStmt) T
	VisitReturnStmt(*ReturnStmt) T
}

// Accept dispatches node to the matching method of v. It panics on a
// nil node or a type outside the closed node set.
func Accept[T any](node Node, v Visitor[T]) T {
	switch n := node.(type) {
	case *Program:
		return v.VisitProgram(n)
	case *FuncDecl:
		return v.VisitFuncDecl(n)

	case *Literal:
		return v.VisitLiteral(n)
	case *Ident:
		return v.VisitIdent(n)
	case *BinaryExpr:
		return v.VisitBinaryExpr(n)
	case *UnaryExpr:
		return v.VisitUnaryExpr(n)
	case *CallExpr:
		return v.VisitCallExpr(n)

	case *AssignStmt:
		return v.VisitAssignStmt(n)
	case *ExprStmt:
		return v.VisitExprStmt(n)
	case *EmptyStmt:
		return v.VisitEmptyStmt(n)
	case *BlockStmt:
		return v.VisitBlockStmt(n)
	case *IfStmt:
		return v.VisitIfStmt(n)
	case *WhileStmt:
		return v.VisitWhileStmt(n)
	case *ForStmt:
		return v.VisitForStmt(n)
	case *ReturnStmt:
		return v.VisitReturnStmt(n)
	}
	panic(fmt.Sprintf("ast: unexpected node %T", node))
}

// Walk traverses an AST in depth-first order.
// For each node, it calls fn(node). If fn returns false,
// the children of that node are not visited.
//
// Example: count identifiers
//
//	count := 0
//	ast.Walk(program, func(n ast.Node) bool {
//	    if _, ok := n.(*ast.Ident); ok {
//	        count++
//	    }
//	    return true
//	})
func Walk(node Node, fn func(Node) bool) {
	Inspect(node, func(n, _ Node) bool { return fn(n) })
}

// Inspect is like Walk but also passes the parent of each node, nil for
// the root.
func Inspect(node Node, fn func(node, parent Node) bool) {
	inspect(node, nil, fn)
}

func inspect(node, parent Node, fn func(node, parent Node) bool) {
	if isNil(node) || !fn(node, parent) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, it := range n.Items {
			inspect(it, n, fn)
		}
	case *FuncDecl:
		for _, p := range n.Params {
			inspect(p, n, fn)
		}
		inspect(n.Body, n, fn)

	case *Literal, *Ident:
		// no children
	case *BinaryExpr:
		inspect(n.Left, n, fn)
		inspect(n.Right, n, fn)
	case *UnaryExpr:
		inspect(n.Operand, n, fn)
	case *CallExpr:
		for _, a := range n.Args {
			inspect(a, n, fn)
		}

	case *AssignStmt:
		inspect(n.Value, n, fn)
	case *ExprStmt:
		inspect(n.Expr, n, fn)
	case *EmptyStmt:
		// no children
	case *BlockStmt:
		for _, s := range n.Stmts {
			inspect(s, n, fn)
		}
	case *IfStmt:
		inspect(n.Cond, n, fn)
		inspect(n.Then, n, fn)
		inspect(n.Else, n, fn)
	case *WhileStmt:
		inspect(n.Cond, n, fn)
		inspect(n.Body, n, fn)
	case *ForStmt:
		inspect(n.Init, n, fn)
		inspect(n.Cond, n, fn)
		inspect(n.Post, n, fn)
		inspect(n.Body, n, fn)
	case *ReturnStmt:
		inspect(n.Value, n, fn)
	}
}

// isNil catches typed nil pointers stored in interface fields, such as
// a missing Else or For clause.
func isNil(node Node) bool {
	switch n := node.(type) {
	case nil:
		return true
	case *BlockStmt:
		return n == nil
	case *IfStmt:
		return n == nil
	case *AssignStmt:
		return n == nil
	case *ExprStmt:
		return n == nil
	case *ReturnStmt:
		return n == nil
	}
	return false
}
