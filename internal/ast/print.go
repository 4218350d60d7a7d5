package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer renders nodes back to stardust source. Nested binary
// operands are parenthesized, so the output shows how the parser
// grouped an expression.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

// NewPrinter creates a new Printer that writes to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes node to the underlying writer.
func (p *Printer) Print(node Node) error {
	p.printNode(node)
	return p.err
}

// String renders node with a Printer.
func String(node Node) string {
	var sb strings.Builder
	_ = NewPrinter(&sb).Print(node)
	return sb.String()
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) newline() {
	p.printf("\n%s", strings.Repeat("    ", p.indent))
}

func (p *Printer) printNode(node Node) {
	switch n := node.(type) {
	case nil:
		p.printf("<nil>")
	case *Program:
		for i, it := range n.Items {
			if i > 0 {
				p.printf("\n")
			}
			p.printNode(it)
			p.printf("\n")
		}
	case *FuncDecl:
		p.printf("function %s(", n.Name)
		for i, param := range n.Params {
			if i > 0 {
				p.printf(", ")
			}
			p.printf("%s", param.Name)
		}
		p.printf(") ")
		p.printStmt(n.Body)
	case Expr:
		p.printExpr(n)
	case Stmt:
		p.printStmt(n)
	default:
		p.printf("<%T>", node)
	}
}

func (p *Printer) printStmt(s Stmt) {
	switch n := s.(type) {
	case *AssignStmt:
		p.printf("%s = ", n.Name)
		p.printExpr(n.Value)
		p.printf(";")
	case *ExprStmt:
		p.printExpr(n.Expr)
		p.printf(";")
	case *EmptyStmt:
		p.printf(";")
	case *BlockStmt:
		if n == nil {
			p.printf("<nil>")
			return
		}
		p.printf("{")
		p.indent++
		for _, st := range n.Stmts {
			p.newline()
			p.printStmt(st)
		}
		p.indent--
		if len(n.Stmts) > 0 {
			p.newline()
		}
		p.printf("}")
	case *IfStmt:
		p.printIf(n)
	case *WhileStmt:
		p.printf("while (")
		p.printExpr(n.Cond)
		p.printf(") ")
		p.printStmt(n.Body)
	case *ForStmt:
		p.printf("for (")
		p.printClause(n.Init)
		p.printf("; ")
		if n.Cond != nil {
			p.printExpr(n.Cond)
		}
		p.printf("; ")
		p.printClause(n.Post)
		p.printf(") ")
		p.printStmt(n.Body)
	case *ReturnStmt:
		if n.Value == nil {
			p.printf("return;")
			return
		}
		p.printf("return ")
		p.printExpr(n.Value)
		p.printf(";")
	default:
		p.printf("<%T>", s)
	}
}

func (p *Printer) printIf(n *IfStmt) {
	keyword := "if"
	if n.Elsif {
		keyword = "elsif"
	}
	p.printf("%s (", keyword)
	p.printExpr(n.Cond)
	p.printf(") ")
	p.printStmt(n.Then)
	switch e := n.Else.(type) {
	case nil:
	case *IfStmt:
		p.printf(" ")
		p.printIf(e)
	default:
		p.printf(" else ")
		p.printStmt(e)
	}
}

// printClause prints a for-loop init or post statement without its
// trailing semicolon.
func (p *Printer) printClause(s Stmt) {
	switch n := s.(type) {
	case nil:
	case *AssignStmt:
		p.printf("%s = ", n.Name)
		p.printExpr(n.Value)
	case *ExprStmt:
		p.printExpr(n.Expr)
	}
}

func (p *Printer) printExpr(e Expr) {
	switch n := e.(type) {
	case nil:
		p.printf("<nil>")
	case *Literal:
		p.printf("%s", n.Raw)
	case *Ident:
		p.printf("%s", n.Name)
	case *BinaryExpr:
		p.printOperand(n.Left)
		p.printf(" %s ", n.Op)
		p.printOperand(n.Right)
	case *UnaryExpr:
		p.printf("%s", n.Op)
		p.printOperand(n.Operand)
	case *CallExpr:
		p.printf("%s(", n.Name)
		for i, a := range n.Args {
			if i > 0 {
				p.printf(", ")
			}
			p.printExpr(a)
		}
		p.printf(")")
	default:
		p.printf("<%T>", e)
	}
}

func (p *Printer) printOperand(e Expr) {
	if _, ok := e.(*BinaryExpr); ok {
		p.printf("(")
		p.printExpr(e)
		p.printf(")")
		return
	}
	p.printExpr(e)
}
