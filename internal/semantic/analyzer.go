package semantic

import (
	"github.com/kolkov/stardust/internal/ast"
	"github.com/kolkov/stardust/internal/token"
	"github.com/kolkov/stardust/internal/types"
)

// Result contains the results of semantic analysis.
type Result struct {
	// Context resolves the type variables found in symbol types.
	Context *types.Context

	// Global scope, including builtins.
	Global *Scope

	// Every scope opened during analysis, global first.
	Scopes []*Scope

	// Errors encountered during analysis
	Errors ErrorList

	// Warnings (non-fatal issues)
	Warnings WarningList

	symbols   []*Symbol
	exprTypes map[ast.Expr]types.Type
}

// TypeOf returns the fully resolved type inferred for e, or nil if e was
// not analyzed.
func (r *Result) TypeOf(e ast.Expr) types.Type {
	t, ok := r.exprTypes[e]
	if !ok {
		return nil
	}
	return r.Context.Deep(t)
}

// SymbolType returns the fully resolved type of sym.
func (r *Result) SymbolType(sym *Symbol) types.Type {
	return r.Context.Deep(sym.Type)
}

// Symbols returns every user symbol in definition order. Builtins are
// not included.
func (r *Result) Symbols() []*Symbol {
	return r.symbols
}

// Unresolved returns the user symbols whose type still contains a free
// type variable.
func (r *Result) Unresolved() []*Symbol {
	var out []*Symbol
	for _, sym := range r.symbols {
		if r.Context.IsFree(sym.Type) {
			out = append(out, sym)
		}
	}
	return out
}

// Err returns the error list as an error, or nil.
func (r *Result) Err() error {
	return r.Errors.Err()
}

// analyzer infers types over the AST. It implements
// ast.Visitor[types.Type]; statements yield nil.
type analyzer struct {
	ctx    *types.Context
	scopes *Scopes
	result *Result

	sigs   map[*ast.FuncDecl]*types.Func
	called map[*Symbol]bool
	fn     *types.Func // enclosing function, nil at top level
}

var _ ast.Visitor[types.Type] = (*analyzer)(nil)

// Analyze runs both passes over prog. The Result is always returned; the
// error is the Result's ErrorList when it is not empty.
//
// Pass 1 binds every function name in the global scope to a signature of
// fresh type variables. Pass 2 infers function bodies and top-level
// statements in source order.
func Analyze(prog *ast.Program) (*Result, error) {
	a := &analyzer{
		ctx:    types.NewContext(),
		scopes: NewScopes(),
		sigs:   make(map[*ast.FuncDecl]*types.Func),
		called: make(map[*Symbol]bool),
	}
	a.result = &Result{
		Context:   a.ctx,
		Global:    a.scopes.Global(),
		Scopes:    []*Scope{a.scopes.Global()},
		exprTypes: make(map[ast.Expr]types.Type),
	}

	a.declareBuiltins()
	a.collectFunctions(prog)
	ast.Accept[types.Type](prog, a)
	a.checkUnused()

	return a.result, a.result.Errors.Err()
}

func (a *analyzer) declareBuiltins() {
	sigs := builtins()
	for _, name := range builtinOrder {
		a.scopes.Define(&Symbol{Name: name, Kind: SymbolBuiltin, Type: sigs[name], Initialized: true})
	}
}

// collectFunctions is pass 1. A redeclared function keeps its first
// binding; the duplicate body is still analyzed against its own
// signature.
func (a *analyzer) collectFunctions(prog *ast.Program) {
	for _, fn := range prog.Functions() {
		params := make([]types.Type, len(fn.Params))
		for i := range params {
			params[i] = a.ctx.Fresh()
		}
		sig := types.NewFunc(a.ctx.Fresh(), params...)
		a.sigs[fn] = sig

		sym := &Symbol{Name: fn.Name, Kind: SymbolFunction, Type: sig, Pos: fn.NamePos, Initialized: true}
		if !a.define(sym) {
			a.errorf(fn.NamePos, errDuplicateFunc, fn.Name)
		}
	}
}

// checkUnused warns about functions that nothing refers to.
func (a *analyzer) checkUnused() {
	for _, sym := range a.result.symbols {
		if sym.Kind == SymbolFunction && !a.called[sym] {
			a.result.Warnings.Add(sym.Pos, warnUnusedFunc, sym.Name)
		}
	}
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func (a *analyzer) errorf(pos token.Position, format string, args ...any) {
	a.result.Errors.Add(pos, format, args...)
}

// define adds sym to the current scope and records it for the result.
func (a *analyzer) define(sym *Symbol) bool {
	if !a.scopes.Define(sym) {
		return false
	}
	a.result.symbols = append(a.result.symbols, sym)
	return true
}

func (a *analyzer) push(name string) {
	a.result.Scopes = append(a.result.Scopes, a.scopes.Push(name))
}

func (a *analyzer) pop() {
	a.scopes.Pop()
}

func (a *analyzer) stmt(s ast.Stmt) {
	if s != nil {
		ast.Accept[types.Type](s, a)
	}
}

// expr infers e and records its type.
func (a *analyzer) expr(e ast.Expr) types.Type {
	t := ast.Accept[types.Type](e, a)
	a.result.exprTypes[e] = t
	return t
}

// condition infers a branch or loop condition, which must be bool.
func (a *analyzer) condition(e ast.Expr) {
	if e == nil {
		return
	}
	t := a.expr(e)
	if _, err := a.ctx.Unify(t, types.Bool); err != nil {
		a.errorf(e.Pos(), errCondition, err)
	}
}

func (a *analyzer) isString(t types.Type) bool {
	return types.IsPrimitive(a.ctx.Resolve(t), types.String)
}

// -----------------------------------------------------------------------------
// Declarations
// -----------------------------------------------------------------------------

func (a *analyzer) VisitProgram(prog *ast.Program) types.Type {
	for _, it := range prog.Items {
		ast.Accept[types.Type](it, a)
	}
	return nil
}

func (a *analyzer) VisitFuncDecl(fn *ast.FuncDecl) types.Type {
	sig := a.sigs[fn]
	a.push(fn.Name)
	for i, p := range fn.Params {
		sym := &Symbol{Name: p.Name, Kind: SymbolParam, Type: sig.Params[i], Pos: p.Pos(), Initialized: true}
		if !a.define(sym) {
			a.errorf(p.Pos(), errDuplicateParam, p.Name, fn.Name)
		}
		a.result.exprTypes[p] = sig.Params[i]
	}

	outer := a.fn
	a.fn = sig
	for _, s := range fn.Body.Stmts {
		a.stmt(s)
	}
	a.fn = outer
	a.pop()
	return sig
}

// -----------------------------------------------------------------------------
// Expressions
// -----------------------------------------------------------------------------

func (a *analyzer) VisitLiteral(lit *ast.Literal) types.Type {
	switch lit.Kind {
	case token.INT:
		return types.Int
	case token.FLOAT:
		return types.Float
	case token.STRING:
		return types.String
	case token.TRUE, token.FALSE:
		return types.Bool
	case token.NULL:
		return types.Null
	}
	return types.Any
}

// VisitIdent resolves a name through the scope chain. An unknown name is
// defined in the current scope with a fresh type variable so inference
// can continue.
func (a *analyzer) VisitIdent(id *ast.Ident) types.Type {
	if sym, ok := a.scopes.Lookup(id.Name); ok {
		if sym.Kind == SymbolFunction {
			a.called[sym] = true
		}
		return sym.Type
	}
	v := a.ctx.Fresh()
	a.define(&Symbol{Name: id.Name, Kind: SymbolVariable, Type: v, Pos: id.Pos()})
	a.result.Warnings.Add(id.Pos(), warnUseBeforeAssign, id.Name)
	return v
}

func (a *analyzer) VisitBinaryExpr(e *ast.BinaryExpr) types.Type {
	l := a.expr(e.Left)
	r := a.expr(e.Right)

	switch {
	case e.Op == token.AND || e.Op == token.OR:
		if _, err := a.ctx.Unify(l, types.Bool); err != nil {
			a.errorf(e.Left.Pos(), errLogicalOperand, e.Op, err)
		}
		if _, err := a.ctx.Unify(r, types.Bool); err != nil {
			a.errorf(e.Right.Pos(), errLogicalOperand, e.Op, err)
		}
		return types.Bool

	case e.Op.IsRelational():
		if _, err := a.ctx.Unify(l, r); err != nil {
			a.errorf(e.OpPos, errComparison, e.Op, err)
		}
		return types.Bool
	}

	// + with a string operand is concatenation.
	if e.Op == token.ADD && (a.isString(l) || a.isString(r)) {
		return types.String
	}

	t, err := a.ctx.Unify(l, r)
	if err != nil {
		a.errorf(e.OpPos, errArithmetic, e.Op, err)
		return types.Any
	}
	switch rt := a.ctx.Resolve(t).(type) {
	case types.Var:
		return rt
	case types.Primitive:
		if rt.IsNumeric() || rt == types.Any {
			return rt
		}
		a.errorf(e.OpPos, errOperandType, e.Op, rt)
	default:
		a.errorf(e.OpPos, errOperandType, e.Op, a.ctx.String(rt))
	}
	return types.Any
}

// VisitUnaryExpr checks that negation applies to a number and keeps the
// operand's type either way.
func (a *analyzer) VisitUnaryExpr(e *ast.UnaryExpr) types.Type {
	t := a.expr(e.Operand)
	switch rt := a.ctx.Resolve(t).(type) {
	case types.Var:
	case types.Primitive:
		if !rt.IsNumeric() && rt != types.Any {
			a.errorf(e.Pos(), errUnaryOperand, rt)
		}
	default:
		a.errorf(e.Pos(), errUnaryOperand, a.ctx.String(rt))
	}
	return t
}

func (a *analyzer) VisitCallExpr(c *ast.CallExpr) types.Type {
	args := make([]types.Type, len(c.Args))
	for i, arg := range c.Args {
		args[i] = a.expr(arg)
	}

	sym, ok := a.scopes.Lookup(c.Name)
	if !ok {
		a.errorf(c.NamePos, errUndefinedFunc, c.Name)
		return types.Any
	}
	a.called[sym] = true

	switch t := a.ctx.Resolve(sym.Type).(type) {
	case *types.Func:
		return a.apply(c, t, args)
	case types.Var:
		// A parameter or variable called as a function.
		fn := types.NewFunc(a.ctx.Fresh(), args...)
		if _, err := a.ctx.Unify(t, fn); err != nil {
			a.errorf(c.NamePos, errNotFunction, c.Name, a.ctx.String(t))
			return types.Any
		}
		return fn.Result
	default:
		if !types.IsPrimitive(t, types.Any) {
			a.errorf(c.NamePos, errNotFunction, c.Name, t)
		}
		return types.Any
	}
}

// apply checks args against fn and returns the call's result type. An
// arity mismatch is reported once and the result type still flows on.
func (a *analyzer) apply(c *ast.CallExpr, fn *types.Func, args []types.Type) types.Type {
	if fn.Variadic {
		for i, t := range args {
			a.argument(c, i, fn.Params[0], t)
		}
		return fn.Result
	}
	if len(args) != len(fn.Params) {
		a.errorf(c.NamePos, errArgCount, c.Name, len(args), len(fn.Params))
		return fn.Result
	}
	for i, t := range args {
		a.argument(c, i, fn.Params[i], t)
	}
	return fn.Result
}

// argument unifies the i-th argument with its parameter. A parameter of
// type any accepts the argument without binding it, so an argument
// variable stays open for later uses.
func (a *analyzer) argument(c *ast.CallExpr, i int, param, arg types.Type) {
	if types.IsPrimitive(a.ctx.Resolve(param), types.Any) {
		return
	}
	if _, err := a.ctx.Unify(param, arg); err != nil {
		a.errorf(c.Args[i].Pos(), errArgType, i+1, c.Name, err)
	}
}

// -----------------------------------------------------------------------------
// Statements
// -----------------------------------------------------------------------------

// VisitAssignStmt defines an unknown name in the current scope, or
// unifies a known one with the assigned value.
func (a *analyzer) VisitAssignStmt(s *ast.AssignStmt) types.Type {
	t := a.expr(s.Value)
	sym, ok := a.scopes.Lookup(s.Name)
	if !ok {
		a.define(&Symbol{Name: s.Name, Kind: SymbolVariable, Type: t, Pos: s.NamePos, Initialized: true})
		return nil
	}
	if sym.IsFunction() {
		a.errorf(s.NamePos, errAssignFunc, s.Name)
		return nil
	}
	if _, err := a.ctx.Unify(sym.Type, t); err != nil {
		a.errorf(s.NamePos, errAssign, s.Name, err)
	}
	sym.Initialized = true
	return nil
}

func (a *analyzer) VisitExprStmt(s *ast.ExprStmt) types.Type {
	a.expr(s.Expr)
	return nil
}

func (a *analyzer) VisitEmptyStmt(*ast.EmptyStmt) types.Type {
	return nil
}

func (a *analyzer) VisitBlockStmt(b *ast.BlockStmt) types.Type {
	a.push("block")
	for _, s := range b.Stmts {
		a.stmt(s)
	}
	a.pop()
	return nil
}

func (a *analyzer) VisitIfStmt(s *ast.IfStmt) types.Type {
	a.condition(s.Cond)
	a.stmt(s.Then)
	a.stmt(s.Else)
	return nil
}

func (a *analyzer) VisitWhileStmt(s *ast.WhileStmt) types.Type {
	a.condition(s.Cond)
	a.stmt(s.Body)
	return nil
}

// VisitForStmt opens a scope for the loop clauses.
func (a *analyzer) VisitForStmt(s *ast.ForStmt) types.Type {
	a.push("for")
	a.stmt(s.Init)
	a.condition(s.Cond)
	a.stmt(s.Post)
	a.stmt(s.Body)
	a.pop()
	return nil
}

func (a *analyzer) VisitReturnStmt(s *ast.ReturnStmt) types.Type {
	var t types.Type = types.Null
	if s.Value != nil {
		t = a.expr(s.Value)
	}
	if a.fn == nil {
		a.errorf(s.Pos(), errReturnOutsideFunc)
		return nil
	}
	if _, err := a.ctx.Unify(a.fn.Result, t); err != nil {
		a.errorf(s.Pos(), errReturn, err)
	}
	return nil
}
