package grammar

import "sync"

// Stardust returns the stardust language grammar. Terminal names are the
// canonical token kind names: IDENT, INT, FLOAT, STRING and the literal
// spellings of keywords and operators.
//
// Expressions are layered by precedence, lowest first: or, and,
// comparison (non-associative), additive, multiplicative, unary minus.
// A statement that starts with an identifier is an assignment or an
// expression; IdentRest decides on the token after the identifier.
func Stardust() *Grammar {
	g := New("Program")

	g.Add("Program", P("ItemList"))
	g.Add("ItemList", P("Item", "ItemList"), P())
	g.Add("Item", P("FunctionDecl"), P("Statement"))

	g.Add("FunctionDecl", P("function", "IDENT", "(", "ParamListOpt", ")", "Block"))
	g.Add("ParamListOpt", P("IDENT", "ParamTail"), P())
	g.Add("ParamTail", P(",", "IDENT", "ParamTail"), P())

	g.Add("Block", P("{", "StatementList", "}"))
	g.Add("StatementList", P("Statement", "StatementList"), P())

	g.Add("Statement",
		P("if", "(", "Expression", ")", "Block", "ElsifPart", "ElsePart"),
		P("while", "(", "Expression", ")", "Block"),
		P("for", "(", "SimpleOpt", ";", "ExpressionOpt", ";", "SimpleOpt", ")", "Block"),
		P("return", "ExpressionOpt", ";"),
		P("Block"),
		P(";"),
		P("SimpleStmt", ";"),
	)
	g.Add("ElsifPart", P("elsif", "(", "Expression", ")", "Block", "ElsifPart"), P())
	g.Add("ElsePart", P("else", "Block"), P())

	g.Add("SimpleOpt", P("SimpleStmt"), P())
	g.Add("SimpleStmt", P("IDENT", "IdentRest"), P("LeadOperand", "ExprTail"))
	g.Add("IdentRest", P("=", "Expression"), P("CallOpt", "ExprTail"))
	g.Add("ExprTail", P("MulTail", "AddTail", "RelTail", "AndTail", "OrTail"))
	g.Add("LeadOperand",
		P("-", "Unary"),
		P("INT"), P("FLOAT"), P("STRING"),
		P("true"), P("false"), P("null"),
		P("(", "Expression", ")"),
	)
	g.Add("ExpressionOpt", P("Expression"), P())

	g.Add("Expression", P("OrExpr"))
	g.Add("OrExpr", P("AndExpr", "OrTail"))
	g.Add("OrTail", P("or", "AndExpr", "OrTail"), P())
	g.Add("AndExpr", P("RelExpr", "AndTail"))
	g.Add("AndTail", P("and", "RelExpr", "AndTail"), P())
	g.Add("RelExpr", P("AddExpr", "RelTail"))
	g.Add("RelTail", P("RelOp", "AddExpr"), P())
	g.Add("RelOp", P("=="), P("!="), P("<"), P(">"), P("<="), P(">="))
	g.Add("AddExpr", P("MulExpr", "AddTail"))
	g.Add("AddTail", P("AddOp", "MulExpr", "AddTail"), P())
	g.Add("AddOp", P("+"), P("-"))
	g.Add("MulExpr", P("Unary", "MulTail"))
	g.Add("MulTail", P("MulOp", "Unary", "MulTail"), P())
	g.Add("MulOp", P("*"), P("/"), P("//"), P("%"))
	g.Add("Unary", P("-", "Unary"), P("Primary"))
	g.Add("Primary",
		P("IDENT", "CallOpt"),
		P("INT"), P("FLOAT"), P("STRING"),
		P("true"), P("false"), P("null"),
		P("(", "Expression", ")"),
	)
	g.Add("CallOpt", P("(", "ArgsOpt", ")"), P())
	g.Add("ArgsOpt", P("Expression", "ArgTail"), P())
	g.Add("ArgTail", P(",", "Expression", "ArgTail"), P())

	return g
}

var (
	compiledOnce sync.Once
	compiled     *Analysis
)

// Compiled returns the analysis of [Stardust]. It is built on first use
// and shared read-only afterwards. A conflict in the built-in grammar is
// a programming error and panics.
func Compiled() *Analysis {
	compiledOnce.Do(func() {
		a, err := Analyze(Stardust())
		if err != nil {
			panic(err)
		}
		compiled = a
	})
	return compiled
}
