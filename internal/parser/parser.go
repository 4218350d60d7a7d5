package parser

import (
	"strconv"
	"unicode/utf8"

	"github.com/kolkov/stardust/internal/ast"
	"github.com/kolkov/stardust/internal/grammar"
	"github.com/kolkov/stardust/internal/lexer"
	"github.com/kolkov/stardust/internal/token"
)

// Parser is a recursive descent parser for stardust programs. Its
// procedures follow the nonterminals of [grammar.Stardust] one to one,
// except that expressions are parsed by precedence climbing.
type Parser struct {
	toks []lexer.Token // always ends with EOF
	pos  int           // index of tok in toks
	tok  lexer.Token   // Current token
	prev lexer.Token   // Last consumed token

	// lexer messages for ILLEGAL tokens, by byte offset
	illegal map[int]string
}

// bailout carries the first error up to the entry point.
type bailout struct{ err *ParseError }

// Parse parses a stardust program from source code.
func Parse(src string) (*ast.Program, error) {
	return ParseFile("", src)
}

// ParseFile is like Parse but records filename in positions and in the
// resulting Program.
func ParseFile(filename, src string) (*ast.Program, error) {
	lx := lexer.NewFile(filename, src, nil)
	p := newParser(lx.All())
	for _, e := range lx.Errors() {
		p.illegal[e.Pos.Offset] = e.Message
	}
	prog, err := run(p, p.parseProgram)
	if err != nil {
		return nil, err
	}
	prog.Filename = filename
	return prog, nil
}

// ParseTokens parses an already scanned token stream. A missing
// trailing EOF token is supplied.
func ParseTokens(toks []lexer.Token) (*ast.Program, error) {
	p := newParser(toks)
	return run(p, p.parseProgram)
}

// ParseExpr parses a single expression (useful for testing).
func ParseExpr(src string) (ast.Expr, error) {
	p := newParser(lexer.Tokenize(src))
	return run(p, func() ast.Expr {
		e := p.parseExpr()
		p.expect(token.EOF)
		return e
	})
}

// Validate runs the table-driven LL(1) recognizer of the compiled
// stardust grammar over toks and returns its parse tree. It accepts
// exactly the token streams that Parse accepts.
func Validate(toks []lexer.Token) (*grammar.Branch, error) {
	input := make([]grammar.Token, len(toks))
	for i, t := range toks {
		input[i] = t
	}
	return grammar.Compiled().Table.Recognize(input)
}

func newParser(toks []lexer.Token) *Parser {
	if n := len(toks); n == 0 || toks[n-1].Type != token.EOF {
		var end token.Position
		if n > 0 {
			end = endOf(toks[n-1])
		} else {
			end = token.Position{Line: 1, Column: 1}
		}
		toks = append(toks[:n:n], lexer.Token{Type: token.EOF, Pos: end})
	}
	return &Parser{
		toks:    toks,
		tok:     toks[0],
		illegal: make(map[int]string),
	}
}

// run calls parse and converts a bailout into an error.
func run[T any](p *Parser, parse func() T) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			var zero T
			result, err = zero, b.err
		}
	}()
	return parse(), nil
}

// -----------------------------------------------------------------------------
// Token handling
// -----------------------------------------------------------------------------

// next advances to the next token. It never moves past EOF.
func (p *Parser) next() {
	p.prev = p.tok
	if p.pos < len(p.toks)-1 {
		p.pos++
		p.tok = p.toks[p.pos]
	}
}

// peek returns the token after the current one.
func (p *Parser) peek() lexer.Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}

// match consumes and returns the current token if its kind is one of
// kinds.
func (p *Parser) match(kinds ...token.Kind) (lexer.Token, bool) {
	for _, k := range kinds {
		if p.tok.Type == k {
			tok := p.tok
			p.next()
			return tok, true
		}
	}
	return p.tok, false
}

// expect consumes and returns the current token, which must be of kind
// k. Otherwise the parse is aborted.
func (p *Parser) expect(k token.Kind) lexer.Token {
	tok, ok := p.match(k)
	if !ok {
		p.unexpected(kindName(k))
	}
	return tok
}

// unexpected aborts the parse at the current token.
func (p *Parser) unexpected(want string) {
	if p.tok.Type == token.ILLEGAL {
		msg, ok := p.illegal[p.tok.Pos.Offset]
		if !ok {
			msg = "illegal character " + strconv.Quote(p.tok.Value)
		}
		err := errorf(p.tok.Pos, "%s", msg)
		err.Got, err.Want = describe(p.tok), want
		p.fail(err)
	}
	p.fail(expectedError(p.tok, want))
}

func (p *Parser) fail(err *ParseError) {
	panic(bailout{err})
}

// endOf returns the position just past tok. Tokens never span lines.
func endOf(tok lexer.Token) token.Position {
	end := tok.Pos
	end.Column += utf8.RuneCountInString(tok.Value)
	end.Offset += len(tok.Value)
	return end
}

// -----------------------------------------------------------------------------
// Program parsing
// -----------------------------------------------------------------------------

// parseProgram parses a complete translation unit.
func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{StartPos: p.tok.Pos}
	for p.tok.Type != token.EOF {
		if p.tok.Type == token.FUNCTION {
			prog.Items = append(prog.Items, p.parseFunction())
			continue
		}
		prog.Items = append(prog.Items, p.parseStmt())
	}
	prog.EndPos = p.tok.Pos
	return prog
}

// parseFunction parses a function declaration.
func (p *Parser) parseFunction() *ast.FuncDecl {
	start := p.expect(token.FUNCTION).Pos
	name := p.expect(token.IDENT)
	p.expect(token.LPAREN)

	var params []*ast.Ident
	if p.tok.Type != token.RPAREN {
		for {
			id := p.expect(token.IDENT)
			params = append(params, &ast.Ident{
				BaseExpr: ast.MakeBaseExpr(id.Pos, endOf(id)),
				Name:     id.Value,
			})
			if _, ok := p.match(token.COMMA); !ok {
				break
			}
		}
	}
	p.expect(token.RPAREN)

	body := p.parseBlock()
	return &ast.FuncDecl{
		Name:     name.Value,
		NamePos:  name.Pos,
		Params:   params,
		Body:     body,
		StartPos: start,
		EndPos:   body.End(),
	}
}

// parseBlock parses a block statement { ... }.
func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.expect(token.LBRACE).Pos
	var stmts []ast.Stmt
	for p.tok.Type != token.RBRACE && p.tok.Type != token.EOF {
		stmts = append(stmts, p.parseStmt())
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.BlockStmt{
		BaseStmt: ast.MakeBaseStmt(start, endOf(rbrace)),
		Stmts:    stmts,
	}
}

// -----------------------------------------------------------------------------
// Statement parsing
// -----------------------------------------------------------------------------

// parseStmt parses any statement.
func (p *Parser) parseStmt() ast.Stmt {
	switch p.tok.Type {
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.LBRACE:
		return p.parseBlock()
	case token.SEMICOLON:
		p.next()
		return &ast.EmptyStmt{BaseStmt: ast.MakeBaseStmt(p.prev.Pos, endOf(p.prev))}
	case token.FUNCTION:
		p.fail(errorf(p.tok.Pos, "function declarations are only allowed at top level"))
	}

	stmt := p.parseSimpleStmt()
	end := endOf(p.expect(token.SEMICOLON))
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		s.EndPos = end
	case *ast.ExprStmt:
		s.EndPos = end
	}
	return stmt
}

// parseSimpleStmt parses an assignment or expression statement without
// its terminator. One token of lookahead after an identifier tells the
// two apart.
func (p *Parser) parseSimpleStmt() ast.Stmt {
	if p.tok.Type == token.IDENT && p.peek().Type == token.ASSIGN {
		name := p.tok
		p.next()
		p.next()
		value := p.parseExpr()
		return &ast.AssignStmt{
			BaseStmt: ast.MakeBaseStmt(name.Pos, value.End()),
			Name:     name.Value,
			NamePos:  name.Pos,
			Value:    value,
		}
	}
	if !p.canStartExpr() {
		p.unexpected("statement")
	}
	expr := p.parseExpr()
	return &ast.ExprStmt{
		BaseStmt: ast.MakeBaseStmt(expr.Pos(), expr.End()),
		Expr:     expr,
	}
}

// parseIfStmt parses an if or elsif clause and everything chained to it.
func (p *Parser) parseIfStmt() *ast.IfStmt {
	kw, _ := p.match(token.IF, token.ELSIF)
	cond := p.parseCondition()
	then := p.parseBlock()

	stmt := &ast.IfStmt{
		Cond:  cond,
		Then:  then,
		Elsif: kw.Type == token.ELSIF,
	}
	end := then.End()
	if p.tok.Type == token.ELSIF {
		elsif := p.parseIfStmt()
		stmt.Else = elsif
		end = elsif.End()
	} else if _, ok := p.match(token.ELSE); ok {
		els := p.parseBlock()
		stmt.Else = els
		end = els.End()
	}
	stmt.BaseStmt = ast.MakeBaseStmt(kw.Pos, end)
	return stmt
}

// parseWhileStmt parses a while loop.
func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	start := p.expect(token.WHILE).Pos
	cond := p.parseCondition()
	body := p.parseBlock()
	return &ast.WhileStmt{
		BaseStmt: ast.MakeBaseStmt(start, body.End()),
		Cond:     cond,
		Body:     body,
	}
}

// parseForStmt parses for (init; cond; post) { ... }. Every clause may be
// empty.
func (p *Parser) parseForStmt() *ast.ForStmt {
	start := p.expect(token.FOR).Pos
	p.expect(token.LPAREN)

	init := p.parseForClause(token.SEMICOLON)
	p.expect(token.SEMICOLON)

	var cond ast.Expr
	if p.tok.Type != token.SEMICOLON {
		cond = p.parseExpr()
	}
	p.expect(token.SEMICOLON)

	post := p.parseForClause(token.RPAREN)
	p.expect(token.RPAREN)

	body := p.parseBlock()
	return &ast.ForStmt{
		BaseStmt: ast.MakeBaseStmt(start, body.End()),
		Init:     init,
		Cond:     cond,
		Post:     post,
		Body:     body,
	}
}

func (p *Parser) parseForClause(terminator token.Kind) ast.Stmt {
	if p.tok.Type == terminator {
		return nil
	}
	return p.parseSimpleStmt()
}

// parseReturnStmt parses return with an optional value.
func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.expect(token.RETURN).Pos
	var value ast.Expr
	if p.tok.Type != token.SEMICOLON {
		value = p.parseExpr()
	}
	end := endOf(p.expect(token.SEMICOLON))
	return &ast.ReturnStmt{
		BaseStmt: ast.MakeBaseStmt(start, end),
		Value:    value,
	}
}

// parseCondition parses a parenthesized loop or branch condition.
func (p *Parser) parseCondition() ast.Expr {
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	return cond
}

// -----------------------------------------------------------------------------
// Expression parsing
// -----------------------------------------------------------------------------

// Binding powers, lowest to highest.
const (
	powerOr = 10 * (iota + 1)
	powerAnd
	powerRelational
	powerAdditive
	powerMultiplicative
)

// binaryPower returns the left binding power of an infix operator, or 0
// if k is not one.
func binaryPower(k token.Kind) int {
	switch k {
	case token.OR:
		return powerOr
	case token.AND:
		return powerAnd
	case token.EQUALS, token.NOT_EQUALS, token.LESS, token.GREATER, token.LTE, token.GTE:
		return powerRelational
	case token.ADD, token.SUB:
		return powerAdditive
	case token.MUL, token.DIV, token.FLOOR_DIV, token.MOD:
		return powerMultiplicative
	}
	return 0
}

func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinary(powerOr)
}

// parseBinary parses operators whose binding power is at least min.
// All binary operators are left associative except the relational ones,
// which do not associate at all.
func (p *Parser) parseBinary(min int) ast.Expr {
	left := p.parseUnary()
	for {
		op := p.tok
		power := binaryPower(op.Type)
		if power == 0 || power < min {
			return left
		}
		p.next()
		right := p.parseBinary(power + 1)
		left = &ast.BinaryExpr{
			BaseExpr: ast.MakeBaseExpr(left.Pos(), right.End()),
			Left:     left,
			Op:       op.Type,
			OpPos:    op.Pos,
			Right:    right,
		}
		if op.Type.IsRelational() && p.tok.Type.IsRelational() {
			p.fail(&ParseError{
				Pos:     p.tok.Pos,
				Message: "comparison operators cannot be chained, use and",
				Got:     describe(p.tok),
			})
		}
	}
}

// parseUnary parses unary minus, which binds tighter than any binary
// operator.
func (p *Parser) parseUnary() ast.Expr {
	if minus, ok := p.match(token.SUB); ok {
		operand := p.parseUnary()
		return &ast.UnaryExpr{
			BaseExpr: ast.MakeBaseExpr(minus.Pos, operand.End()),
			Op:       token.SUB,
			Operand:  operand,
		}
	}
	return p.parsePrimary()
}

// canStartExpr reports whether the current token can begin an expression.
func (p *Parser) canStartExpr() bool {
	switch p.tok.Type {
	case token.IDENT, token.INT, token.FLOAT, token.STRING,
		token.TRUE, token.FALSE, token.NULL, token.LPAREN, token.SUB:
		return true
	}
	return false
}

// parsePrimary parses literals, names, calls and parenthesized
// expressions.
func (p *Parser) parsePrimary() ast.Expr {
	tok := p.tok
	switch tok.Type {
	case token.IDENT:
		p.next()
		if p.tok.Type == token.LPAREN {
			return p.parseCall(tok)
		}
		return &ast.Ident{
			BaseExpr: ast.MakeBaseExpr(tok.Pos, endOf(tok)),
			Name:     tok.Value,
		}

	case token.INT, token.FLOAT, token.STRING, token.TRUE, token.FALSE, token.NULL:
		p.next()
		return p.literal(tok)

	case token.LPAREN:
		p.next()
		expr := p.parseExpr()
		p.expect(token.RPAREN)
		return expr
	}
	p.unexpected("expression")
	return nil
}

// literal converts a literal token into a node.
func (p *Parser) literal(tok lexer.Token) *ast.Literal {
	lit := &ast.Literal{
		BaseExpr: ast.MakeBaseExpr(tok.Pos, endOf(tok)),
		Kind:     tok.Type,
		Raw:      tok.Value,
	}
	switch tok.Type {
	case token.INT:
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			p.fail(errorf(tok.Pos, "integer literal %s out of range", tok.Value))
		}
		lit.Int = n
	case token.FLOAT:
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			p.fail(errorf(tok.Pos, "invalid float literal %s", tok.Value))
		}
		lit.Float = f
	case token.STRING:
		s, err := lexer.Unquote(tok.Value)
		if err != nil {
			p.fail(errorf(tok.Pos, "%v", err))
		}
		lit.Str = s
	}
	return lit
}

// parseCall parses the argument list of a call to name.
func (p *Parser) parseCall(name lexer.Token) *ast.CallExpr {
	p.expect(token.LPAREN)
	var args []ast.Expr
	if p.tok.Type != token.RPAREN {
		for {
			args = append(args, p.parseExpr())
			if _, ok := p.match(token.COMMA); !ok {
				break
			}
		}
	}
	rparen := p.expect(token.RPAREN)
	return &ast.CallExpr{
		BaseExpr: ast.MakeBaseExpr(name.Pos, endOf(rparen)),
		Name:     name.Value,
		NamePos:  name.Pos,
		Args:     args,
	}
}
