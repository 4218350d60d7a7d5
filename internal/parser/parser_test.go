package parser_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/kolkov/stardust/internal/ast"
	"github.com/kolkov/stardust/internal/lexer"
	"github.com/kolkov/stardust/internal/parser"
	"github.com/kolkov/stardust/internal/token"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", src, err)
	}
	return prog
}

// TestParseEmpty tests parsing an empty program.
func TestParseEmpty(t *testing.T) {
	for _, src := range []string{"", "   \n\t", "# only a comment\n"} {
		prog := mustParse(t, src)
		if len(prog.Items) != 0 {
			t.Errorf("Parse(%q) has %d items, want 0", src, len(prog.Items))
		}
	}
}

// TestParseExpr checks grouping by printing the parsed expression with
// every nested binary operand parenthesized.
func TestParseExpr(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"42", "42"},
		{"3.25", "3.25"},
		{`"hi"`, `"hi"`},
		{"true", "true"},
		{"null", "null"},
		{"x", "x"},
		{"1 + 2 * 3", "1 + (2 * 3)"},
		{"(1 + 2) * 3", "(1 + 2) * 3"},
		{"a - b - c", "(a - b) - c"},
		{"a // b % c", "(a // b) % c"},
		{"a / b * c", "(a / b) * c"},
		{"-a * b", "-a * b"},
		{"--a", "--a"},
		{"-(a + b)", "-(a + b)"},
		{"a or b and c", "a or (b and c)"},
		{"a and b or c", "(a and b) or c"},
		{"a < b + 1", "a < (b + 1)"},
		{"a == b and c != d", "(a == b) and (c != d)"},
		{"a <= b or a >= c", "(a <= b) or (a >= c)"},
		{"(a < b) == c", "(a < b) == c"},
		{"f()", "f()"},
		{"max(a, b + 1)", "max(a, b + 1)"},
		{"f(g(x), -1)", "f(g(x), -1)"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := parser.ParseExpr(tt.src)
			if err != nil {
				t.Fatalf("ParseExpr(%q) error = %v", tt.src, err)
			}
			if got := ast.String(e); got != tt.want {
				t.Errorf("ParseExpr(%q) = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestParseExprLiterals(t *testing.T) {
	e, err := parser.ParseExpr(`f(7, 2.5, "a\tb", false)`)
	if err != nil {
		t.Fatal(err)
	}
	call, ok := e.(*ast.CallExpr)
	if !ok || call.Name != "f" || len(call.Args) != 4 {
		t.Fatalf("got %#v", e)
	}
	if lit := call.Args[0].(*ast.Literal); lit.Kind != token.INT || lit.Int != 7 {
		t.Errorf("arg 0 = %+v", lit)
	}
	if lit := call.Args[1].(*ast.Literal); lit.Kind != token.FLOAT || lit.Float != 2.5 {
		t.Errorf("arg 1 = %+v", lit)
	}
	if lit := call.Args[2].(*ast.Literal); lit.Kind != token.STRING || lit.Str != "a\tb" {
		t.Errorf("arg 2 = %+v", lit)
	}
	if lit := call.Args[3].(*ast.Literal); lit.Kind != token.FALSE || lit.Bool() {
		t.Errorf("arg 3 = %+v", lit)
	}
}

func TestParseExprErrors(t *testing.T) {
	tests := []string{
		"",
		"1 +",
		"(a",
		"f(a,)",
		"a b",
		"a < b < c",
		"a == b != c",
		"x = 1",
	}
	for _, src := range tests {
		if _, err := parser.ParseExpr(src); err == nil {
			t.Errorf("ParseExpr(%q) expected error", src)
		}
	}
}

// TestParseStmt tests single statements through the printer.
func TestParseStmt(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"assign", "x = 1 + 2 * 3;", "x = 1 + (2 * 3);"},
		{"call", "print(x);", "print(x);"},
		{"expression", "-x + 1;", "-x + 1;"},
		{"empty", ";", ";"},
		{"bare return", "return;", "return;"},
		{"return", "return x;", "return x;"},
		{"block", "{ x = 1; }", "{\n    x = 1;\n}"},
		{"nested block", "{{}}", "{\n    {}\n}"},
		{"while", "while (i < 10) { i = i + 1; }", "while (i < 10) {\n    i = i + 1;\n}"},
		{"for", "for (i = 0; i < n; i = i + 1) { }", "for (i = 0; i < n; i = i + 1) {}"},
		{"for empty", "for (;;) {}", "for (; ; ) {}"},
		{"for call", "for (init(); ; step()) {}", "for (init(); ; step()) {}"},
		{"if", "if (a) { }", "if (a) {}"},
		{"if else", "if (a) { } else { }", "if (a) {} else {}"},
		{"elsif", "if (a) { } elsif (b) { } elsif (c) { } else { }", "if (a) {} elsif (b) {} elsif (c) {} else {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := mustParse(t, tt.src)
			if len(prog.Items) != 1 {
				t.Fatalf("got %d items, want 1", len(prog.Items))
			}
			if got := ast.String(prog.Items[0]); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestAssignmentLookahead(t *testing.T) {
	prog := mustParse(t, "x = y; x; x == y;")
	if _, ok := prog.Items[0].(*ast.AssignStmt); !ok {
		t.Errorf("item 0 is %T, want *ast.AssignStmt", prog.Items[0])
	}
	for _, it := range prog.Items[1:] {
		if _, ok := it.(*ast.ExprStmt); !ok {
			t.Errorf("item is %T, want *ast.ExprStmt", it)
		}
	}
}

func TestIfChain(t *testing.T) {
	prog := mustParse(t, "if (a) { } elsif (b) { x = 1; } else { }")
	top := prog.Items[0].(*ast.IfStmt)
	if top.Elsif {
		t.Error("outer if marked elsif")
	}
	inner, ok := top.Else.(*ast.IfStmt)
	if !ok || !inner.Elsif {
		t.Fatalf("Else = %T, want elsif *ast.IfStmt", top.Else)
	}
	if len(inner.Then.Stmts) != 1 {
		t.Errorf("elsif body has %d statements", len(inner.Then.Stmts))
	}
	if _, ok := inner.Else.(*ast.BlockStmt); !ok {
		t.Errorf("final else = %T, want *ast.BlockStmt", inner.Else)
	}
}

// TestParseFunction tests function declarations.
func TestParseFunction(t *testing.T) {
	prog := mustParse(t, "function add(a, b) { return a + b; }\nfunction nop() {}\nx = add(1, 2);")
	fns := prog.Functions()
	if len(fns) != 2 {
		t.Fatalf("got %d functions, want 2", len(fns))
	}
	add := fns[0]
	if add.Name != "add" || len(add.Params) != 2 || add.Params[0].Name != "a" || add.Params[1].Name != "b" {
		t.Errorf("add = %s(%v)", add.Name, add.Params)
	}
	if add.NamePos.Line != 1 || add.NamePos.Column != 10 {
		t.Errorf("add.NamePos = %v, want 1:10", add.NamePos)
	}
	if len(fns[1].Params) != 0 {
		t.Errorf("nop has %d params", len(fns[1].Params))
	}
	if len(prog.Statements()) != 1 {
		t.Errorf("got %d statements, want 1", len(prog.Statements()))
	}
}

func TestPositions(t *testing.T) {
	prog := mustParse(t, "x = foo(1, 2);\nif (a) {\n  b = 1;\n}")
	assign := prog.Items[0].(*ast.AssignStmt)
	if got := assign.Pos().String(); got != "1:1" {
		t.Errorf("assign.Pos() = %s", got)
	}
	if got := assign.End(); got.Column != 15 || got.Offset != 14 {
		t.Errorf("assign.End() = %v (offset %d), want 1:15 offset 14", got, got.Offset)
	}
	call := assign.Value.(*ast.CallExpr)
	if call.Pos().String() != "1:5" || call.End().String() != "1:14" {
		t.Errorf("call spans %v-%v", call.Pos(), call.End())
	}
	ifs := prog.Items[1].(*ast.IfStmt)
	if ifs.Pos().String() != "2:1" || ifs.End().String() != "4:2" {
		t.Errorf("if spans %v-%v", ifs.Pos(), ifs.End())
	}
}

// TestParseErrors tests that parse errors are properly reported.
func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		pos  string
		msg  string
	}{
		{"missing operand", "x = ;", "1:5", `expected expression, got ";"`},
		{"missing semicolon", "x = 1", "1:6", `expected ";", got end of file`},
		{"unclosed brace", "while (x) {", "1:12", `expected "}", got end of file`},
		{"unclosed paren", "print(1;", "1:8", `expected ")", got ";"`},
		{"empty condition", "if () {}", "1:5", "expected expression"},
		{"nested function", "if (x) {\n  function f() {}\n}", "2:3", "only allowed at top level"},
		{"illegal character", "x = 1 @ 2;", "1:7", "unexpected character '@'"},
		{"unterminated string", `s = "abc;`, "1:5", "unterminated string literal"},
		{"chained comparison", "ok = a < b < c;", "1:12", "cannot be chained"},
		{"int out of range", "x = 99999999999999999999;", "1:5", "out of range"},
		{"bad escape", `s = "\q";`, "1:5", `unknown escape sequence \q`},
		{"stray else", "else {}", "1:1", `expected statement, got "else"`},
		{"anonymous function", "function (a) {}", "1:10", `expected identifier, got "("`},
		{"trailing comma", "f(a,);", "1:5", "expected expression"},
		{"if without block", "if (a) x = 1;", "1:8", `expected "{", got identifier x`},
		{"stray brace", "}", "1:1", "expected statement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.src)
			if err == nil {
				t.Fatalf("Parse(%q) expected error, got none", tt.src)
			}
			var perr *parser.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error %T is not *ParseError", err)
			}
			if got := perr.Pos.String(); got != tt.pos {
				t.Errorf("position = %s, want %s (%v)", got, tt.pos, err)
			}
			if !strings.Contains(perr.Message, tt.msg) {
				t.Errorf("message = %q, want it to contain %q", perr.Message, tt.msg)
			}
		})
	}
}

func TestParseErrorFields(t *testing.T) {
	_, err := parser.ParseFile("main.sd", "x = ;")
	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v", err)
	}
	if perr.Want != "expression" || perr.Got != `";"` {
		t.Errorf("Want=%q Got=%q", perr.Want, perr.Got)
	}
	if !strings.HasPrefix(err.Error(), "main.sd:1:5: ") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestParseFileSetsFilename(t *testing.T) {
	prog, err := parser.ParseFile("demo.sd", "x = 1;")
	if err != nil {
		t.Fatal(err)
	}
	if prog.Filename != "demo.sd" || prog.Items[0].Pos().Filename != "demo.sd" {
		t.Errorf("filename not recorded: %q %v", prog.Filename, prog.Items[0].Pos())
	}
}

func TestParseTokensSuppliesEOF(t *testing.T) {
	toks := lexer.Tokenize("x = 1;")
	prog, err := parser.ParseTokens(toks[:len(toks)-1])
	if err != nil {
		t.Fatal(err)
	}
	if len(prog.Items) != 1 {
		t.Errorf("got %d items", len(prog.Items))
	}
	if _, err := parser.ParseTokens(nil); err != nil {
		t.Errorf("ParseTokens(nil) error = %v", err)
	}
}

var samplePrograms = []string{
	"",
	"x = 1;",
	"function add(a, b) { return a + b; }\nprint(add(1, 2));",
	"function fib(n) {\n  if (n < 2) { return n; }\n  return fib(n - 1) + fib(n - 2);\n}",
	"i = 0; while (i < 10) { i = i + 1; }",
	"for (i = 0; i < 3; i = i + 1) { print(i); }",
	"for (;;) { return; }",
	"if (a and b or c) { } elsif (d) { ; } else { {} }",
	"x = -(1 + 2) * 3 // 4 % 5;",
	"s = \"a\" + \"b\"; n = len(s); t = str(n);",
	"(x);",
	"-x;",
	"1 == 2;",
	"f(1) < 2;",
	"return;",
	"ok = true; nothing = null; ratio = 1.5;",
}

var badPrograms = []string{
	"x = ;",
	"x = 1",
	"a < b < c;",
	"if (x) { function f() {} }",
	"function f( {}",
	"else {}",
	"f(a,);",
	"{",
	"}",
	"x = 1 @ 2;",
	"if (a) x = 1;",
	"x = y = 1;",
	"f(1)(2);",
}

// TestValidateAgreement checks that the hand-written parser and the
// LL(1) table recognizer accept the same inputs.
func TestValidateAgreement(t *testing.T) {
	for _, src := range samplePrograms {
		toks := lexer.Tokenize(src)
		if _, err := parser.Parse(src); err != nil {
			t.Errorf("Parse(%q) error = %v", src, err)
		}
		if _, err := parser.Validate(toks); err != nil {
			t.Errorf("Validate(%q) error = %v", src, err)
		}
	}
	for _, src := range badPrograms {
		toks := lexer.Tokenize(src)
		if _, err := parser.Parse(src); err == nil {
			t.Errorf("Parse(%q) expected error", src)
		}
		if _, err := parser.Validate(toks); err == nil {
			t.Errorf("Validate(%q) expected error", src)
		}
	}
}

func TestValidateTreeCoversTokens(t *testing.T) {
	src := "function f(a) { return a * 2; } x = f(3);"
	toks := lexer.Tokenize(src)
	tree, err := parser.Validate(toks)
	if err != nil {
		t.Fatal(err)
	}
	if tree.Name != "Program" {
		t.Errorf("root = %s", tree.Name)
	}
	if got, want := len(tree.Leaves()), len(toks)-1; got != want {
		t.Errorf("tree has %d leaves, want %d", got, want)
	}
}
