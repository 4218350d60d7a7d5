package stardust

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/tliron/commonlog"

	"github.com/kolkov/stardust/internal/ast"
	"github.com/kolkov/stardust/internal/grammar"
	"github.com/kolkov/stardust/internal/lexer"
	"github.com/kolkov/stardust/internal/parser"
	"github.com/kolkov/stardust/internal/semantic"
	"github.com/kolkov/stardust/internal/token"
	"github.com/kolkov/stardust/internal/types"
)

// Version is the stardust toolchain version.
const Version = "0.3.0"

var log = commonlog.GetLogger("stardust")

// Unit is a parsed and type-checked stardust program.
// Type queries compress the inference context in place, so a Unit must
// not be queried from several goroutines at once.
type Unit struct {
	filename string
	source   string
	program  *ast.Program
	result   *semantic.Result
}

// Compile lexes, parses and analyzes src.
//
// Lexical and syntax errors are reported as *ParseError, semantic errors
// as *CompileError. A nil config selects the defaults.
func Compile(src string, config *Config) (*Unit, error) {
	cfg := resolveConfig(config)

	if cfg.VerifyLexicon {
		if err := lexer.Default().Verify(); err != nil {
			return nil, fmt.Errorf("lexicon check failed: %w", err)
		}
	}

	prog, err := parser.ParseFile(cfg.Filename, src)
	if err != nil {
		return nil, toParseError(cfg.Filename, err)
	}

	if cfg.CrossValidate {
		if _, err := parser.Validate(lexer.NewFile(cfg.Filename, src, nil).All()); err != nil {
			return nil, &ValidationError{Err: err}
		}
	}

	result, err := semantic.Analyze(prog)
	if err != nil {
		return nil, toCompileError(result.Errors, cfg.MaxErrors)
	}

	log.Debugf("compiled %s: %d items, %d symbols, %d warnings",
		displayName(cfg.Filename), len(prog.Items), len(result.Symbols()), len(result.Warnings))
	return &Unit{filename: cfg.Filename, source: src, program: prog, result: result}, nil
}

// MustCompile is like Compile but panics on error.
// Useful for programs known to be valid at compile time.
func MustCompile(src string) *Unit {
	u, err := Compile(src, nil)
	if err != nil {
		panic(err)
	}
	return u
}

// Check is like Compile but only reports whether src is valid.
func Check(src string, config *Config) error {
	_, err := Compile(src, config)
	return err
}

// Program returns the syntax tree.
func (u *Unit) Program() *ast.Program {
	return u.program
}

// Source returns the source text the unit was compiled from.
func (u *Unit) Source() string {
	return u.source
}

// Filename returns the configured file name, which may be empty.
func (u *Unit) Filename() string {
	return u.filename
}

// TypeOf returns the resolved type of an expression of the unit's
// program, or nil for expressions from elsewhere.
func (u *Unit) TypeOf(e ast.Expr) types.Type {
	return u.result.TypeOf(e)
}

// Symbol describes a user-defined name and its inferred type.
type Symbol struct {
	Name     string
	Kind     string // "variable", "param" or "function"
	Type     string // Resolved type, possibly containing free variables
	Scope    string // Name of the defining scope
	Line     int
	Column   int
	Resolved bool // The type contains no free variables
}

// Symbols returns the user-defined symbols in definition order.
func (u *Unit) Symbols() []Symbol {
	ctx := u.result.Context
	out := make([]Symbol, 0, len(u.result.Symbols()))
	for _, sym := range u.result.Symbols() {
		out = append(out, Symbol{
			Name:     sym.Name,
			Kind:     sym.Kind.String(),
			Type:     ctx.String(sym.Type),
			Scope:    sym.Scope.Name(),
			Line:     sym.Pos.Line,
			Column:   sym.Pos.Column,
			Resolved: !ctx.IsFree(sym.Type),
		})
	}
	return out
}

// Warnings returns the non-fatal findings of the analysis, sorted by
// position.
func (u *Unit) Warnings() []Diagnostic {
	out := make([]Diagnostic, 0, len(u.result.Warnings))
	for _, w := range u.result.Warnings {
		out = append(out, newDiagnostic(SeverityWarning, SourceSemantic, w.Pos, w.Message))
	}
	sortDiagnostics(out)
	return out
}

// Token is a lexical token of stardust source.
type Token struct {
	Kind   string // Grammar terminal name, such as "IDENT" or "+", or "EOF"
	Value  string // Lexeme as written
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d %s %q", t.Line, t.Column, t.Kind, t.Value)
}

// Tokenize scans src. Unrecognized input yields ILLEGAL tokens; the
// result always ends with an EOF token.
func Tokenize(src string) []Token {
	toks := lexer.Tokenize(src)
	out := make([]Token, len(toks))
	for i, t := range toks {
		kind := t.Terminal()
		if t.Type == token.EOF {
			kind = "EOF"
		}
		out[i] = Token{Kind: kind, Value: t.Value, Line: t.Pos.Line, Column: t.Pos.Column}
	}
	return out
}

// VerifyGrammar analyzes the built-in grammar and reports a *GrammarError
// if it is not LL(1).
func VerifyGrammar() error {
	return analyzeGrammar(grammar.Stardust())
}

func analyzeGrammar(g *grammar.Grammar) error {
	_, err := grammar.Analyze(g)
	var ce *grammar.ConflictError
	if errors.As(err, &ce) {
		return newGrammarError(ce)
	}
	return err
}

// Diagnostics compiles src and returns every finding sorted by position:
// recovered lexical errors, the syntax error if any, and otherwise all
// semantic errors and warnings. Config.MaxErrors does not apply.
func Diagnostics(src string, config *Config) []Diagnostic {
	cfg := resolveConfig(config)

	lx := lexer.NewFile(cfg.Filename, src, nil)
	lx.All()
	var out []Diagnostic
	lexed := make(map[int]bool)
	for _, e := range lx.Errors() {
		out = append(out, newDiagnostic(SeverityError, SourceLexer, e.Pos, e.Message))
		lexed[e.Pos.Offset] = true
	}

	prog, err := parser.ParseFile(cfg.Filename, src)
	if err != nil {
		var pe *parser.ParseError
		// A syntax error on an illegal token repeats the lexer's message.
		if errors.As(err, &pe) && !lexed[pe.Pos.Offset] {
			out = append(out, newDiagnostic(SeverityError, SourceParser, pe.Pos, pe.Message))
		}
		sortDiagnostics(out)
		return out
	}

	result, _ := semantic.Analyze(prog)
	for _, e := range result.Errors {
		out = append(out, newDiagnostic(SeverityError, SourceSemantic, e.Pos, e.Message))
	}
	for _, w := range result.Warnings {
		out = append(out, newDiagnostic(SeverityWarning, SourceSemantic, w.Pos, w.Message))
	}
	sortDiagnostics(out)
	return out
}

func sortDiagnostics(ds []Diagnostic) {
	slices.SortStableFunc(ds, func(a, b Diagnostic) int {
		if c := cmp.Compare(a.Line, b.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Column, b.Column)
	})
}

func toParseError(filename string, err error) error {
	if pe, ok := err.(*parser.ParseError); ok {
		return &ParseError{
			Filename: filename,
			Line:     pe.Pos.Line,
			Column:   pe.Pos.Column,
			Message:  pe.Message,
		}
	}
	return &ParseError{Filename: filename, Message: err.Error()}
}

func toCompileError(errs semantic.ErrorList, limit int) *CompileError {
	ce := &CompileError{}
	for i, e := range errs {
		if limit > 0 && i == limit {
			ce.Truncated = len(errs) - limit
			break
		}
		ce.Errors = append(ce.Errors, newDiagnostic(SeverityError, SourceSemantic, e.Pos, e.Message))
	}
	return ce
}

func displayName(filename string) string {
	if filename == "" {
		return "<input>"
	}
	return filename
}

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Phases that report diagnostics.
const (
	SourceLexer    = "lexer"
	SourceParser   = "parser"
	SourceSemantic = "semantic"
)

// Diagnostic is a positioned error or warning.
type Diagnostic struct {
	Severity Severity
	Source   string // Reporting phase, one of the Source constants
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Column, d.Severity, d.Message)
}

func newDiagnostic(sev Severity, source string, pos token.Position, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Source: source, Line: pos.Line, Column: pos.Column, Message: msg}
}
