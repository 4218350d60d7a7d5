package stardust

import (
	"fmt"

	"github.com/kolkov/stardust/internal/grammar"
)

// ParseError represents a lexical or syntax error in stardust source.
type ParseError struct {
	Filename string // May be empty
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Message  string // Error description
}

func (e *ParseError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("parse error at %s:%d:%d: %s", e.Filename, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// CompileError holds the semantic errors of a program, in source order.
type CompileError struct {
	Errors    []Diagnostic // At most Config.MaxErrors entries
	Truncated int          // Errors dropped by the cap
}

func (e *CompileError) Error() string {
	if len(e.Errors) == 0 {
		return "compile error"
	}
	msg := fmt.Sprintf("compile error: %s", e.Errors[0])
	if more := len(e.Errors) - 1 + e.Truncated; more > 0 {
		msg += fmt.Sprintf(" (and %d more)", more)
	}
	return msg
}

// GrammarError reports that a grammar is not LL(1).
type GrammarError struct {
	Nonterminal string // Nonterminal with two productions for one lookahead
	Terminal    string // The shared lookahead terminal
	Existing    string // Production that claimed the cell first
	Conflicting string // Production that collided with it

	err *grammar.ConflictError
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("grammar error: %s", e.err)
}

// Unwrap returns the underlying *grammar.ConflictError.
func (e *GrammarError) Unwrap() error {
	return e.err
}

func newGrammarError(ce *grammar.ConflictError) *GrammarError {
	return &GrammarError{
		Nonterminal: ce.Nonterminal,
		Terminal:    ce.Terminal,
		Existing:    ce.Existing.String(),
		Conflicting: ce.Conflicting.String(),
		err:         ce,
	}
}

// ValidationError reports a program the parser accepted but the grammar
// table rejected. It indicates a bug in one of the two.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: grammar table rejected the program: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
