// Package parser provides a recursive descent parser for stardust.
//
// Parsing is fail fast: the first unexpected token aborts the whole
// translation unit with a single *ParseError.
package parser

import (
	"fmt"

	"github.com/kolkov/stardust/internal/lexer"
	"github.com/kolkov/stardust/internal/token"
)

// ParseError represents a syntax error encountered during parsing.
// It implements the error interface and includes source position information.
type ParseError struct {
	Pos     token.Position // Position where the error occurred
	Message string         // Human-readable error message
	Got     string         // Token that was found (optional)
	Want    string         // Token class that was expected (optional)
}

// Error returns a formatted error message with position information.
func (e *ParseError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return e.Message
}

// errorf creates a ParseError at the given position with formatted message.
func errorf(pos token.Position, format string, args ...any) *ParseError {
	return &ParseError{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}

// expectedError creates a ParseError for an unexpected token.
func expectedError(tok lexer.Token, want string) *ParseError {
	got := describe(tok)
	return &ParseError{
		Pos:     tok.Pos,
		Message: fmt.Sprintf("expected %s, got %s", want, got),
		Want:    want,
		Got:     got,
	}
}

// describe returns a human-readable description of tok.
func describe(tok lexer.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of file"
	case token.IDENT:
		return fmt.Sprintf("identifier %s", tok.Value)
	case token.INT, token.FLOAT:
		return fmt.Sprintf("number %s", tok.Value)
	case token.STRING:
		return fmt.Sprintf("string %s", tok.Value)
	case token.ILLEGAL:
		return fmt.Sprintf("illegal %q", tok.Value)
	}
	return fmt.Sprintf("%q", tok.Type.String())
}

// kindName is the name of a token class in "expected ..." messages.
func kindName(k token.Kind) string {
	switch k {
	case token.IDENT:
		return "identifier"
	case token.EOF:
		return "end of file"
	}
	return fmt.Sprintf("%q", k.String())
}
