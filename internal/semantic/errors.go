// Package semantic provides semantic analysis for stardust programs.
//
// The analyzer performs:
//   - Name resolution: binding identifiers to symbols through a scope stack
//   - Type inference: unification over type variables owned by one
//     types.Context per analysis
//   - Semantic validation: arity checks, returns outside functions,
//     redeclarations
//
// Errors are batched: analysis always runs over the whole program, and a
// type error yields the fallback type any so that inference continues.
package semantic

import (
	"fmt"
	"strings"

	"github.com/kolkov/stardust/internal/token"
)

// Error represents a semantic analysis error with source location.
type Error struct {
	Pos     token.Position
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Warning represents a semantic warning (non-fatal issue).
type Warning struct {
	Pos     token.Position
	Message string
}

// String returns the warning as a formatted string.
func (w *Warning) String() string {
	return fmt.Sprintf("%s: warning: %s", w.Pos, w.Message)
}

// ErrorList is a collection of semantic errors.
type ErrorList []*Error

// Add appends an error to the list.
func (el *ErrorList) Add(pos token.Position, format string, args ...any) {
	*el = append(*el, &Error{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	})
}

// Err returns an error if the list is non-empty, nil otherwise.
func (el ErrorList) Err() error {
	if len(el) == 0 {
		return nil
	}
	return el
}

// Error implements the error interface for ErrorList.
func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	default:
		var sb strings.Builder
		sb.WriteString(el[0].Error())
		for _, e := range el[1:] {
			sb.WriteByte('\n')
			sb.WriteString(e.Error())
		}
		return sb.String()
	}
}

// WarningList is a collection of semantic warnings.
type WarningList []*Warning

// Add appends a warning to the list.
func (wl *WarningList) Add(pos token.Position, format string, args ...any) {
	*wl = append(*wl, &Warning{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	})
}

// Common error messages as constants for consistency.
const (
	errReturnOutsideFunc = "return statement must be inside a function"
	errUndefinedFunc     = "undefined function %q"
	errDuplicateFunc     = "function %q already defined"
	errDuplicateParam    = "duplicate parameter %q in function %q"
	errNotFunction       = "cannot call %q of type %s"
	errArgCount          = "wrong number of arguments in call to %q: have %d, want %d"
	errArgType           = "argument %d in call to %q: %v"
	errAssignFunc        = "cannot assign to function %q"
	errAssign            = "assignment to %q: %v"
	errReturn            = "return: %v"
	errCondition         = "condition must be bool: %v"
	errLogicalOperand    = "operand of %s must be bool: %v"
	errComparison        = "comparison %s: %v"
	errArithmetic        = "operator %s: %v"
	errOperandType       = "operator %s not defined on %s"
	errUnaryOperand      = "unary - applied to non-number %s"
)

// Common warning messages.
const (
	warnUseBeforeAssign = "variable %q is used before assignment"
	warnUnusedFunc      = "function %q is declared but never called"
)
