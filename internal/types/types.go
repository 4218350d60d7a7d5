// Package types defines the static types of stardust and the inference
// context that resolves type variables by unification.
package types

import (
	"fmt"
	"strings"
)

// Type is a stardust type: a Primitive, a *Func or a Var.
type Type interface {
	String() string
	isType()
}

// Primitive is one of the built-in scalar types.
type Primitive uint8

const (
	Int Primitive = iota
	Float
	String
	Bool
	Null
	Any // unknown; also the fallback after a type error
)

var primitiveNames = [...]string{
	Int:    "int",
	Float:  "float",
	String: "string",
	Bool:   "bool",
	Null:   "null",
	Any:    "any",
}

// String returns the primitive's name.
func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return fmt.Sprintf("primitive(%d)", uint8(p))
}

// IsNumeric reports whether p is int or float.
func (p Primitive) IsNumeric() bool {
	return p == Int || p == Float
}

func (Primitive) isType() {}

// Func is a function type with ordered parameters. A variadic function
// accepts any number of arguments, each unified with the single
// parameter type.
type Func struct {
	Params   []Type
	Result   Type
	Variadic bool
}

// NewFunc returns a function type.
func NewFunc(result Type, params ...Type) *Func {
	return &Func{Params: params, Result: result}
}

// String formats the function as "fn(int, t0) -> string".
func (f *Func) String() string {
	var sb strings.Builder
	sb.WriteString("fn(")
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	if f.Variadic {
		sb.WriteString("...")
	}
	sb.WriteString(") -> ")
	sb.WriteString(f.Result.String())
	return sb.String()
}

func (*Func) isType() {}

// Var is a type variable: an index into the arena of the Context that
// created it. A Var means nothing outside its Context.
type Var int

// String returns "t" followed by the variable index.
func (v Var) String() string {
	return fmt.Sprintf("t%d", int(v))
}

func (Var) isType() {}

// IsPrimitive reports whether t is the primitive p.
func IsPrimitive(t Type, p Primitive) bool {
	q, ok := t.(Primitive)
	return ok && q == p
}
