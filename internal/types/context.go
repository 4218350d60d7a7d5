package types

import "fmt"

// MismatchError reports two types that cannot be unified.
type MismatchError struct {
	Left, Right Type
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("type mismatch: %s vs %s", e.Left, e.Right)
}

// ArityError reports two function types with different parameter counts.
type ArityError struct {
	Left, Right *Func
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("function arity mismatch: %s vs %s", e.Left, e.Right)
}

// Context owns the type variables of one compilation unit. Variables
// live in an arena; each record holds a parent index and, for roots, an
// optional instance. Binding is single assignment: once a root has an
// instance or a parent it is never rebound.
//
// A Context is not safe for concurrent use.
type Context struct {
	parent   []Var
	instance []Type // non-nil only on bound roots; never a Var
}

// NewContext returns an empty inference context.
func NewContext() *Context {
	return &Context{}
}

// Fresh allocates a new unbound type variable.
func (c *Context) Fresh() Var {
	v := Var(len(c.parent))
	c.parent = append(c.parent, v)
	c.instance = append(c.instance, nil)
	return v
}

// Len returns the number of variables allocated so far.
func (c *Context) Len() int {
	return len(c.parent)
}

// find returns the root of v, compressing the path behind it.
func (c *Context) find(v Var) Var {
	root := v
	for c.parent[root] != root {
		root = c.parent[root]
	}
	for c.parent[v] != root {
		next := c.parent[v]
		c.parent[v] = root
		v = next
	}
	return root
}

// Resolve follows variable bindings. The result is a non-variable type,
// or the root variable of an unbound class.
func (c *Context) Resolve(t Type) Type {
	v, ok := t.(Var)
	if !ok {
		return t
	}
	root := c.find(v)
	if inst := c.instance[root]; inst != nil {
		return inst
	}
	return root
}

// Deep resolves t and every type nested in it.
func (c *Context) Deep(t Type) Type {
	switch r := c.Resolve(t).(type) {
	case *Func:
		params := make([]Type, len(r.Params))
		for i, p := range r.Params {
			params[i] = c.Deep(p)
		}
		return &Func{Params: params, Result: c.Deep(r.Result), Variadic: r.Variadic}
	default:
		return r
	}
}

// String formats the fully resolved form of t.
func (c *Context) String(t Type) string {
	return c.Deep(t).String()
}

// IsFree reports whether t contains an unbound variable after
// resolution.
func (c *Context) IsFree(t Type) bool {
	switch r := c.Resolve(t).(type) {
	case Var:
		return true
	case *Func:
		for _, p := range r.Params {
			if c.IsFree(p) {
				return true
			}
		}
		return c.IsFree(r.Result)
	}
	return false
}

// Unify makes a and b equal and returns their common type.
//
// Both sides are resolved first. An unbound variable is bound to the
// other side. Function types unify parameter by parameter and then on
// the result. int and float unify to float without rebinding anything.
// Any unifies with everything and yields the other side. On failure the
// error describes the mismatch and the returned type is Any.
func (c *Context) Unify(a, b Type) (Type, error) {
	a, b = c.Resolve(a), c.Resolve(b)

	if av, ok := a.(Var); ok {
		if bv, ok := b.(Var); ok {
			if av != bv {
				c.parent[av] = bv
			}
			return bv, nil
		}
		return c.bind(av, b)
	}
	if bv, ok := b.(Var); ok {
		return c.bind(bv, a)
	}

	switch at := a.(type) {
	case *Func:
		bt, ok := b.(*Func)
		if !ok {
			if IsPrimitive(b, Any) {
				return a, nil
			}
			return Any, c.mismatch(a, b)
		}
		return c.unifyFunc(at, bt)
	case Primitive:
		if IsPrimitive(b, Any) {
			return a, nil
		}
		bt, ok := b.(Primitive)
		if !ok {
			if at == Any {
				return b, nil
			}
			return Any, c.mismatch(a, b)
		}
		switch {
		case at == bt:
			return at, nil
		case at == Any:
			return bt, nil
		case at.IsNumeric() && bt.IsNumeric():
			return Float, nil
		}
		return Any, c.mismatch(a, b)
	}
	return Any, c.mismatch(a, b)
}

// bind sets the instance of root v to t, which is not a variable.
func (c *Context) bind(v Var, t Type) (Type, error) {
	if c.occurs(v, t) {
		return Any, fmt.Errorf("recursive type: %s occurs in %s", v, c.String(t))
	}
	c.instance[v] = t
	return t, nil
}

func (c *Context) occurs(v Var, t Type) bool {
	switch r := c.Resolve(t).(type) {
	case Var:
		return r == v
	case *Func:
		for _, p := range r.Params {
			if c.occurs(v, p) {
				return true
			}
		}
		return c.occurs(v, r.Result)
	}
	return false
}

func (c *Context) unifyFunc(a, b *Func) (Type, error) {
	if a == b {
		return a, nil
	}
	if len(a.Params) != len(b.Params) || a.Variadic != b.Variadic {
		return Any, &ArityError{Left: c.Deep(a).(*Func), Right: c.Deep(b).(*Func)}
	}
	var first error
	for i := range a.Params {
		if _, err := c.Unify(a.Params[i], b.Params[i]); err != nil && first == nil {
			first = err
		}
	}
	if _, err := c.Unify(a.Result, b.Result); err != nil && first == nil {
		first = err
	}
	return a, first
}

func (c *Context) mismatch(a, b Type) error {
	return &MismatchError{Left: c.Deep(a), Right: c.Deep(b)}
}
