package semantic

import (
	"github.com/kolkov/stardust/internal/token"
	"github.com/kolkov/stardust/internal/types"
)

// SymbolKind defines the category of a symbol.
type SymbolKind int

const (
	SymbolVariable SymbolKind = iota // Variable defined by assignment or first use
	SymbolParam                      // Function parameter
	SymbolFunction                   // User-defined function
	SymbolBuiltin                    // Built-in function
)

// String returns a human-readable name for the symbol kind.
func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "variable"
	case SymbolParam:
		return "param"
	case SymbolFunction:
		return "function"
	case SymbolBuiltin:
		return "builtin"
	default:
		return "unknown"
	}
}

// Symbol holds information about a declared symbol.
type Symbol struct {
	Name        string         // Symbol name
	Kind        SymbolKind     // Category
	Type        types.Type     // Possibly a variable; resolve through the analysis context
	Pos         token.Position // Declaration position
	Initialized bool           // Assigned before any read
	Scope       *Scope         // Defining scope
}

// IsFunction returns true if the symbol names a function.
func (s *Symbol) IsFunction() bool {
	return s.Kind == SymbolFunction || s.Kind == SymbolBuiltin
}

// Scope owns the symbols declared directly in it.
type Scope struct {
	name    string
	depth   int
	symbols map[string]*Symbol
	order   []*Symbol
}

func newScope(name string, depth int) *Scope {
	return &Scope{
		name:    name,
		depth:   depth,
		symbols: make(map[string]*Symbol),
	}
}

// Name returns the scope name, such as "global" or a function name.
func (s *Scope) Name() string {
	return s.name
}

// Depth returns 0 for the global scope and grows with nesting.
func (s *Scope) Depth() int {
	return s.depth
}

// Define adds sym to the scope. It returns false, leaving the scope
// unchanged, if the name is already declared here.
func (s *Scope) Define(sym *Symbol) bool {
	if _, exists := s.symbols[sym.Name]; exists {
		return false
	}
	sym.Scope = s
	s.symbols[sym.Name] = sym
	s.order = append(s.order, sym)
	return true
}

// LookupLocal searches for a symbol only in this scope.
func (s *Scope) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Symbols returns the symbols of this scope in declaration order.
func (s *Scope) Symbols() []*Symbol {
	return s.order
}

// Scopes is the stack of open scopes. The global scope sits at the
// bottom and is never popped.
type Scopes struct {
	stack []*Scope
}

// NewScopes returns a stack holding only the global scope.
func NewScopes() *Scopes {
	return &Scopes{stack: []*Scope{newScope("global", 0)}}
}

// Global returns the outermost scope.
func (ss *Scopes) Global() *Scope {
	return ss.stack[0]
}

// Current returns the innermost scope.
func (ss *Scopes) Current() *Scope {
	return ss.stack[len(ss.stack)-1]
}

// Push opens a child scope of the current one.
func (ss *Scopes) Push(name string) *Scope {
	s := newScope(name, len(ss.stack))
	ss.stack = append(ss.stack, s)
	return s
}

// Pop closes the innermost scope. Popping the global scope panics.
func (ss *Scopes) Pop() *Scope {
	if len(ss.stack) == 1 {
		panic("semantic: pop of global scope")
	}
	s := ss.Current()
	ss.stack = ss.stack[:len(ss.stack)-1]
	return s
}

// Lookup searches the stack from the innermost scope outwards.
func (ss *Scopes) Lookup(name string) (*Symbol, bool) {
	for i := len(ss.stack) - 1; i >= 0; i-- {
		if sym, ok := ss.stack[i].symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// Define adds sym to the current scope. See [Scope.Define].
func (ss *Scopes) Define(sym *Symbol) bool {
	return ss.Current().Define(sym)
}

// builtins returns the built-in function signatures. Each analysis gets
// its own copies.
func builtins() map[string]*types.Func {
	return map[string]*types.Func{
		"print": {Params: []types.Type{types.Any}, Result: types.Null, Variadic: true},
		"len":   types.NewFunc(types.Int, types.String),
		"str":   types.NewFunc(types.String, types.Any),
	}
}

// builtinOrder fixes the order in which builtins are declared.
var builtinOrder = []string{"print", "len", "str"}

// IsBuiltinFunc returns true if name is a built-in function.
func IsBuiltinFunc(name string) bool {
	_, ok := builtins()[name]
	return ok
}
