// Package stardust compiles programs of the stardust teaching language.
//
// The toolchain is built from first principles:
//   - Token classes are regular expressions compiled to DFAs by Thompson
//     and subset construction, cross-checked against coregex
//   - The grammar is LL(1); FIRST/FOLLOW sets and the predictive table
//     are derived at startup and conflicts are reported
//   - A hand-written recursive descent parser builds the syntax tree
//   - Types are inferred by unification over a union-find arena
//
// # Quick Start
//
// Compile a program and inspect the inferred types:
//
//	unit, err := stardust.Compile(`x = 1; y = x + 2.5;`, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, sym := range unit.Symbols() {
//	    fmt.Println(sym.Name, sym.Type)
//	}
//
// With configuration:
//
//	unit, err := stardust.Compile(src, &stardust.Config{
//	    Filename:      "main.sd",
//	    CrossValidate: true,
//	})
//
// # Diagnostics
//
// [Diagnostics] never fails. It returns every lexical error, the syntax
// error if any, and all semantic errors and warnings, sorted by position.
// Editors use it through the language server in cmd/stardust.
//
// # Error Handling
//
// Errors are returned as specific types for detailed handling:
//   - [ParseError]: lexical and syntax errors; parsing stops at the first
//   - [CompileError]: all semantic errors of the program
//   - [ValidationError]: the grammar table rejected a parsed program
//   - [GrammarError]: the grammar is not LL(1)
//
// # Thread Safety
//
// [Compile], [Tokenize] and [Diagnostics] are safe for concurrent use.
// The default lexicon and the grammar table are built once and shared
// read-only.
package stardust
