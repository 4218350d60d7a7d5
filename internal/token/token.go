// Package token defines the lexical token kinds of the stardust language.
//
// Every kind has exactly one canonical terminal name, the string that the
// grammar uses for it. Parsers compare kinds, never lexemes.
package token

// Kind represents a lexical token class.
type Kind uint8

const (
	// Special tokens
	ILLEGAL Kind = iota // ILLEGAL
	EOF                 // $
	COMMENT             // COMMENT

	// Literals
	literalStart
	IDENT  // IDENT
	INT    // INT
	FLOAT  // FLOAT
	STRING // STRING
	literalEnd

	// Operators and delimiters
	operatorStart
	ADD       // +
	SUB       // -
	MUL       // *
	DIV       // /
	FLOOR_DIV // //
	MOD       // %

	EQUALS     // ==
	NOT_EQUALS // !=
	LESS       // <
	GREATER    // >
	LTE        // <=
	GTE        // >=

	ASSIGN    // =
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	COMMA     // ,
	SEMICOLON // ;
	operatorEnd

	// Keywords
	keywordStart
	FUNCTION // function
	IF       // if
	ELSIF    // elsif
	ELSE     // else
	WHILE    // while
	FOR      // for
	RETURN   // return
	TRUE     // true
	FALSE    // false
	NULL     // null
	AND      // and
	OR       // or
	keywordEnd
)

// EndMarker is the terminal name of EOF.
const EndMarker = "$"

var names = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     EndMarker,
	COMMENT: "COMMENT",

	IDENT:  "IDENT",
	INT:    "INT",
	FLOAT:  "FLOAT",
	STRING: "STRING",

	ADD:       "+",
	SUB:       "-",
	MUL:       "*",
	DIV:       "/",
	FLOOR_DIV: "//",
	MOD:       "%",

	EQUALS:     "==",
	NOT_EQUALS: "!=",
	LESS:       "<",
	GREATER:    ">",
	LTE:        "<=",
	GTE:        ">=",

	ASSIGN:    "=",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	COMMA:     ",",
	SEMICOLON: ";",

	FUNCTION: "function",
	IF:       "if",
	ELSIF:    "elsif",
	ELSE:     "else",
	WHILE:    "while",
	FOR:      "for",
	RETURN:   "return",
	TRUE:     "true",
	FALSE:    "false",
	NULL:     "null",
	AND:      "and",
	OR:       "or",
}

// String returns the canonical terminal name of the kind.
func (k Kind) String() string {
	if int(k) < len(names) && names[k] != "" {
		return names[k]
	}
	return "ILLEGAL"
}

// IsLiteral reports whether the kind is IDENT, INT, FLOAT or STRING.
func (k Kind) IsLiteral() bool {
	return k > literalStart && k < literalEnd
}

// IsOperator reports whether the kind is an operator or delimiter.
func (k Kind) IsOperator() bool {
	return k > operatorStart && k < operatorEnd
}

// IsKeyword reports whether the kind is a reserved word.
func (k Kind) IsKeyword() bool {
	return k > keywordStart && k < keywordEnd
}

// IsRelational reports whether the kind is a comparison operator.
func (k Kind) IsRelational() bool {
	return k >= EQUALS && k <= GTE
}

// Keywords returns the reserved words in declaration order.
func Keywords() []Kind {
	kinds := make([]Kind, 0, keywordEnd-keywordStart-1)
	for k := keywordStart + 1; k < keywordEnd; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Operators returns the operators and delimiters in declaration order.
func Operators() []Kind {
	kinds := make([]Kind, 0, operatorEnd-operatorStart-1)
	for k := operatorStart + 1; k < operatorEnd; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

var terminals map[string]Kind

func init() {
	terminals = make(map[string]Kind, len(names))
	for k, name := range names {
		if name != "" {
			terminals[name] = Kind(k)
		}
	}
}

// Lookup returns the kind whose terminal name is name.
// The second result is false if no kind has that name.
func Lookup(name string) (Kind, bool) {
	k, ok := terminals[name]
	return k, ok
}
