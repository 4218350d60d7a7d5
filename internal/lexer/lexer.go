// Package lexer provides stardust source code tokenization.
//
// Scanning is table driven: every token class of a [Lexicon] owns a DFA
// built by subset construction. At each position all classes run to
// their longest accepting prefix; the longest wins and declaration order
// breaks ties.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kolkov/stardust/internal/token"
)

// Token represents a scanned token with its position and lexeme.
type Token struct {
	Type  token.Kind
	Pos   token.Position
	Value string
}

// Terminal returns the grammar terminal name of the token.
func (t Token) Terminal() string {
	return t.Type.String()
}

func (t Token) String() string {
	switch t.Type {
	case token.EOF:
		return "end of file"
	case token.IDENT, token.INT, token.FLOAT, token.STRING, token.ILLEGAL:
		return fmt.Sprintf("%s %s", t.Type, t.Value)
	default:
		return fmt.Sprintf("%q", t.Value)
	}
}

// Error is a recovered lexical error.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Lexer tokenizes stardust source code.
type Lexer struct {
	lexicon *Lexicon
	src     string
	pos     token.Position // position of src[pos.Offset]
	errors  []*Error
}

// New creates a Lexer over src. A nil lexicon selects [Default].
func New(src string, lexicon *Lexicon) *Lexer {
	return NewFile("", src, lexicon)
}

// NewFile is like New but stamps filename into every position.
func NewFile(filename, src string, lexicon *Lexicon) *Lexer {
	if lexicon == nil {
		lexicon = Default()
	}
	return &Lexer{
		lexicon: lexicon,
		src:     src,
		pos:     token.Position{Filename: filename, Line: 1, Column: 1},
	}
}

// Scan returns the next token. After the EOF token has been returned,
// Scan keeps returning EOF.
func (l *Lexer) Scan() Token {
	for {
		l.skipWhitespace()
		start := l.pos
		if l.pos.Offset >= len(l.src) {
			return Token{Type: token.EOF, Pos: start}
		}

		rest := l.src[l.pos.Offset:]
		var best *Class
		bestLen := 0
		for _, c := range l.lexicon.classes {
			// Strictly longer only, so earlier classes keep ties.
			if n := c.DFA.LongestMatch(rest); n > bestLen {
				best, bestLen = c, n
			}
		}

		if best == nil {
			r, size := utf8.DecodeRuneInString(rest)
			lexeme := rest[:size]
			l.advance(lexeme)
			l.errors = append(l.errors, &Error{Pos: start, Message: illegalMessage(r)})
			return Token{Type: token.ILLEGAL, Pos: start, Value: lexeme}
		}

		lexeme := rest[:bestLen]
		l.advance(lexeme)
		if best.Discard {
			continue
		}
		return Token{Type: best.Kind, Pos: start, Value: lexeme}
	}
}

// Errors returns the lexical errors recovered so far.
func (l *Lexer) Errors() []*Error {
	return l.errors
}

// All scans the remaining input. The result ends with an EOF token.
func (l *Lexer) All() []Token {
	var toks []Token
	for {
		tok := l.Scan()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

// Tokenize scans src with the default lexicon.
func Tokenize(src string) []Token {
	return New(src, nil).All()
}

func (l *Lexer) skipWhitespace() {
	for l.pos.Offset < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos.Offset:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos = l.pos.Advance(r, size)
	}
}

func (l *Lexer) advance(lexeme string) {
	for len(lexeme) > 0 {
		r, size := utf8.DecodeRuneInString(lexeme)
		l.pos = l.pos.Advance(r, size)
		lexeme = lexeme[size:]
	}
}

func illegalMessage(r rune) string {
	switch r {
	case '"':
		return "unterminated string literal"
	case utf8.RuneError:
		return "invalid UTF-8 encoding"
	}
	return fmt.Sprintf("unexpected character %q", r)
}

// Unquote returns the value of a STRING lexeme with its quotes removed
// and escape sequences resolved.
func Unquote(lexeme string) (string, error) {
	if len(lexeme) < 2 || lexeme[0] != '"' || lexeme[len(lexeme)-1] != '"' {
		return "", fmt.Errorf("malformed string literal %s", lexeme)
	}
	body := lexeme[1 : len(lexeme)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i == len(body) {
			return "", fmt.Errorf("malformed string literal %s", lexeme)
		}
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '0':
			sb.WriteByte(0)
		case '\\', '"':
			sb.WriteByte(body[i])
		default:
			r, _ := utf8.DecodeRuneInString(body[i:])
			return "", fmt.Errorf("unknown escape sequence \\%c", r)
		}
	}
	return sb.String(), nil
}
