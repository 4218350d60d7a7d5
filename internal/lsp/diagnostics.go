package lsp

import (
	"strings"
	"unicode/utf16"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kolkov/stardust"
)

// Diagnose compiles text and converts its findings to protocol
// diagnostics. The result is never nil.
//
// Protocol positions are zero-based and count UTF-16 code units. A
// diagnostic spans the token it starts on, or a single character when
// that token is unknown or covers several lines.
func Diagnose(filename, text string) []protocol.Diagnostic {
	found := stardust.Diagnostics(text, &stardust.Config{Filename: filename})
	out := make([]protocol.Diagnostic, 0, len(found))
	if len(found) == 0 {
		return out
	}

	widths := tokenWidths(text)
	lines := newLineIndex(text)
	source := lsName
	for _, d := range found {
		w := widths[[2]int{d.Line, d.Column}]
		if w == 0 {
			w = 1
		}
		start := protocol.Position{Line: zeroBased(d.Line), Character: lines.character(d.Line, d.Column)}
		end := protocol.Position{Line: start.Line, Character: lines.character(d.Line, d.Column+w)}
		out = append(out, protocol.Diagnostic{
			Range:    protocol.Range{Start: start, End: end},
			Severity: severity(d.Severity),
			Source:   &source,
			Message:  d.Message,
		})
	}
	return out
}

// tokenWidths maps the line and column of each single-line token to its
// width in runes.
func tokenWidths(text string) map[[2]int]int {
	widths := make(map[[2]int]int)
	for _, tok := range stardust.Tokenize(text) {
		n := 0
		for _, r := range tok.Value {
			if r == '\n' {
				n = 0
				break
			}
			n++
		}
		widths[[2]int{tok.Line, tok.Column}] = n
	}
	return widths
}

// lineIndex holds the lines of a document for column conversion.
type lineIndex []string

func newLineIndex(text string) lineIndex {
	return strings.Split(text, "\n")
}

// character converts a 1-based rune column on a 1-based line to a
// protocol character offset. Columns past the end of the line count one
// unit per missing rune.
func (li lineIndex) character(line, col int) uint32 {
	var s string
	if line >= 1 && line <= len(li) {
		s = li[line-1]
	}
	var n uint32
	for _, r := range s {
		if col <= 1 {
			return n
		}
		n += uint32(utf16.RuneLen(r))
		col--
	}
	if col > 1 {
		n += uint32(col - 1)
	}
	return n
}

func severity(s stardust.Severity) *protocol.DiagnosticSeverity {
	v := protocol.DiagnosticSeverityError
	if s == stardust.SeverityWarning {
		v = protocol.DiagnosticSeverityWarning
	}
	return &v
}

func zeroBased(n int) uint32 {
	if n <= 0 {
		return 0
	}
	return uint32(n - 1)
}
