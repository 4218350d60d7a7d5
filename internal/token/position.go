package token

import "fmt"

// Position is a location in a source text.
type Position struct {
	Filename string // optional
	Line     int    // 1-based
	Column   int    // 1-based, counted in runes
	Offset   int    // 0-based byte offset
}

// String formats the position as "line:column", prefixed with the
// filename when one is set.
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position refers to a real location.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Before reports whether p comes strictly before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// Advance returns the position after reading r.
func (p Position) Advance(r rune, size int) Position {
	p.Offset += size
	if r == '\n' {
		p.Line++
		p.Column = 1
	} else {
		p.Column++
	}
	return p
}

// Span is a half-open source range.
type Span struct {
	Start Position
	End   Position
}

func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s-%d", s.Start, s.End.Column)
	}
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// NoPos is the zero Position.
var NoPos = Position{}
