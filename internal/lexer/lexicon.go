package lexer

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/kolkov/stardust/internal/automaton"
	"github.com/kolkov/stardust/internal/token"
)

var log = commonlog.GetLogger("stardust.lexer")

// ClassDef declares a token class.
type ClassDef struct {
	Kind    token.Kind
	Pattern automaton.Pattern
	Regex   string // the same language as Pattern, in RE2 syntax
	Discard bool   // matched but never emitted (comments)
}

// Class is a compiled token class.
type Class struct {
	Kind    token.Kind
	Regex   string
	Discard bool
	NFA     *automaton.NFA
	DFA     *automaton.DFA
}

// Lexicon is an ordered list of compiled token classes. Declaration
// order breaks ties between classes that match the same length.
type Lexicon struct {
	classes []*Class
}

// NewLexicon compiles defs in order.
func NewLexicon(defs []ClassDef) (*Lexicon, error) {
	lx := &Lexicon{classes: make([]*Class, 0, len(defs))}
	states := 0
	for _, def := range defs {
		nfa := automaton.Compile(def.Pattern)
		dfa, err := automaton.SubsetConstruction(nfa)
		if err != nil {
			return nil, fmt.Errorf("token class %s: %w", def.Kind, err)
		}
		states += dfa.NumStates()
		lx.classes = append(lx.classes, &Class{
			Kind:    def.Kind,
			Regex:   def.Regex,
			Discard: def.Discard,
			NFA:     nfa,
			DFA:     dfa,
		})
	}
	log.Debugf("compiled %d token classes into %d DFA states", len(lx.classes), states)
	return lx, nil
}

// Classes returns the compiled classes in priority order.
func (lx *Lexicon) Classes() []*Class {
	return lx.classes
}

var (
	defaultOnce    sync.Once
	defaultLexicon *Lexicon
)

// Default returns the stardust lexicon. It is compiled on first use and
// shared read-only afterwards.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		lx, err := NewLexicon(Definitions())
		if err != nil {
			panic(err)
		}
		defaultLexicon = lx
	})
	return defaultLexicon
}

// Definitions returns the stardust token classes. Comments come first,
// then keywords, so that a keyword wins over an identifier of the same
// length.
func Definitions() []ClassDef {
	a := automaton.Literal
	letter := automaton.Union(automaton.Range('a', 'z'), automaton.Range('A', 'Z'), automaton.OneOf("_"))
	digit := automaton.Range('0', '9')
	digits := automaton.Plus(digit)

	defs := []ClassDef{{
		Kind:    token.COMMENT,
		Pattern: automaton.Concat(a("#"), automaton.Star(automaton.AnyExcept("\n"))),
		Regex:   `#[^\n]*`,
		Discard: true,
	}}
	for _, k := range token.Keywords() {
		defs = append(defs, ClassDef{Kind: k, Pattern: a(k.String()), Regex: k.String()})
	}
	defs = append(defs,
		ClassDef{
			Kind:    token.IDENT,
			Pattern: automaton.Concat(letter, automaton.Star(automaton.Union(letter, digit))),
			Regex:   `[A-Za-z_][A-Za-z0-9_]*`,
		},
		ClassDef{
			Kind:    token.FLOAT,
			Pattern: automaton.Concat(digits, a("."), digits),
			Regex:   `[0-9]+\.[0-9]+`,
		},
		ClassDef{
			Kind:    token.INT,
			Pattern: digits,
			Regex:   `[0-9]+`,
		},
		ClassDef{
			Kind: token.STRING,
			Pattern: automaton.Concat(
				a(`"`),
				automaton.Star(automaton.Union(
					automaton.AnyExcept("\"\\\n"),
					automaton.Concat(a(`\`), automaton.AnyExcept("\n")),
				)),
				a(`"`),
			),
			Regex: `"(?:[^"\\\n]|\\[^\n])*"`,
		},
	)
	for _, k := range token.Operators() {
		defs = append(defs, ClassDef{Kind: k, Pattern: a(k.String()), Regex: regexp.QuoteMeta(k.String())})
	}
	return defs
}

// MismatchError reports a sample on which a class automaton and its
// regular expression disagree.
type MismatchError struct {
	Kind    token.Kind
	Sample  string
	ByDFA   bool
	ByRegex bool

	// Set when both accept or reject the whole sample but disagree on
	// the longest matching prefix.
	Prefix   bool
	DFALen   int
	RegexLen int
}

func (e *MismatchError) Error() string {
	if e.Prefix {
		return fmt.Sprintf("token class %s: longest match in %q is %d bytes by automaton, %d by regex",
			e.Kind, e.Sample, e.DFALen, e.RegexLen)
	}
	return fmt.Sprintf("token class %s: %q accepted by automaton=%v, by regex=%v",
		e.Kind, e.Sample, e.ByDFA, e.ByRegex)
}

var sharedOracle = NewOracle()

// CrossCheck matches every sample against each class with both the
// class DFA and the class regular expression, and returns the first
// disagreement in whole-input acceptance or longest match.
func (lx *Lexicon) CrossCheck(samples []string) error {
	for _, c := range lx.classes {
		for _, s := range samples {
			if err := sharedOracle.CheckClass(c, s); err != nil {
				return err
			}
		}
	}
	log.Debugf("cross-checked %d token classes on %d samples", len(lx.classes), len(samples))
	return nil
}

// Verify cross-checks the lexicon on a built-in sample set covering
// every class lexeme, every ASCII character, and common near misses.
func (lx *Lexicon) Verify() error {
	samples := []string{
		"", "x", "_", "_x1", "x_y", "1x", "iffy", "elsif2",
		"0", "42", "007", "3.14", "3.", ".5", "1.2.3",
		`""`, `"abc"`, `"a\"b"`, `"a\\"`, `"é"`, `"line` + "\n" + `"`, `"open`, `"\`,
		"#", "# note", "# é ü", "#a\nb",
		"<=", "< =", "//", "/ /", "==", "!", "!=", "=>",
	}
	for _, c := range lx.classes {
		samples = append(samples, c.Kind.String())
	}
	for r := rune(0); r < 0x80; r++ {
		samples = append(samples, string(r))
	}
	return lx.CrossCheck(samples)
}
