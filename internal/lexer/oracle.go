package lexer

import (
	"fmt"
	"sync"

	"github.com/coregx/coregex"
)

// Oracle matches token class regular expressions with coregex. It is the
// reference the class automata are checked against.
//
// Every pattern is anchored at the start of the input and compiled in
// leftmost-longest mode, so Longest reports the same maximal munch
// length a class DFA should.
type Oracle struct {
	cache sync.Map // map[string]*oracleRegex
}

type oracleRegex struct {
	whole  *coregex.Regexp // ^(?:re)$
	prefix *coregex.Regexp // ^(?:re), leftmost-longest
}

// NewOracle returns an empty oracle.
func NewOracle() *Oracle {
	return &Oracle{}
}

// get returns the compiled forms of pattern, compiling and caching them
// on first use. Lock-free on cache hit.
func (o *Oracle) get(pattern string) (*oracleRegex, error) {
	if re, ok := o.cache.Load(pattern); ok {
		return re.(*oracleRegex), nil
	}

	whole, err := coregex.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, err
	}
	prefix, err := coregex.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, err
	}
	prefix.Longest()

	re := &oracleRegex{whole: whole, prefix: prefix}
	if existing, loaded := o.cache.LoadOrStore(pattern, re); loaded {
		return existing.(*oracleRegex), nil
	}
	return re, nil
}

// Accepts reports whether pattern matches all of s.
func (o *Oracle) Accepts(pattern, s string) (bool, error) {
	re, err := o.get(pattern)
	if err != nil {
		return false, err
	}
	return re.whole.MatchString(s), nil
}

// Longest returns the byte length of the longest prefix of s matched by
// pattern, or zero if no non-empty prefix matches.
func (o *Oracle) Longest(pattern, s string) (int, error) {
	re, err := o.get(pattern)
	if err != nil {
		return 0, err
	}
	loc := re.prefix.FindStringIndex(s)
	if loc == nil {
		return 0, nil
	}
	return loc[1], nil
}

// Len returns the number of cached patterns.
func (o *Oracle) Len() int {
	n := 0
	o.cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// CheckClass compares the DFA of c with its regular expression on one
// sample: whole-input acceptance first, then the longest match length.
func (o *Oracle) CheckClass(c *Class, sample string) error {
	byRegex, err := o.Accepts(c.Regex, sample)
	if err != nil {
		return fmt.Errorf("token class %s: %w", c.Kind, err)
	}
	if byDFA := c.DFA.Accepts(sample); byDFA != byRegex {
		return &MismatchError{Kind: c.Kind, Sample: sample, ByDFA: byDFA, ByRegex: byRegex}
	}

	regexLen, err := o.Longest(c.Regex, sample)
	if err != nil {
		return fmt.Errorf("token class %s: %w", c.Kind, err)
	}
	if dfaLen := c.DFA.LongestMatch(sample); dfaLen != regexLen {
		return &MismatchError{
			Kind: c.Kind, Sample: sample,
			ByDFA: byRegex, ByRegex: byRegex,
			Prefix: true, DFALen: dfaLen, RegexLen: regexLen,
		}
	}
	return nil
}
