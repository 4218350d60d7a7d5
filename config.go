package stardust

// DefaultMaxErrors is the number of semantic errors kept in a
// [CompileError] when Config.MaxErrors is zero.
const DefaultMaxErrors = 20

// Config holds configuration options for compilation.
type Config struct {
	// Filename is reported in positions. It may be empty.
	Filename string

	// VerifyLexicon cross-checks every token class automaton against its
	// regular expression before lexing. A disagreement fails the
	// compilation.
	VerifyLexicon bool

	// CrossValidate runs the LL(1) table recognizer over the token stream
	// after a successful parse and fails if it rejects the program.
	CrossValidate bool

	// MaxErrors caps the semantic errors kept in a CompileError
	// (default: DefaultMaxErrors). A negative value keeps all of them.
	MaxErrors int
}

// applyDefaults fills in default values for unset Config fields.
func (c *Config) applyDefaults() {
	if c.MaxErrors == 0 {
		c.MaxErrors = DefaultMaxErrors
	}
}

// resolveConfig returns a defaulted copy of config, which may be nil.
func resolveConfig(config *Config) Config {
	var c Config
	if config != nil {
		c = *config
	}
	c.applyDefaults()
	return c
}
