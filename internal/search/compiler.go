package search

// Key identifies a compiled search. Two keys are equal exactly when their
// matchers would behave the same.
type Key struct {
	Term          string
	UseRegex      bool
	CaseSensitive bool
}

// Compiler caches the most recent Compile result, including a failure, until
// the key changes.
type Compiler struct {
	cached       bool
	key          Key
	matcher      Matcher
	err          error
	compilations int
}

// NewCompiler returns an empty cache.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile returns the cached matcher when the inputs equal the previous call
// and compiles otherwise.
func (c *Compiler) Compile(term string, useRegex, caseSensitive bool) (Matcher, error) {
	key := Key{Term: term, UseRegex: useRegex, CaseSensitive: caseSensitive}
	if c.cached && c.key == key {
		return c.matcher, c.err
	}
	c.matcher, c.err = Compile(term, useRegex, caseSensitive)
	c.key = key
	c.cached = true
	c.compilations++
	return c.matcher, c.err
}

// Compilations counts cache misses.
func (c *Compiler) Compilations() int {
	return c.compilations
}
