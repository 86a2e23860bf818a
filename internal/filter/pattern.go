// Package filter matches directory names and resource addresses against user supplied exclusion patterns.
//
// A pattern is either a plain string, matched exactly, or a glob such as `legacy-*` or `aws_instance.*`.
package filter

import (
	"strings"
	"sync"

	"github.com/gobwas/glob"
	"github.com/gruntwork-io/casper/internal/errors"
)

const globChars = "*?[{"

// Pattern is one exclusion entry with lazy glob compilation.
type Pattern struct {
	compiledGlob glob.Glob
	compileErr   error
	Value        string
	separators   []rune
	compileOnce  sync.Once
}

// NewPattern creates a Pattern. Separators limit what a single `*` can match, `**` crosses them.
func NewPattern(value string, separators ...rune) *Pattern {
	return &Pattern{Value: value, separators: separators}
}

// IsGlob returns true if the value contains glob syntax.
func (p *Pattern) IsGlob() bool {
	return strings.ContainsAny(p.Value, globChars)
}

// CompileGlob returns the compiled glob pattern, compiling it on first call.
func (p *Pattern) CompileGlob() (glob.Glob, error) {
	p.compileOnce.Do(func() {
		p.compiledGlob, p.compileErr = glob.Compile(p.Value, p.separators...)
	})

	return p.compiledGlob, p.compileErr
}

// Match reports whether str matches the pattern. A value that is not a valid glob is matched exactly.
func (p *Pattern) Match(str string) bool {
	if p.Value == str {
		return true
	}

	if !p.IsGlob() {
		return false
	}

	compiled, err := p.CompileGlob()
	if err != nil {
		return false
	}

	return compiled.Match(str)
}

// Validate returns an InvalidPatternError if the value looks like a glob but does not compile.
func (p *Pattern) Validate() error {
	if !p.IsGlob() {
		return nil
	}

	if _, err := p.CompileGlob(); err != nil {
		return errors.New(InvalidPatternError{Pattern: p.Value, Err: err})
	}

	return nil
}

func (p *Pattern) String() string { return p.Value }

// Patterns is a list of patterns, any of which may match.
type Patterns []*Pattern

// NewPatterns creates a pattern per non-empty value.
func NewPatterns(values []string, separators ...rune) Patterns {
	patterns := make(Patterns, 0, len(values))

	for _, value := range values {
		if value = strings.TrimSpace(value); value == "" {
			continue
		}

		patterns = append(patterns, NewPattern(value, separators...))
	}

	return patterns
}

// MatchAny reports whether any pattern matches any of the candidates.
func (patterns Patterns) MatchAny(candidates ...string) bool {
	for _, pattern := range patterns {
		for _, candidate := range candidates {
			if pattern.Match(candidate) {
				return true
			}
		}
	}

	return false
}

// Invalid returns the glob patterns that fail to compile.
func (patterns Patterns) Invalid() Patterns {
	var invalid Patterns

	for _, pattern := range patterns {
		if pattern.Validate() != nil {
			invalid = append(invalid, pattern)
		}
	}

	return invalid
}
