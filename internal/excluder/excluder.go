package excluder

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Excluder matches file paths against a list of glob patterns.
// A nil *Excluder excludes nothing.
type Excluder struct {
	globs []glob.Glob
}

// New creates an Excluder from a list of glob patterns.
// Patterns use '/' as the path separator and are matched against both the
// full path and the base name, so "*.tmp" and "/home/*/Pictures/raw" both work.
// Blank patterns are ignored.
func New(patterns []string) (*Excluder, error) {
	var globs []glob.Glob
	for _, pat := range patterns {
		pat = strings.TrimSpace(pat)
		if pat == "" {
			continue
		}
		g, err := glob.Compile(pat, '/')
		if err != nil {
			return nil, err
		}
		globs = append(globs, g)
	}
	return &Excluder{globs: globs}, nil
}

// IsExcluded returns true if the given path matches any exclude pattern.
func (e *Excluder) IsExcluded(path string) bool {
	if e == nil {
		return false
	}
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, g := range e.globs {
		if g.Match(slashed) || g.Match(base) {
			return true
		}
	}
	return false
}

// Len reports how many patterns are active.
func (e *Excluder) Len() int {
	if e == nil {
		return 0
	}
	return len(e.globs)
}
