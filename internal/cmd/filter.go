package cmd

import (
	"fmt"

	"github.com/gobwas/glob"
)

// globFilter compiles the patterns and returns a predicate matching any
// of them. Separators, if given, keep wildcards from crossing them
// (path globs use '/').
func globFilter(patterns []string, separators ...rune) (func(string) bool, error) {
	globs := make([]glob.Glob, 0, len(patterns))

	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, separators...)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}

		globs = append(globs, g)
	}

	return func(s string) bool {
		for _, g := range globs {
			if g.Match(s) {
				return true
			}
		}

		return false
	}, nil
}
