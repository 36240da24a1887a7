package fs

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Matcher reports whether a slash-separated relative path matches any of a
// set of glob patterns. Patterns are separator-aware: `*` stays within one
// path segment, `**` crosses segments.
type Matcher struct {
	globs []glob.Glob
}

func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{globs: make([]glob.Glob, 0, len(patterns))}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("failed to compile file pattern %q: %w", pattern, err)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

func (m *Matcher) Match(relpath string) bool {
	for _, g := range m.globs {
		if g.Match(relpath) {
			return true
		}
	}
	return false
}

// Expand resolves a bundle's file patterns against its base directory.
// Patterns without glob metacharacters pass through as plain paths; the rest
// are matched against the tree under baseDir. Results preserve pattern
// order, glob matches arrive in lexical walk order, and duplicates are
// dropped.
func Expand(baseDir string, patterns []string) ([]string, error) {
	var (
		out  []string
		seen = map[string]bool{}
	)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			p := pattern
			if !filepath.IsAbs(p) {
				p = filepath.Join(baseDir, p)
			}
			add(filepath.Clean(p))
			continue
		}

		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("failed to compile file pattern %q: %w", pattern, err)
		}

		err = filepath.WalkDir(baseDir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(baseDir, p)
			if err != nil {
				return err
			}
			if g.Match(filepath.ToSlash(rel)) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}
