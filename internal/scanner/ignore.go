package scanner

import (
	"path"
	"strings"
)

// IgnorePattern is one gitignore-style pattern from a .cflowignore file.
// Supported: plain names, /-anchored patterns, trailing-/ directory
// patterns, per-segment globs, ** for any number of segments, and !
// negation.
type IgnorePattern struct {
	isNegation bool
	anchored   bool
	segments   []string
}

// ParseIgnorePattern parses a gitignore-style pattern string.
func ParseIgnorePattern(pattern string) IgnorePattern {
	p := IgnorePattern{}

	if strings.HasPrefix(pattern, "!") {
		p.isNegation = true
		pattern = pattern[1:]
	}
	// A trailing slash only marks a directory pattern; matching a leading
	// segment group already covers the subtree.
	pattern = strings.TrimSuffix(pattern, "/")
	if strings.HasPrefix(pattern, "/") {
		p.anchored = true
		pattern = pattern[1:]
	}

	p.segments = strings.Split(pattern, "/")
	return p
}

// IsNegation returns true if this pattern is a negation pattern.
func (p IgnorePattern) IsNegation() bool {
	return p.isNegation
}

// Match reports whether relPath (slash-separated, relative to the scan
// root) is covered by this pattern. A pattern that matches a leading
// group of segments covers everything underneath.
func (p IgnorePattern) Match(relPath string) bool {
	pathSegs := strings.Split(relPath, "/")

	if p.anchored {
		return matchFrom(p.segments, pathSegs)
	}
	for start := 0; start < len(pathSegs); start++ {
		if matchFrom(p.segments, pathSegs[start:]) {
			return true
		}
	}
	return false
}

// matchFrom matches pattern segments against the front of pathSegs.
func matchFrom(patSegs, pathSegs []string) bool {
	if len(patSegs) == 0 {
		return true
	}
	if patSegs[0] == "**" {
		if len(patSegs) == 1 {
			return true
		}
		for i := 0; i <= len(pathSegs); i++ {
			if matchFrom(patSegs[1:], pathSegs[i:]) {
				return true
			}
		}
		return false
	}
	if len(pathSegs) == 0 {
		return false
	}
	ok, err := path.Match(patSegs[0], pathSegs[0])
	if err != nil || !ok {
		return false
	}
	return matchFrom(patSegs[1:], pathSegs[1:])
}
