// Package scanner discovers C source files under a directory tree. It
// respects .cflowignore files with gitignore-style patterns and skips
// common build and VCS directories.
package scanner

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileInfo represents information about a discovered source file.
type FileInfo struct {
	Path     string // Relative path from root
	FullPath string // Absolute path
	Size     int64  // File size in bytes
}

// Options configures the scanner behavior.
type Options struct {
	SkipHidden      bool     // Skip hidden files and directories (starting with .)
	FollowSymlinks  bool     // Follow symlinks (within root only)
	Extensions      []string // File extensions to collect
	DefaultExcludes []string // Default directories to exclude
	IgnoreFileName  string   // Name of the ignore file (default: .cflowignore)
}

// DefaultOptions returns scanner options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		SkipHidden:     true,
		FollowSymlinks: false,
		Extensions:     []string{".c"},
		IgnoreFileName: ".cflowignore",
		DefaultExcludes: []string{
			".git",
			".hg",
			".svn",
			"node_modules",
			"vendor",
			"dist",
			"build",
			"target",
			"bin",
			"obj",
		},
	}
}

// Scanner provides file tree scanning capabilities.
type Scanner struct {
	opts Options
	root string
}

// New creates a new Scanner with the given options.
func New(opts Options) *Scanner {
	return &Scanner{opts: opts}
}

// Scan recursively scans the directory at root and returns the matching
// source files. It respects .cflowignore patterns and default exclusions.
func (s *Scanner) Scan(root string) ([]FileInfo, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}
	s.root = absRoot

	ignorePatterns, err := s.loadIgnorePatterns(absRoot)
	if err != nil {
		return nil, fmt.Errorf("loading ignore patterns: %w", err)
	}

	var files []FileInfo

	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		if relPath == "." {
			return nil
		}

		relPathSlash := filepath.ToSlash(relPath)

		if s.opts.SkipHidden && strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			if s.isDefaultExcluded(info.Name()) {
				return filepath.SkipDir
			}
			// Nested ignore files extend the pattern list.
			nestedPatterns, err := s.loadIgnorePatterns(path)
			if err == nil && len(nestedPatterns) > 0 {
				ignorePatterns = append(ignorePatterns, nestedPatterns...)
			}
			return nil
		}

		if !s.wantedExtension(path) {
			return nil
		}

		if matchesIgnorePatterns(relPathSlash, ignorePatterns) {
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 {
			if !s.opts.FollowSymlinks {
				return nil
			}
			realPath, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil
			}
			realAbs, err := filepath.Abs(realPath)
			if err != nil {
				return nil
			}
			if !strings.HasPrefix(realAbs, absRoot+string(filepath.Separator)) && realAbs != absRoot {
				return nil
			}
			targetInfo, err := os.Stat(realPath)
			if err != nil || targetInfo.IsDir() {
				return nil
			}
			info = targetInfo
		}

		files = append(files, FileInfo{
			Path:     relPathSlash,
			FullPath: path,
			Size:     info.Size(),
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return files, nil
}

// wantedExtension reports whether the file matches the configured
// extension list. An empty list collects everything.
func (s *Scanner) wantedExtension(path string) bool {
	if len(s.opts.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range s.opts.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// isDefaultExcluded checks if the name matches default exclusion patterns.
func (s *Scanner) isDefaultExcluded(name string) bool {
	for _, exclude := range s.opts.DefaultExcludes {
		if strings.EqualFold(name, exclude) {
			return true
		}
	}
	return false
}

// loadIgnorePatterns loads patterns from the ignore file in dir.
func (s *Scanner) loadIgnorePatterns(dir string) ([]IgnorePattern, error) {
	ignorePath := filepath.Join(dir, s.opts.IgnoreFileName)
	file, err := os.Open(ignorePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var patterns []IgnorePattern
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, ParseIgnorePattern(line))
	}

	return patterns, scanner.Err()
}

// matchesIgnorePatterns checks patterns in order; negation patterns can
// override earlier positive matches, as in gitignore.
func matchesIgnorePatterns(relPath string, patterns []IgnorePattern) bool {
	ignored := false
	for _, pattern := range patterns {
		if pattern.Match(relPath) {
			ignored = !pattern.IsNegation()
		}
	}
	return ignored
}

// Scan is a convenience function that scans a directory with default options.
func Scan(root string) ([]FileInfo, error) {
	scanner := New(DefaultOptions())
	return scanner.Scan(root)
}

// ScanWithOptions scans a directory with custom options.
func ScanWithOptions(root string, opts Options) ([]FileInfo, error) {
	scanner := New(opts)
	return scanner.Scan(root)
}
