// Package scanner finds candidate service source files under a workspace root.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"svcaudit/pkg/config"
)

// Scanner finds source files in a directory tree. Inclusion is glob-based
// (doublestar patterns against root-relative paths); exclusion combines
// directory names, gitignore-syntax patterns, and .gitignore files.
type Scanner struct {
	config   *config.Config
	matchers []gitignore.Matcher
	allFiles bool
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// WithAllFiles widens inclusion to every .ts file regardless of the
// configured include globs.
func (s *Scanner) WithAllFiles() *Scanner {
	s.allFiles = true
	return s
}

// findGitRoot finds the root of the git repository by looking for .git.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadExcludePatterns loads exclusion patterns from config and .gitignore files.
func (s *Scanner) loadExcludePatterns(root string) {
	var patterns []gitignore.Pattern

	for _, pattern := range s.config.Scan.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}

	if s.config.Scan.Gitignore {
		gitRoot := findGitRoot(root)
		if gitRoot != "" {
			fsys := osfs.New(gitRoot)
			if gitPatterns, err := gitignore.ReadPatterns(fsys, nil); err == nil {
				patterns = append(patterns, gitPatterns...)
			}
		}
	}

	if len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
}

// isExcluded checks if a relative path matches any exclusion pattern.
func (s *Scanner) isExcluded(relPath string, isDir bool) bool {
	if len(s.matchers) == 0 {
		return false
	}

	pathParts := strings.Split(relPath, string(filepath.Separator))
	for _, m := range s.matchers {
		if m.Match(pathParts, isDir) {
			return true
		}
	}
	return false
}

// isIncluded checks whether a root-relative path matches an include glob.
func (s *Scanner) isIncluded(relPath string) bool {
	slashPath := filepath.ToSlash(relPath)
	if s.allFiles {
		ok, _ := doublestar.Match("**/*.ts", slashPath)
		return ok
	}
	for _, pattern := range s.config.Scan.Include {
		if ok, _ := doublestar.Match(pattern, slashPath); ok {
			return true
		}
	}
	return false
}

// ScanDir recursively scans a directory for service source files.
// Per-entry walk errors are skipped; the scan is always best-effort.
// Returned paths are absolute and sorted for deterministic downstream output.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	files := make([]string, 0, 256)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	s.loadExcludePatterns(absRoot)

	excludedDirs := make(map[string]bool, len(s.config.Scan.Dirs))
	for _, d := range s.config.Scan.Dirs {
		excludedDirs[d] = true
	}

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		relPath, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return nil
		}

		if d.IsDir() {
			if excludedDirs[d.Name()] {
				return filepath.SkipDir
			}
			if relPath != "." && s.isExcluded(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isExcluded(relPath, false) {
			return nil
		}
		if s.isIncluded(relPath) {
			files = append(files, path)
		}

		return nil
	})

	sort.Strings(files)
	return files, walkErr
}

// ScanFile reports whether a single file would be picked up by a scan rooted
// at its containing directory tree root.
func (s *Scanner) ScanFile(root, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	relPath, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false, err
	}

	if len(s.matchers) == 0 {
		s.loadExcludePatterns(absRoot)
	}
	if s.isExcluded(relPath, false) {
		return false, nil
	}
	return s.isIncluded(relPath), nil
}
