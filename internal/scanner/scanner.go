// Package scanner finds JavaScript-family source files under a root,
// honoring config exclusions and .gitignore patterns.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/mthorley/lignin/pkg/config"
	"github.com/mthorley/lignin/pkg/parser"
)

// FileDescriptor describes one scanned source file.
type FileDescriptor struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Stats summarizes a scan.
type Stats struct {
	TotalFiles int
	TotalBytes int64
	Skipped    int
}

// Result is the outcome of scanning one root.
type Result struct {
	Root  string
	Files []FileDescriptor
	Stats Stats
}

// Scanner finds source files in a directory.
type Scanner struct {
	config   *config.Config
	matchers []gitignore.Matcher
}

// New creates a file scanner.
func New(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// findGitRoot walks upward looking for a .git directory.
func findGitRoot(start string) string {
	dir := start
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadExcludePatterns combines config patterns with .gitignore files
// read recursively from the enclosing git repository.
func (s *Scanner) loadExcludePatterns(root string) {
	var patterns []gitignore.Pattern

	for _, dir := range s.config.Exclude.Dirs {
		patterns = append(patterns, gitignore.ParsePattern(dir+"/", nil))
	}
	for _, pattern := range s.config.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}

	if s.config.Exclude.Gitignore {
		if gitRoot := findGitRoot(root); gitRoot != "" {
			fsys := osfs.New(gitRoot)
			if gitPatterns, err := gitignore.ReadPatterns(fsys, nil); err == nil {
				patterns = append(patterns, gitPatterns...)
			}
		}
	}

	if len(patterns) > 0 {
		s.matchers = []gitignore.Matcher{gitignore.NewMatcher(patterns)}
	}
}

func (s *Scanner) isExcluded(relPath string, isDir bool) bool {
	if len(s.matchers) == 0 {
		return false
	}
	parts := strings.Split(relPath, string(filepath.Separator))
	for _, m := range s.matchers {
		if m.Match(parts, isDir) {
			return true
		}
	}
	return false
}

// Scan recursively collects source files under root. A failure to read
// the root itself is fatal; unreadable entries below it are skipped.
func (s *Scanner) Scan(root string) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(absRoot); err != nil {
		return nil, err
	}

	s.loadExcludePatterns(absRoot)

	result := &Result{Root: absRoot, Files: make([]FileDescriptor, 0, 256)}

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			result.Stats.Skipped++
			return nil
		}

		relPath, _ := filepath.Rel(absRoot, path)

		if d.IsDir() {
			if path != absRoot && s.isExcluded(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isExcluded(relPath, false) {
			result.Stats.Skipped++
			return nil
		}
		if !parser.Supported(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			result.Stats.Skipped++
			return nil
		}

		result.Files = append(result.Files, FileDescriptor{
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		result.Stats.TotalFiles++
		result.Stats.TotalBytes += info.Size()

		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return result, nil
}
