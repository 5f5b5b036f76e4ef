package scanner

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jenian/envguard/internal/languages"
)

// Scanner resolves glob patterns to the source files of a project
type Scanner struct {
	excludeDirs  map[string]bool // Directory names to exclude (e.g., "node_modules")
	excludePaths []string        // Root-relative directories to exclude (e.g., "src/config")
	excludeGlobs []string
	includeGlobs []string
}

// NewScanner creates a new scanner with default exclusions
func NewScanner() *Scanner {
	return &Scanner{
		excludeDirs: map[string]bool{
			"node_modules": true,
			"vendor":       true,
			".git":         true,
			"build":        true,
			"dist":         true,
			"bin":          true,
			"out":          true,
			".next":        true,
			".cache":       true,
			"coverage":     true,
		},
	}
}

// SetIncludeGlobs sets the patterns a file must match. Patterns are
// matched against the slash-separated path relative to the scan root and
// support ** and {a,b}.
func (s *Scanner) SetIncludeGlobs(globs []string) {
	s.includeGlobs = make([]string, 0, len(globs))
	for _, g := range globs {
		s.includeGlobs = append(s.includeGlobs, normalizePattern(g))
	}
}

// SetExcludeGlobs sets patterns that drop otherwise included files
func (s *Scanner) SetExcludeGlobs(globs []string) {
	s.excludeGlobs = make([]string, 0, len(globs))
	for _, g := range globs {
		s.excludeGlobs = append(s.excludeGlobs, normalizePattern(g))
	}
}

// AddExcludeDirs adds additional directories to exclude from scanning
// Can be directory names (e.g., "config") or paths (e.g., "src/config")
func (s *Scanner) AddExcludeDirs(dirs []string) {
	for _, dir := range dirs {
		if strings.Contains(dir, "/") || strings.Contains(dir, "\\") {
			s.excludePaths = append(s.excludePaths, strings.TrimSuffix(normalizePattern(dir), "/*"))
		} else {
			s.excludeDirs[dir] = true
		}
	}
}

func normalizePattern(p string) string {
	return strings.TrimPrefix(filepath.ToSlash(p), "./")
}

// isBinaryFile checks if a file is likely binary
func isBinaryFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	binaryExts := map[string]bool{
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
		".pdf": true, ".zip": true, ".tar": true, ".gz": true,
		".exe": true, ".dll": true, ".so": true, ".dylib": true,
		".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
		".ico": true, ".svg": true, ".mp4": true, ".mp3": true,
		".map": true, ".lock": true,
	}
	return binaryExts[ext]
}

// matchesGlob checks if a root-relative path matches any of the patterns
func matchesGlob(rel string, globs []string) bool {
	for _, glob := range globs {
		if ok, _ := doublestar.Match(glob, rel); ok {
			return true
		}
	}
	return false
}

// isExcludedPath checks if a root-relative directory is excluded by path
func (s *Scanner) isExcludedPath(rel string) bool {
	for _, p := range s.excludePaths {
		if rel == p || strings.HasPrefix(rel, p+"/") {
			return true
		}
	}
	return false
}

// shouldInclude decides on a root-relative file path. Without include
// patterns, every file a dialect recognizes by extension is included.
func (s *Scanner) shouldInclude(rel string) bool {
	if isBinaryFile(rel) {
		return false
	}
	if len(s.excludeGlobs) > 0 && matchesGlob(rel, s.excludeGlobs) {
		return false
	}
	if len(s.includeGlobs) > 0 {
		return matchesGlob(rel, s.includeGlobs)
	}
	return languages.Supported(rel)
}

// Resolve walks rootPath and returns the files to scan in lexical order
func (s *Scanner) Resolve(rootPath string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(rootPath, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == rootPath {
				return nil
			}
			if s.excludeDirs[d.Name()] || s.isExcludedPath(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.shouldInclude(rel) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// SkipDir reports whether the directory at path, below rootPath, is excluded
// from scanning
func (s *Scanner) SkipDir(rootPath, path string) bool {
	rel, err := filepath.Rel(rootPath, path)
	if err != nil {
		return false
	}
	return s.excludeDirs[filepath.Base(path)] || s.isExcludedPath(filepath.ToSlash(rel))
}

// Matches reports whether the file at path, below rootPath, would be scanned
func (s *Scanner) Matches(rootPath, path string) bool {
	rel, err := filepath.Rel(rootPath, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return s.shouldInclude(filepath.ToSlash(rel))
}
