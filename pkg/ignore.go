package fsdiag

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// globPrefix marks an ignore line as a doublestar glob instead of a regexp
const globPrefix = "glob:"

// IgnoreManager holds the patterns that exclude paths from a walk.
// Patterns are matched against the slash-separated path relative to the root.
type IgnoreManager struct {
	ignorePath string
	patterns   []*regexp.Regexp
	globs      []string
	loaded     bool
}

// NewIgnoreManager creates an ignore manager for the given pattern file.
// An empty path gives a manager that ignores nothing.
func NewIgnoreManager(ignorePath string) *IgnoreManager {
	return &IgnoreManager{
		ignorePath: ignorePath,
		patterns:   make([]*regexp.Regexp, 0),
	}
}

// LoadIgnorePatterns loads ignore patterns from the ignore file
func (im *IgnoreManager) LoadIgnorePatterns() error {
	if im.loaded {
		return nil
	}
	if im.ignorePath == "" {
		im.loaded = true
		return nil
	}

	file, err := os.Open(im.ignorePath)
	if err != nil {
		return fmt.Errorf("failed to open ignore file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := im.AddPattern(line); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading ignore file: %w", err)
	}

	VerboseLog(2, "loaded %d ignore patterns from %s", len(im.patterns)+len(im.globs), im.ignorePath)
	im.loaded = true
	return nil
}

// AddPattern adds a regexp, or a doublestar glob when prefixed with "glob:"
func (im *IgnoreManager) AddPattern(patternStr string) error {
	if glob, ok := strings.CutPrefix(patternStr, globPrefix); ok {
		glob = strings.TrimSpace(glob)
		if !doublestar.ValidatePattern(glob) {
			return fmt.Errorf("invalid glob pattern: %s", glob)
		}
		im.globs = append(im.globs, glob)
		return nil
	}

	pattern, err := regexp.Compile(patternStr)
	if err != nil {
		return fmt.Errorf("invalid regex pattern: %s - %w", patternStr, err)
	}
	im.patterns = append(im.patterns, pattern)
	return nil
}

// ShouldIgnore checks if a relative path should be ignored. Directories are
// also tried with a trailing slash so "build/" style patterns match them.
func (im *IgnoreManager) ShouldIgnore(relativePath string, isDir bool) bool {
	if !im.HasPatterns() {
		return false
	}

	normalisedPath := filepath.ToSlash(relativePath)
	candidates := []string{normalisedPath}
	if isDir {
		candidates = append(candidates, normalisedPath+"/")
	}

	for _, candidate := range candidates {
		for _, pattern := range im.patterns {
			if pattern.MatchString(candidate) {
				return true
			}
		}
	}

	for _, glob := range im.globs {
		// Patterns were validated on load, so Match cannot fail here
		if matched, _ := doublestar.Match(glob, normalisedPath); matched {
			return true
		}
	}

	return false
}

// HasPatterns returns true if there are any ignore patterns loaded
func (im *IgnoreManager) HasPatterns() bool {
	return len(im.patterns) > 0 || len(im.globs) > 0
}

// GetIgnoreFilePath returns the path to the ignore file
func (im *IgnoreManager) GetIgnoreFilePath() string {
	return im.ignorePath
}
