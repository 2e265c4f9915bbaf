package download

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileFilter decides which new files are copied.
type FileFilter interface {
	// ShouldInclude reports whether the file at relativePath, '/'-separated
	// and relative to the source directory, is copied.
	ShouldInclude(relativePath string) bool
}

// GlobFilter matches a case-insensitive doublestar pattern.
// The empty pattern includes everything.
type GlobFilter struct {
	pattern string
}

// NewGlobFilter creates a GlobFilter; it fails on a malformed pattern.
func NewGlobFilter(pattern string) (*GlobFilter, error) {
	normalized := strings.ToLower(pattern)

	if !doublestar.ValidatePattern(normalized) {
		return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	return &GlobFilter{pattern: normalized}, nil
}

// ShouldInclude implements FileFilter.
func (f *GlobFilter) ShouldInclude(relativePath string) bool {
	if f.pattern == "" {
		return true
	}

	matched, err := doublestar.Match(f.pattern, strings.ToLower(relativePath))

	return err == nil && matched
}
