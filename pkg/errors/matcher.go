package errors

import "strings"

// PatternMatcher matches error messages to categories using string patterns.
type PatternMatcher interface {
	Match(errorMsg string) ErrorCategory
}

// NewPatternMatcher creates a new PatternMatcher with predefined patterns.
// Categories are tried in order: an SSH permission failure is a connection
// problem before it is a permission problem.
func NewPatternMatcher() PatternMatcher {
	return &patternMatcher{
		rules: []rule{
			{CategoryConfig, []string{
				"configuration not found",
				"invalid configuration",
				"failed to parse configuration",
			}},
			{CategoryConnection, []string{
				"ssh connection",
				"ssh: handshake failed",
				"ssh authentication",
				"sftp session",
				"connection refused",
				"no route to host",
				"i/o timeout",
			}},
			{CategoryCursor, []string{
				"failed to parse cursor",
				"cursor has no last processed file",
			}},
			{CategoryPermission, []string{
				"permission denied",
				"access denied",
				"operation not permitted",
				"read-only file system",
			}},
			{CategoryDiskSpace, []string{
				"no space left on device",
				"disk full",
				"quota exceeded",
			}},
			{CategoryPath, []string{
				"source not found",
				"no such file or directory",
				"file not found",
				"file does not exist",
				"the system cannot find the path specified",
			}},
			{CategoryCopy, []string{
				"short write",
				"input/output error",
				"i/o error",
				"target already exists",
			}},
		},
	}
}

type rule struct {
	category ErrorCategory
	patterns []string
}

type patternMatcher struct {
	rules []rule
}

// Match returns the error category based on pattern matching.
func (m *patternMatcher) Match(errorMsg string) ErrorCategory {
	lowerMsg := strings.ToLower(errorMsg)

	for _, rule := range m.rules {
		for _, pattern := range rule.patterns {
			if strings.Contains(lowerMsg, pattern) {
				return rule.category
			}
		}
	}

	return CategoryUnknown
}
