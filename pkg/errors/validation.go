package errors

import (
	"strings"
	"unicode"
)

// maxCaseIDLength bounds case identifiers accepted from users.
const maxCaseIDLength = 128

// ValidateCaseID validates a case thread identifier before it is used as a
// file name or a database key.
//
// Rules:
//   - not empty, at most 128 characters
//   - no control characters or null bytes
//   - no path separators or traversal sequences
func ValidateCaseID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "case id cannot be empty")
	}
	if len(id) > maxCaseIDLength {
		return New(ErrCodeInvalidInput, "case id too long (max %d characters)", maxCaseIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "case id contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "case id contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidateNodeCount rejects graphs with more than max nodes.
// A max of zero or less disables the check.
func ValidateNodeCount(n, max int) error {
	if max > 0 && n > max {
		return New(ErrCodeGraphTooLarge, "graph has %d nodes (max %d)", n, max)
	}
	return nil
}
