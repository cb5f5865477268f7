package errors

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxCardCount bounds a single generation run.
const MaxCardCount = 999

// ValidateCardCount checks that n cards can be generated in one run.
func ValidateCardCount(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidInput, "card count must be positive, got %d", n)
	}
	if n > MaxCardCount {
		return New(ErrCodeInvalidInput, "card count too large (max %d), got %d", MaxCardCount, n)
	}
	return nil
}

// ValidateFilePattern validates an output filename pattern such as
// "bingo_card_%02d.png". The pattern must be a plain filename containing
// exactly one integer verb.
func ValidateFilePattern(pattern string) error {
	if pattern == "" {
		return New(ErrCodeInvalidConfig, "file pattern cannot be empty")
	}
	if strings.ContainsAny(pattern, "/\\") {
		return New(ErrCodeInvalidConfig, "file pattern cannot contain path separators: %q", pattern)
	}
	for _, r := range pattern {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "file pattern contains control characters")
		}
	}

	verbs := strings.Count(pattern, "%") - 2*strings.Count(pattern, "%%")
	if verbs != 1 {
		return New(ErrCodeInvalidConfig, "file pattern must contain exactly one integer verb: %q", pattern)
	}
	if strings.Contains(fmt.Sprintf(pattern, 1), "%!") {
		return New(ErrCodeInvalidConfig, "file pattern verb must format an integer: %q", pattern)
	}
	return nil
}

// ValidateDir validates a directory setting. Empty and "." are allowed.
func ValidateDir(dir string) error {
	for _, r := range dir {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "directory contains invalid characters: %q", dir)
		}
	}
	return nil
}
