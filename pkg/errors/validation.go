package errors

import (
	"strings"
	"unicode"
)

const (
	maxFilenameLength  = 255
	maxStateNameLength = 256
)

// ValidateFilename validates a scenario filename for safety.
// Filenames are used as storage keys and URL path segments, so they must be a
// plain basename.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - No hidden files
//   - Maximum length of 255 characters
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidFilename, "filename cannot be empty")
	}

	if len(filename) > maxFilenameLength {
		return New(ErrCodeInvalidFilename, "filename too long (max %d characters)", maxFilenameLength)
	}

	for _, r := range filename {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFilename, "filename contains invalid control characters")
		}
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidFilename, "filename cannot contain path separators")
	}

	if strings.Contains(filename, "..") {
		return New(ErrCodeInvalidFilename, "filename cannot contain path traversal sequences (..)")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidFilename, "filename cannot be a hidden file")
	}

	return nil
}

// ValidateStateName validates a workflow state name.
// State names identify graph nodes, so they must be non-blank and printable.
func ValidateStateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidScenario, "state name cannot be empty")
	}

	if len(name) > maxStateNameLength {
		return New(ErrCodeInvalidScenario, "state name too long (max %d characters)", maxStateNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidScenario, "state name %q contains control characters", name)
		}
	}

	return nil
}
