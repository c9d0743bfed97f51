package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds document names used as store keys and file names.
const maxNameLength = 128

// ValidateName validates a document name (grid or mind map) for safety.
// Names end up in store keys and, for the file backend, in index entries,
// so anything that could be used for path traversal is rejected:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// colorRegex matches CSS hex colors (#rgb or #rrggbb).
var colorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates a node color. The empty string is accepted and
// means "renderer default".
func ValidateColor(color string) error {
	if color == "" {
		return nil
	}
	if !colorRegex.MatchString(color) {
		return New(ErrCodeInvalidInput, "invalid color %q (want #rgb or #rrggbb)", color)
	}
	return nil
}
