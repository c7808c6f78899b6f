package errors

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// maxFilenameLength bounds output filenames echoed into Content-Disposition.
const maxFilenameLength = 255

// ValidateFilename validates an output filename for safety.
// It ensures the filename is a simple basename without path components.
//
// Validation rules:
//   - Filename cannot be empty
//   - Maximum length of 255 characters
//   - No control characters or quotes
//   - No path separators or traversal sequences
//   - No hidden files (leading dot)
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidFilename, "output filename cannot be empty")
	}

	if len(filename) > maxFilenameLength {
		return New(ErrCodeInvalidFilename, "output filename too long (max %d characters)", maxFilenameLength)
	}

	for _, r := range filename {
		if unicode.IsControl(r) || r == '"' {
			return New(ErrCodeInvalidFilename, "output filename contains invalid characters")
		}
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidFilename, "output filename cannot contain path separators")
	}

	if strings.Contains(filename, "..") {
		return New(ErrCodeInvalidFilename, "output filename cannot contain path traversal sequences (..)")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidFilename, "output filename cannot be a hidden file")
	}

	return nil
}

// ValidateJobID validates a job identifier taken from a URL path.
// Job identifiers are canonical UUID strings.
func ValidateJobID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "job id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid job id: %q", id)
	}
	return nil
}
