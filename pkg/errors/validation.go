package errors

import (
	"strings"
	"unicode/utf8"
)

// MaxSourceBytes is the default ceiling on repair input size. Generated
// animation scripts run a few kilobytes; anything near this limit is either
// a runaway generation or not a script at all.
const MaxSourceBytes = 1 << 20

// ValidateSource validates raw generated source before it enters the repair
// pipeline.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only input
//   - No input above maxBytes (MaxSourceBytes when maxBytes is zero)
//   - No null bytes
//   - Must be valid UTF-8
//
// Semantic validity is not checked here; syntactically broken scripts are
// exactly what the pipeline exists to handle.
func ValidateSource(source string, maxBytes int) error {
	if strings.TrimSpace(source) == "" {
		return New(ErrCodeInvalidSource, "source is empty")
	}

	if maxBytes <= 0 {
		maxBytes = MaxSourceBytes
	}
	if len(source) > maxBytes {
		return New(ErrCodeSourceTooLarge, "source is %d bytes (max %d)", len(source), maxBytes)
	}

	if strings.ContainsRune(source, '\x00') {
		return New(ErrCodeInvalidSource, "source contains null bytes")
	}

	if !utf8.ValidString(source) {
		return New(ErrCodeInvalidSource, "source is not valid UTF-8")
	}

	return nil
}

// ValidateOutputPath validates a user-supplied output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "output path too long (max %d characters)", maxPathLength)
	}

	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidInput, "output path contains invalid characters")
	}

	return nil
}
