package xerrors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateDatasetName validates a stored dataset name for safety and
// correctness. It rejects names that could be used for path traversal
// when a file-backed store maps names to paths.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateDatasetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidDataset, "dataset name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidDataset, "dataset name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDataset, "dataset name contains invalid control characters")
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
			return New(ErrCodeInvalidDataset, "dataset name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateFilename validates a plain filename for safety. It ensures
// the filename is a simple basename without path components.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "filename cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidInput, "filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidInput, "filename cannot be a hidden file")
	}

	return nil
}

// crsRegex matches authority:code references like "EPSG:4326" and the
// urn:ogc form carried by legacy GeoJSON.
var crsRegex = regexp.MustCompile(`^(?:[A-Za-z]+:[A-Za-z0-9.]+|urn:ogc:def:crs:[A-Za-z0-9.]+:[A-Za-z0-9.]*:[A-Za-z0-9.]+)$`)

// ValidateCRS validates a coordinate reference system identifier.
func ValidateCRS(crs string) error {
	if crs == "" {
		return New(ErrCodeInvalidInput, "CRS cannot be empty")
	}

	if !crsRegex.MatchString(crs) {
		return New(ErrCodeInvalidInput, "invalid CRS identifier: %q", crs)
	}

	return nil
}
