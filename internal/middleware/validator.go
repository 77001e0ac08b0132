package middleware

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

var (
	tenantPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
	uuidPattern   = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)
)

// ValidateTenantID validates tenant ID format
func ValidateTenantID(tenant string) error {
	if tenant == "" {
		return fmt.Errorf("tenant ID cannot be empty")
	}
	if !tenantPattern.MatchString(tenant) {
		return fmt.Errorf("invalid tenant ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

// ValidateAnalysisID validates analysis ID format (uuid)
func ValidateAnalysisID(id string) error {
	if id == "" {
		return fmt.Errorf("analysis ID cannot be empty")
	}
	if !uuidPattern.MatchString(strings.ToLower(id)) {
		return fmt.Errorf("invalid analysis ID format")
	}
	return nil
}

// ValidateFileName rejects path traversal and control characters in
// uploaded file names; the name becomes part of the storage key.
func ValidateFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("file name cannot be empty")
	}
	if name != filepath.Base(name) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid file name")
	}
	for _, r := range name {
		if r < 32 || r == 0x7f {
			return fmt.Errorf("invalid characters in file name")
		}
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidatePageSize clamps page sizes like ValidateLimit
func ValidatePageSize(size int) int {
	return ValidateLimit(size)
}
