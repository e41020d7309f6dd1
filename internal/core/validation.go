// internal/core/validation.go
package core

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Sort columns and similar identifiers: alphanumeric + underscore.
var nameValidationRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// IsValidIdentifier checks if a string is a valid column-style identifier.
func IsValidIdentifier(name string) bool {
	return nameValidationRegex.MatchString(name) && len(name) > 0 && len(name) <= 64
}

// NormalizeAndValidateExtension lowercases the extension of fileName and
// reports whether it is in allowed. An empty allowed list accepts any
// non-empty extension.
func NormalizeAndValidateExtension(fileName string, allowed []string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" || ext == "." {
		return "", false
	}
	if len(allowed) == 0 {
		return ext, true
	}
	for _, a := range allowed {
		a = strings.ToLower(strings.TrimSpace(a))
		if !strings.HasPrefix(a, ".") {
			a = "." + a
		}
		if a == ext {
			return ext, true
		}
	}
	return "", false
}

// IsSafeRelativePath reports whether p stays inside its root once cleaned:
// relative, no parent traversal, no empty value.
func IsSafeRelativePath(p string) bool {
	if p == "" || strings.ContainsRune(p, 0) {
		return false
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\`) {
		return false
	}
	clean := filepath.ToSlash(filepath.Clean(p))
	return clean != "." && clean != ".." && !strings.HasPrefix(clean, "../")
}
