package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// maxNameLength bounds dependency names declared in Move.toml.
const maxNameLength = 256

// ValidatePackageName validates a dependency name declared in a manifest.
//
// The rules are intentionally conservative:
//   - No empty or blank names
//   - No control characters (including null bytes)
//   - Maximum length of 256 characters
//
// Scheme contents are never validated here; only the registry interprets them.
func ValidatePackageName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidPackage, "package name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name %q contains invalid control characters", name)
		}
	}

	return nil
}

// ValidateURL validates a registry base URL.
// It requires an http or https scheme and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL %q", rawURL)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", rawURL)
	}

	return nil
}

// ValidateToken validates an API token pasted by the user.
func ValidateToken(token string) error {
	if token == "" {
		return New(ErrCodeInvalidInput, "API token cannot be empty")
	}
	for _, r := range token {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "API token contains whitespace or control characters")
		}
	}
	return nil
}
