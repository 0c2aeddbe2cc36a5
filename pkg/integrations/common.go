package integrations

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is returned when the registry answers 404.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-2xx responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates the HTTP client for registry requests. It sets no
// overall timeout; the request context bounds each call.
func NewHTTPClient() *http.Client {
	return &http.Client{}
}

// UserAgent returns the User-Agent sent to registries for the given version.
func UserAgent(version string) string {
	if version == "" {
		version = "dev"
	}
	return "movey/" + version + " (https://github.com/movey-network/movey)"
}
