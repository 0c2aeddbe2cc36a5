// Package cli implements the movey command-line interface.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/movey-network/movey/pkg/credential"
	"github.com/movey-network/movey/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and completion scripts.
	appName = "movey"

	// defaultServeAddr is where `registry serve` listens by default.
	defaultServeAddr = ":8080"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Home overrides the credential directory ($MOVE_HOME or ~/.move).
	Home string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Credentials
// =============================================================================

func (c *CLI) credentialStore() (*credential.Store, error) {
	store, err := credential.NewStore(c.Home)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot locate Move home: %v", err)
	}
	return store, nil
}

// registryURL picks the registry base URL: an explicit flag wins, then the
// credential file and MOVEY_REGISTRY_URL, then the public registry.
func (c *CLI) registryURL(flag string) (string, error) {
	if flag != "" {
		url := strings.TrimRight(flag, "/")
		if err := errors.ValidateURL(url); err != nil {
			return "", err
		}
		return url, nil
	}
	store, err := c.credentialStore()
	if err != nil {
		return "", err
	}
	return store.RegistryURL()
}
