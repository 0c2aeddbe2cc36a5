// Package credential loads and stores the Movey registry credential file.
//
// The file lives at $MOVE_HOME/movey_credential.toml (default ~/.move):
//
//	[registry]
//	token = "..."
//	url = "https://www.movey.net"
//
// MOVEY_REGISTRY_URL and MOVEY_REGISTRY_TOKEN override the file.
package credential

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/movey-network/movey/pkg/errors"
)

const (
	// DefaultRegistryURL is used when neither the file nor the environment
	// names a registry.
	DefaultRegistryURL = "https://www.movey.net"

	// FileName is the credential file name inside the Move home directory.
	FileName = "movey_credential.toml"

	// HomeEnv overrides the Move home directory.
	HomeEnv = "MOVE_HOME"

	envPrefix = "MOVEY"
)

// Credential is the decoded credential file.
type Credential struct {
	Registry Registry `mapstructure:"registry" toml:"registry"`
}

// Registry holds the registry section.
type Registry struct {
	Token string `mapstructure:"token" toml:"token"`
	URL   string `mapstructure:"url" toml:"url,omitempty"`
}

// Store reads and writes the credential file in a Move home directory.
type Store struct {
	Home string
}

// NewStore returns a Store rooted at home.
// An empty home resolves to [DefaultHome].
func NewStore(home string) (*Store, error) {
	if home == "" {
		h, err := DefaultHome()
		if err != nil {
			return nil, err
		}
		home = h
	}
	return &Store{Home: home}, nil
}

// DefaultHome returns $MOVE_HOME, or ~/.move when it is unset.
func DefaultHome() (string, error) {
	if h := os.Getenv(HomeEnv); h != "" {
		return h, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot locate home directory: %v", err)
	}
	return filepath.Join(home, ".move"), nil
}

// Path returns the credential file path.
func (s *Store) Path() string {
	return filepath.Join(s.Home, FileName)
}

// Load reads the credential file and applies environment overrides.
// A missing file yields the defaults.
func (s *Store) Load() (*Credential, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("registry.url", DefaultRegistryURL)
	v.SetDefault("registry.token", "")

	path := s.Path()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid credential file %s: %v", path, err)
			}
		}
	} else if !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot read credential file %s: %v", path, err)
	}

	var c Credential
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid credential file %s: %v", path, err)
	}
	if c.Registry.URL == "" {
		c.Registry.URL = DefaultRegistryURL
	}
	return &c, nil
}

// RegistryURL returns the validated registry URL without a trailing slash.
func (s *Store) RegistryURL() (string, error) {
	c, err := s.Load()
	if err != nil {
		return "", err
	}
	url := strings.TrimRight(c.Registry.URL, "/")
	if err := errors.ValidateURL(url); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid registry url %q: %s", url, errors.UserMessage(err))
	}
	return url, nil
}

// Save stores token in the credential file. A non-empty url replaces the
// recorded registry URL; an empty one keeps whatever the file already has.
// The file is created with mode 0600.
func (s *Store) Save(token, url string) error {
	token = strings.TrimSpace(token)
	if err := errors.ValidateToken(token); err != nil {
		return err
	}
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if url != "" {
		if err := errors.ValidateURL(url); err != nil {
			return err
		}
	}

	path := s.Path()
	var c Credential
	if _, err := toml.DecodeFile(path, &c); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid credential file %s: %v", path, err)
	}
	c.Registry.Token = token
	if url != "" {
		c.Registry.URL = url
	}

	if err := os.MkdirAll(s.Home, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot create %s: %v", s.Home, err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot write credential file: %v", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		_ = f.Close()
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot write credential file: %v", err)
	}
	if err := f.Chmod(0o600); err != nil {
		_ = f.Close()
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot write credential file: %v", err)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot write credential file: %v", err)
	}
	return nil
}
