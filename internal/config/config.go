// Package config handles the XDG configuration directory, the config file and
// the stored access token.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// TOMLFile is the preferred config filename.
	TOMLFile = "config.toml"

	// YAMLFile is read when no TOML config exists.
	YAMLFile = "config.yaml"

	// TokenFile is the stored access token filename.
	TokenFile = "token.json"

	// DefaultEndpoint is the behavior endpoint of a locally running server.
	DefaultEndpoint = "http://localhost:8080/todolist"

	// DefaultTimeout bounds every exchange.
	DefaultTimeout = 5 * time.Second

	// DefaultFallDuration is how long a deleted node shows its fall transition.
	DefaultFallDuration = 300 * time.Millisecond

	// EnvEndpoint overrides the configured endpoint.
	EnvEndpoint = "TODO_ENDPOINT"

	// EnvTimeout overrides the configured timeout (Go duration syntax).
	EnvTimeout = "TODO_TIMEOUT"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Endpoint is the URL every request is posted to.
	Endpoint string

	// Timeout bounds a single exchange.
	Timeout time.Duration

	// FallDuration is the length of the delete transition in the board.
	FallDuration time.Duration

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// fileConfig is the on-disk shape shared by the TOML and YAML files.
type fileConfig struct {
	Endpoint     string `toml:"endpoint" yaml:"endpoint"`
	Timeout      string `toml:"timeout" yaml:"timeout"`
	FallDuration string `toml:"fall_duration" yaml:"fall_duration"`
}

// New creates a Config for the default or specified config directory.
// Settings are layered: defaults, then the config file in the directory,
// then environment variables.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:          dir,
		Endpoint:     DefaultEndpoint,
		Timeout:      DefaultTimeout,
		FallDuration: DefaultFallDuration,
	}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func (c *Config) loadFile() error {
	var fc fileConfig

	tomlPath := filepath.Join(c.Dir, TOMLFile)
	yamlPath := filepath.Join(c.Dir, YAMLFile)
	switch {
	case fileExists(tomlPath):
		if _, err := toml.DecodeFile(tomlPath, &fc); err != nil {
			return fmt.Errorf("loading config file %s: %w", tomlPath, err)
		}
	case fileExists(yamlPath):
		data, err := os.ReadFile(yamlPath)
		if err != nil {
			return fmt.Errorf("loading config file %s: %w", yamlPath, err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("loading config file %s: %w", yamlPath, err)
		}
	default:
		return nil
	}

	if fc.Endpoint != "" {
		c.Endpoint = fc.Endpoint
	}
	if fc.Timeout != "" {
		d, err := parsePositiveDuration("timeout", fc.Timeout)
		if err != nil {
			return err
		}
		c.Timeout = d
	}
	if fc.FallDuration != "" {
		d, err := time.ParseDuration(fc.FallDuration)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid fall_duration: %s", fc.FallDuration)
		}
		c.FallDuration = d
	}
	return nil
}

func (c *Config) loadEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvEndpoint)); v != "" {
		c.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		d, err := parsePositiveDuration(EnvTimeout, v)
		if err != nil {
			return err
		}
		c.Timeout = d
	}
	return nil
}

func parsePositiveDuration(name, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %s", name, v)
	}
	return d, nil
}

// TokenPath returns the path to the stored access token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	return fileExists(c.TokenPath())
}

// LoadToken reads the stored token. Returns nil and no error if none is stored.
func (c *Config) LoadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.TokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}
	if token.AccessToken == "" {
		return nil, errors.New("invalid token.json: no access token")
	}
	return &token, nil
}

// SaveToken writes the token file with mode 0600.
func (c *Config) SaveToken(token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.TokenPath(), data, 0600)
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
