package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultServerURL is where the Metro dev server listens unless told otherwise
	DefaultServerURL = "http://localhost:8081"

	// DefaultEvaluateTimeoutMs bounds each hidden-flag check
	DefaultEvaluateTimeoutMs = 2000

	EnvServerURL = "JSINSPECT_SERVER_URL"
	EnvDebug     = "JSINSPECT_DEBUG"
)

type Config struct {
	ServerURL         string `toml:"server_url"`
	EvaluateTimeoutMs int    `toml:"evaluate_timeout_ms"`
	Debug             bool   `toml:"debug"`
}

// Default returns the configuration used when no file or override is present
func Default() *Config {
	return &Config{
		ServerURL:         DefaultServerURL,
		EvaluateTimeoutMs: DefaultEvaluateTimeoutMs,
	}
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".jsinspect", "config.toml"), nil
}

// Load loads the configuration from the default path and applies environment overrides
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		cfg := Default() // No home directory, run on defaults
		cfg.ApplyEnv()
		return cfg, nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from path. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from JSINSPECT_* environment variables
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvServerURL); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv(EnvDebug); v != "" {
		c.Debug = strings.EqualFold(v, "true") || v == "1"
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url must not be empty")
	}
	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("server_url %q must start with http:// or https://", c.ServerURL)
	}
	if c.EvaluateTimeoutMs <= 0 {
		return fmt.Errorf("evaluate_timeout_ms must be positive, got %d", c.EvaluateTimeoutMs)
	}
	return nil
}

// EvaluateTimeout returns the hidden-flag check timeout as a duration
func (c *Config) EvaluateTimeout() time.Duration {
	return time.Duration(c.EvaluateTimeoutMs) * time.Millisecond
}

// Save writes the configuration to path, creating its directory
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
