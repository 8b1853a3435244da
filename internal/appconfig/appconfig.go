// internal/appconfig/appconfig.go

// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tao-philip/server-mcp/internal/apiclient"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// DefaultEnvFile is read for API keys when the config does not name another file.
	DefaultEnvFile = ".env"
	// defaultRequestTimeout is the default timeout for outbound API calls.
	defaultRequestTimeout = apiclient.DefaultTimeout
)

// Config represents the top-level application configuration.
type Config struct {
	Debug          bool   `json:"debug" mapstructure:"debug"`
	LogFile        string `json:"logFile,omitempty" mapstructure:"logFile"`
	TimeoutSeconds int    `json:"timeout,omitempty" mapstructure:"timeout"`
	UserAgent      string `json:"userAgent,omitempty" mapstructure:"userAgent"`
	EnvFile        string `json:"envFile,omitempty" mapstructure:"envFile"`
	ConfigPath     string `json:"-" mapstructure:"-"`
}

// RequestTimeout returns the timeout for outbound API calls, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the log file path. Empty means stderr only.
func (c Config) LogFilePath() string {
	return strings.TrimSpace(c.LogFile)
}

// UserAgentHeader returns the User-Agent sent upstream.
func (c Config) UserAgentHeader() string {
	if ua := strings.TrimSpace(c.UserAgent); ua != "" {
		return ua
	}
	return apiclient.DefaultUserAgent
}

// EnvFilePath returns the dotenv file consulted for API keys.
func (c Config) EnvFilePath() string {
	if p := strings.TrimSpace(c.EnvFile); p != "" {
		return p
	}
	return DefaultEnvFile
}

// Load reads the application configuration from path. A missing file at the
// default path yields the defaults; a missing explicit path is an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if !explicit {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds < 0 {
		return Config{}, fmt.Errorf("timeout must not be negative, got %d", config.TimeoutSeconds)
	}

	return config, nil
}
