// Package config resolves crmctl settings from, in order of precedence,
// environment variables, an optional .env file, and an optional YAML config
// file under the crmctl home directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultAPIBaseURL is the backend used when nothing else is configured.
const DefaultAPIBaseURL = "http://localhost:8000/api/v1"

// homeDirName is the per-user directory holding config and credentials.
const homeDirName = ".crmctl"

// Config holds crmctl runtime settings
type Config struct {
	// APIBaseURL is the base URL of the CRM backend, including the API prefix
	APIBaseURL string `yaml:"api_base_url"`

	// CredentialsFile is where the auth token is persisted
	CredentialsFile string `yaml:"credentials_file"`

	// RequestTimeout bounds every backend call
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// LogLevel is the minimum level for diagnostic output (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogFormat selects text or json diagnostics
	LogFormat string `yaml:"log_format"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		APIBaseURL:      DefaultAPIBaseURL,
		CredentialsFile: filepath.Join(homeDir(), "credentials.json"),
		RequestTimeout:  30 * time.Second,
		LogLevel:        "warn",
		LogFormat:       "text",
	}
}

// Load resolves the effective configuration.
//
// A .env file in the working directory is loaded first (it only fills
// variables that are not already set), then an optional config.yaml under
// the crmctl home directory, then environment variables on top.
func Load() (Config, error) {
	// Missing .env is the normal case
	_ = godotenv.Load()

	cfg := Default()

	path := filepath.Join(homeDir(), "config.yaml")
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CRM_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("CRM_CREDENTIALS_FILE"); v != "" {
		cfg.CredentialsFile = v
	}
	if v := os.Getenv("CRM_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("CRM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CRM_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

func homeDir() string {
	if v := os.Getenv("CRM_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return homeDirName
	}
	return filepath.Join(home, homeDirName)
}
