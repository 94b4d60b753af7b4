package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable the loader reads
const EnvPrefix = "THREADSAPI_"

// Config holds all configuration options for the Graph API client and CLI
type Config struct {
	// App registration on the developer portal
	App AppConfig `yaml:"app" json:"app"`

	// API endpoint and transport settings
	API APIConfig `yaml:"api" json:"api"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// AppConfig holds the OAuth application settings. Access tokens are
// deliberately absent: they are passed per invocation and never stored.
type AppConfig struct {
	ID          string `yaml:"id" json:"id"`
	Secret      string `yaml:"secret" json:"secret"`
	RedirectURI string `yaml:"redirect_uri" json:"redirect_uri"`
	Scopes      string `yaml:"scopes" json:"scopes"`
}

// APIConfig selects the platform variant and tunes the HTTP transport
type APIConfig struct {
	Platform string        `yaml:"platform" json:"platform"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout"`
	Debug    bool          `yaml:"debug" json:"debug"`
	// GraphURL and AuthURL override the platform hosts, mostly for testing
	GraphURL string `yaml:"graph_url,omitempty" json:"graph_url,omitempty"`
	AuthURL  string `yaml:"auth_url,omitempty" json:"auth_url,omitempty"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
	JSON  bool   `yaml:"json" json:"json"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Scopes: "threads_basic,threads_content_publish",
		},
		API: APIConfig{
			Platform: "threads",
			Timeout:  30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv(EnvPrefix + "APP_ID"); v != "" {
		c.App.ID = v
	}
	if v := os.Getenv(EnvPrefix + "APP_SECRET"); v != "" {
		c.App.Secret = v
	}
	if v := os.Getenv(EnvPrefix + "REDIRECT_URI"); v != "" {
		c.App.RedirectURI = v
	}
	if v := os.Getenv(EnvPrefix + "SCOPES"); v != "" {
		c.App.Scopes = v
	}

	if v := os.Getenv(EnvPrefix + "PLATFORM"); v != "" {
		c.API.Platform = strings.ToLower(v)
	}
	if v := os.Getenv(EnvPrefix + "HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sHTTP_TIMEOUT: %w", EnvPrefix, err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv(EnvPrefix + "DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sDEBUG: %w", EnvPrefix, err)
		}
		c.API.Debug = debug
	}
	if v := os.Getenv(EnvPrefix + "GRAPH_URL"); v != "" {
		c.API.GraphURL = v
	}
	if v := os.Getenv(EnvPrefix + "AUTH_URL"); v != "" {
		c.API.AuthURL = v
	}

	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".threadsapi.yaml",
		".threadsapi.yml",
		filepath.Join(home, ".config", "threadsapi", "config.yaml"),
		filepath.Join(home, ".config", "threadsapi", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.App.ID == "" {
		errs = append(errs, errors.New("app id is required"))
	}
	if c.App.Secret == "" {
		errs = append(errs, errors.New("app secret is required"))
	}

	switch strings.ToLower(c.API.Platform) {
	case "threads", "instagram":
	default:
		errs = append(errs, fmt.Errorf("unknown platform %q (want threads or instagram)", c.API.Platform))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("http timeout must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The app secret lives in this file
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only non-zero values override.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["app-id"].(string); ok && v != "" {
		c.App.ID = v
	}
	if v, ok := flags["app-secret"].(string); ok && v != "" {
		c.App.Secret = v
	}
	if v, ok := flags["redirect-uri"].(string); ok && v != "" {
		c.App.RedirectURI = v
	}
	if v, ok := flags["scopes"].(string); ok && v != "" {
		c.App.Scopes = v
	}
	if v, ok := flags["platform"].(string); ok && v != "" {
		c.API.Platform = strings.ToLower(v)
	}
	if v, ok := flags["timeout"].(time.Duration); ok && v > 0 {
		c.API.Timeout = v
	}
	if v, ok := flags["debug"].(bool); ok && v {
		c.API.Debug = true
	}
	if v, ok := flags["graph-url"].(string); ok && v != "" {
		c.API.GraphURL = v
	}
	if v, ok := flags["auth-url"].(string); ok && v != "" {
		c.API.AuthURL = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	config, err := LoadUnvalidated(configPath, flags)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadUnvalidated runs the same layering as Load without the final
// Validate, for commands that inspect a partial configuration.
func LoadUnvalidated(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".threadsapi.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	return config, nil
}
