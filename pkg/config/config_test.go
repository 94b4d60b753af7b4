package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.API.Platform != "threads" {
		t.Errorf("Expected default platform to be threads, got %s", config.API.Platform)
	}

	if config.API.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout to be 30s, got %v", config.API.Timeout)
	}

	if config.Logging.Level != "info" {
		t.Errorf("Expected default log level to be info, got %s", config.Logging.Level)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("THREADSAPI_APP_ID", "env-app")
	t.Setenv("THREADSAPI_APP_SECRET", "env-secret")
	t.Setenv("THREADSAPI_REDIRECT_URI", "https://example.com/cb")
	t.Setenv("THREADSAPI_PLATFORM", "Instagram")
	t.Setenv("THREADSAPI_HTTP_TIMEOUT", "5s")
	t.Setenv("THREADSAPI_DEBUG", "true")
	t.Setenv("THREADSAPI_LOG_LEVEL", "debug")

	config := DefaultConfig()
	err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.App.ID != "env-app" {
		t.Errorf("Expected app id to be env-app, got %s", config.App.ID)
	}

	if config.App.Secret != "env-secret" {
		t.Errorf("Expected app secret to be env-secret, got %s", config.App.Secret)
	}

	if config.App.RedirectURI != "https://example.com/cb" {
		t.Errorf("Expected redirect uri to be https://example.com/cb, got %s", config.App.RedirectURI)
	}

	if config.API.Platform != "instagram" {
		t.Errorf("Expected platform to be instagram, got %s", config.API.Platform)
	}

	if config.API.Timeout != 5*time.Second {
		t.Errorf("Expected timeout to be 5s, got %v", config.API.Timeout)
	}

	if !config.API.Debug {
		t.Error("Expected debug to be enabled")
	}

	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level to be debug, got %s", config.Logging.Level)
	}
}

func TestLoadFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("THREADSAPI_HTTP_TIMEOUT", "soon")

	if err := DefaultConfig().LoadFromEnv(); err == nil {
		t.Error("Expected an error for an unparsable timeout")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.App.ID = "app"
		cfg.App.Secret = "secret"
		return cfg
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "missing app id", mutate: func(c *Config) { c.App.ID = "" }, wantError: true},
		{name: "missing app secret", mutate: func(c *Config) { c.App.Secret = "" }, wantError: true},
		{name: "instagram platform", mutate: func(c *Config) { c.API.Platform = "instagram" }},
		{name: "unknown platform", mutate: func(c *Config) { c.API.Platform = "myspace" }, wantError: true},
		{name: "zero timeout", mutate: func(c *Config) { c.API.Timeout = 0 }, wantError: true},
		{name: "invalid log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()

	flags := map[string]interface{}{
		"app-id":    "flag-app",
		"platform":  "INSTAGRAM",
		"timeout":   10 * time.Second,
		"log-level": "error",
		"scopes":    "",
	}

	config.MergeCommandLineFlags(flags)

	if config.App.ID != "flag-app" {
		t.Errorf("Expected app id to be flag-app, got %s", config.App.ID)
	}

	if config.API.Platform != "instagram" {
		t.Errorf("Expected platform to be instagram, got %s", config.API.Platform)
	}

	if config.API.Timeout != 10*time.Second {
		t.Errorf("Expected timeout to be 10s, got %v", config.API.Timeout)
	}

	if config.Logging.Level != "error" {
		t.Errorf("Expected log level to be error, got %s", config.Logging.Level)
	}

	if config.App.Scopes != DefaultConfig().App.Scopes {
		t.Errorf("Expected empty scopes flag to keep default, got %s", config.App.Scopes)
	}
}

func TestSaveAndLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "test-config.yaml")

	config := DefaultConfig()
	config.App.ID = "save-app"
	config.App.Secret = "save-secret"
	config.API.Platform = "instagram"

	err := config.Save(configPath)
	if err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loadedConfig := DefaultConfig()
	err = loadedConfig.LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loadedConfig.App.ID != "save-app" {
		t.Errorf("Expected loaded app id to be save-app, got %s", loadedConfig.App.ID)
	}

	if loadedConfig.API.Platform != "instagram" {
		t.Errorf("Expected loaded platform to be instagram, got %s", loadedConfig.API.Platform)
	}
}
