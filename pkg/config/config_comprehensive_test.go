package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// chdir moves into dir for the rest of the test so relative .env and
// config lookups resolve there.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)

	configPath := filepath.Join(dir, "config.yaml")
	fileCfg := `
app:
  id: file-app
  secret: file-secret
  redirect_uri: https://file.example/cb
api:
  platform: instagram
  timeout: 12s
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(configPath, []byte(fileCfg), 0600))

	t.Setenv("THREADSAPI_APP_SECRET", "env-secret")

	cfg, err := Load(configPath, map[string]interface{}{
		"log-level": "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, "file-app", cfg.App.ID)
	assert.Equal(t, "env-secret", cfg.App.Secret, "environment overrides file")
	assert.Equal(t, "https://file.example/cb", cfg.App.RedirectURI)
	assert.Equal(t, "instagram", cfg.API.Platform)
	assert.Equal(t, 12*time.Second, cfg.API.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level, "flags override everything")
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)

	// godotenv never overwrites variables that are already set, so register
	// cleanup for the ones it is about to create.
	t.Setenv("THREADSAPI_APP_ID", "")
	t.Setenv("THREADSAPI_APP_SECRET", "")
	require.NoError(t, os.Unsetenv("THREADSAPI_APP_ID"))
	require.NoError(t, os.Unsetenv("THREADSAPI_APP_SECRET"))

	env := "THREADSAPI_APP_ID=dotenv-app\nTHREADSAPI_APP_SECRET=dotenv-secret\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0600))

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "dotenv-app", cfg.App.ID)
	assert.Equal(t, "dotenv-secret", cfg.App.Secret)
}

func TestLoadFailsValidation(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)
	t.Setenv("THREADSAPI_APP_ID", "")
	t.Setenv("THREADSAPI_APP_SECRET", "")

	_, err := Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app id is required")
	assert.Contains(t, err.Error(), "app secret is required")

	cfg, err := LoadUnvalidated("", nil)
	require.NoError(t, err)
	assert.Equal(t, "threads", cfg.API.Platform)
}

func TestLoadFromFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		err := DefaultConfig().LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("app: [unclosed"), 0600))
		err := DefaultConfig().LoadFromFile(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("no default file is not an error", func(t *testing.T) {
		dir := t.TempDir()
		chdir(t, dir)
		t.Setenv("HOME", dir)
		assert.NoError(t, DefaultConfig().LoadFromFile(""))
	})
}

func TestSaveWritesPrivateYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := DefaultConfig()
	cfg.App.ID = "id"
	cfg.App.Secret = "shh"

	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "shh", decoded.App.Secret)
	assert.Equal(t, 30*time.Second, decoded.API.Timeout)
	assert.NotContains(t, string(data), "access_token")
}
