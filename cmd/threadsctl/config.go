package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"threadsapi/pkg/config"
	"threadsapi/pkg/ui"
)

const defaultConfigPath = ".threadsapi.yaml"

const exampleConfig = `# threadsctl configuration file
#
# Environment variables prefixed with THREADSAPI_ override these values,
# for example THREADSAPI_APP_SECRET. Access tokens do not belong here;
# pass them with --token or THREADSAPI_ACCESS_TOKEN.

app:
  # App id and secret from the developer dashboard (required)
  id: "YOUR_APP_ID"
  secret: "YOUR_APP_SECRET"

  # Must match a redirect URI registered for the app
  redirect_uri: "https://example.com/callback"

  # Comma separated scopes requested on the consent page
  scopes: "threads_basic,threads_content_publish"

api:
  # threads or instagram
  platform: "threads"

  # HTTP timeout per request
  timeout: 30s

  # Dump redacted HTTP traffic at debug level
  debug: false

logging:
  # Log level: debug, info, warn, error, disabled
  level: "info"

  # Log file path (optional), written as JSON lines
  file: ""

  # Write JSON to stderr instead of the console format
  json: false
`

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
		Long: `Manage threadsctl configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (THREADSAPI_*)
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create an example configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := firstNonEmpty(a.configFile, defaultConfigPath)

			// Check if file already exists
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("configuration file already exists: %s", path)
			}

			// The app secret will live in this file
			if err := os.WriteFile(path, []byte(exampleConfig), 0600); err != nil {
				return fmt.Errorf("failed to create configuration file: %w", err)
			}

			ui.PrintSuccess("Configuration file created: " + path)
			ui.PrintInfo("Next", "fill in app.id and app.secret, then run 'threadsctl config validate'")
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the configuration after merging all sources. The app secret is
masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadUnvalidated(a.configFile, a.changedFlags(cmd))
			if err != nil {
				return err
			}

			display := *cfg
			display.App.Secret = maskSecret(display.App.Secret)

			data, err := yaml.Marshal(&display)
			if err != nil {
				return fmt.Errorf("failed to format configuration: %w", err)
			}
			ui.PrintHighlight("Current Configuration")
			ui.PrintResult(strings.TrimRight(string(data), "\n"))
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configFile, a.changedFlags(cmd))
			if err != nil {
				return err
			}

			if cfg.App.RedirectURI == "" {
				ui.PrintWarning("redirect_uri not configured", "auth url and auth exchange need it")
			}
			if cfg.App.ID == "YOUR_APP_ID" || cfg.App.Secret == "YOUR_APP_SECRET" {
				ui.PrintWarning("app credentials still hold the example placeholders")
			}

			ui.PrintSuccess("Configuration is valid")
			ui.PrintInfo("Platform", cfg.API.Platform)
			ui.PrintInfo("Timeout", cfg.API.Timeout.String())
			ui.PrintInfo("Log level", cfg.Logging.Level)
			return nil
		},
	}

	configCmd.AddCommand(initCmd, showCmd, validateCmd)
	return configCmd
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) > 8 {
		return s[:4] + "..." + s[len(s)-4:]
	}
	return "***"
}
