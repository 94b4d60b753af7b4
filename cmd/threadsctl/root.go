package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"threadsapi/pkg/config"
	"threadsapi/pkg/logger"
	"threadsapi/pkg/threads"
	"threadsapi/pkg/ui"
)

var (
	// Version information
	version   = "0.3.0"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// Environment variables read by the CLI only. Tokens are never part of the
// configuration file.
const (
	envAccessToken = config.EnvPrefix + "ACCESS_TOKEN"
	envUserID      = config.EnvPrefix + "USER_ID"
)

// app carries global flag values and the streams commands read from
type app struct {
	configFile  string
	appID       string
	appSecret   string
	redirectURI string
	scopes      string
	platform    string
	graphURL    string
	authURL     string
	logLevel    string
	timeout     time.Duration
	debug       bool
	noColor     bool
	quiet       bool

	in io.Reader
}

// newRootCmd builds the full command tree. Tokens that are not passed by
// flag or environment are read from in.
func newRootCmd(in io.Reader) *cobra.Command {
	a := &app{in: in}

	rootCmd := &cobra.Command{
		Use:   "threadsctl",
		Short: "Threads and Instagram Graph API token and publishing tool",
		Long: `threadsctl walks an app through the Graph API OAuth flow and publishes
media on behalf of the authorised user.

Tokens are printed, never stored. Pass them back with --token or the
THREADSAPI_ACCESS_TOKEN environment variable.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ui.SetNoColor(a.noColor)
			ui.SetQuietMode(a.quiet)

			// Don't show logo for certain commands
			if cmd.Name() != "version" && cmd.Name() != "help" && cmd.Name() != "completion" {
				ui.PrintLogo()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "config file (default is ./.threadsapi.yaml or ~/.config/threadsapi/config.yaml)")
	flags.StringVar(&a.appID, "app-id", "", "app id")
	flags.StringVar(&a.appSecret, "app-secret", "", "app secret")
	flags.StringVar(&a.redirectURI, "redirect-uri", "", "OAuth redirect URI registered for the app")
	flags.StringVar(&a.scopes, "scopes", "", "comma separated OAuth scopes")
	flags.StringVar(&a.platform, "platform", "", "API flavour: threads or instagram")
	flags.StringVar(&a.graphURL, "graph-url", "", "override the Graph API host")
	flags.StringVar(&a.authURL, "auth-url", "", "override the consent page URL")
	flags.DurationVar(&a.timeout, "timeout", 0, "HTTP timeout")
	flags.BoolVar(&a.debug, "debug", false, "dump redacted HTTP traffic at debug level")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "print results only")

	rootCmd.SetVersionTemplate(`threadsctl {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		newAuthCmd(a),
		newPostCmd(a),
		newContainerCmd(a),
		newMediaCmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}

// Execute runs the CLI and exits non-zero on failure
func Execute() {
	if err := newRootCmd(os.Stdin).Execute(); err != nil {
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}

// changedFlags collects the global flags the user actually set
func (a *app) changedFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	set := func(name string, value interface{}) {
		if cmd.Flags().Changed(name) {
			flags[name] = value
		}
	}
	set("app-id", a.appID)
	set("app-secret", a.appSecret)
	set("redirect-uri", a.redirectURI)
	set("scopes", a.scopes)
	set("platform", a.platform)
	set("graph-url", a.graphURL)
	set("auth-url", a.authURL)
	set("timeout", a.timeout)
	set("debug", a.debug)
	set("log-level", a.logLevel)
	return flags
}

// loadConfig loads and validates configuration and initialises logging
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(a.configFile, a.changedFlags(cmd))
	if err != nil {
		return nil, err
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

// newClient loads configuration and builds an API client from it
func (a *app) newClient(cmd *cobra.Command) (*threads.Client, *config.Config, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	platform, err := threads.PlatformByName(cfg.API.Platform)
	if err != nil {
		return nil, nil, err
	}

	client, err := threads.New(cfg.App.ID, cfg.App.Secret,
		threads.WithPlatform(platform),
		threads.WithBaseURLs(cfg.API.AuthURL, cfg.API.GraphURL),
		threads.WithHTTPTimeout(cfg.API.Timeout),
		threads.WithDebugLogging(cfg.API.Debug),
		threads.WithLogger(logger.GetLogger()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}

	logger.WithFields(map[string]interface{}{
		"platform": platform.Name,
		"version":  version,
	}).Debug("client ready")
	return client, cfg, nil
}
