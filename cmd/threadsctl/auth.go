package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"threadsapi/pkg/threads"
	"threadsapi/pkg/ui"
)

// newAuthCmd groups the OAuth token lifecycle commands
func newAuthCmd(a *app) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Walk through the OAuth token lifecycle",
		Long: `Obtain and refresh access tokens.

The lifecycle is:
  1. auth url         open the printed URL and approve the app
  2. auth exchange    trade the code from the redirect for a short-lived token
  3. auth long-lived  trade that for a long-lived token and the user id
  4. auth refresh     extend the long-lived token before it expires

Tokens are printed and never written to disk.`,
	}

	authCmd.AddCommand(
		newAuthURLCmd(a),
		newAuthExchangeCmd(a),
		newAuthLongLivedCmd(a),
		newAuthRefreshCmd(a),
	)
	return authCmd
}

func newAuthURLCmd(a *app) *cobra.Command {
	var state string
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print the consent page URL",
		Example: `  threadsctl auth url --redirect-uri https://example.com/callback
  threadsctl auth url --state my-csrf-value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			if cfg.App.RedirectURI == "" {
				return errors.New("redirect uri is required (--redirect-uri or THREADSAPI_REDIRECT_URI)")
			}
			if state == "" {
				state = uuid.NewString()
			}

			ui.PrintInfo("Platform", client.Platform().Name)
			ui.PrintInfo("State", state)
			ui.PrintResult(client.GetAuthorizationURLWithState(cfg.App.RedirectURI, cfg.App.Scopes, state))
			return nil
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "state echoed back to the redirect URI (default: random UUID)")
	return cmd
}

func newAuthExchangeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exchange <code>",
		Short: "Exchange an authorization code for a short-lived token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			if cfg.App.RedirectURI == "" {
				return errors.New("redirect uri is required and must match the one used for auth url")
			}

			// Codes are often pasted with the trailing fragment the consent
			// page appends
			code := strings.TrimSuffix(strings.TrimSpace(args[0]), "#_")

			ui.PrintHighlight("[EXCHANGING AUTHORIZATION CODE]")
			creds, err := client.GetShortLivedAccessToken(cmd.Context(), cfg.App.RedirectURI, code)
			if err != nil {
				return err
			}
			printCredentials(creds)
			return nil
		},
	}
}

func newAuthLongLivedCmd(a *app) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "long-lived",
		Short: "Exchange a short-lived token for a long-lived one",
		Long: `Exchange a short-lived token for a long-lived one.

The short-lived token is read from --token, THREADSAPI_ACCESS_TOKEN, or a
hidden prompt, in that order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			short, err := a.readToken(token, "Short-lived token: ")
			if err != nil {
				return err
			}

			ui.PrintHighlight("[REQUESTING LONG-LIVED TOKEN]")
			creds, err := client.GetLongLivedAccessToken(cmd.Context(), short)
			if err != nil {
				return err
			}
			printCredentials(creds)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "short-lived access token")
	return cmd
}

func newAuthRefreshCmd(a *app) *cobra.Command {
	var token, userID string
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Extend a long-lived token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			current, err := a.readToken(token, "Long-lived token: ")
			if err != nil {
				return err
			}

			ui.PrintHighlight("[REFRESHING TOKEN]")
			creds, err := client.RefreshLongLivedAccessToken(cmd.Context(), threads.Credentials{
				AccessToken: current,
				UserID:      firstNonEmpty(userID, os.Getenv(envUserID)),
				Stage:       threads.LongLived,
			})
			if err != nil {
				return err
			}
			printCredentials(creds)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "long-lived access token")
	cmd.Flags().StringVar(&userID, "user-id", "", "user id to carry into the output")
	return cmd
}

// readToken resolves a token from the flag, the environment or a prompt
func (a *app) readToken(flagValue, prompt string) (string, error) {
	if v := firstNonEmpty(flagValue, os.Getenv(envAccessToken)); v != "" {
		return v, nil
	}

	if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(os.Stderr, prompt)
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(os.Stderr) // New line after password
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return requireToken(string(secret))
	}

	// Fallback to regular input
	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return requireToken(line)
}

func requireToken(raw string) (string, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return "", fmt.Errorf("access token is required (--token or %s)", envAccessToken)
	}
	return token, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func printCredentials(creds threads.Credentials) {
	expires := ""
	if !creds.ExpiresAt.IsZero() {
		expires = creds.ExpiresAt.Format(time.RFC3339)
	}
	ui.PrintPanel("Credentials", []ui.Field{
		{Label: "access_token", Value: creds.AccessToken},
		{Label: "user_id", Value: creds.UserID},
		{Label: "stage", Value: creds.Stage.String()},
		{Label: "expires_at", Value: expires},
	})
}
