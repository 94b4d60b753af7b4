package threads

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"threadsapi/pkg/errors"
)

// Operation names, used in errors, logs and metric labels
const (
	OpShortLivedToken  = "short_lived_access_token"
	OpLongLivedToken   = "long_lived_access_token"
	OpRefreshToken     = "refresh_access_token"
	OpCreateContainer  = "create_media_container"
	OpPublishContainer = "publish_media_container"
	OpGetMediaObject   = "get_media_object"
)

// GetAuthorizationURL returns the consent page URL the user opens to grant
// scopes, a comma separated list such as "threads_basic,threads_content_publish".
// No request is made.
func (c *Client) GetAuthorizationURL(redirectURI, scopes string) string {
	return authorizationURL(c.platform.AuthorizeURL, c.appID, redirectURI, scopes, "")
}

// GetAuthorizationURLWithState is GetAuthorizationURL with a state value the
// consent page echoes back to redirectURI
func (c *Client) GetAuthorizationURLWithState(redirectURI, scopes, state string) string {
	return authorizationURL(c.platform.AuthorizeURL, c.appID, redirectURI, scopes, state)
}

// GetShortLivedAccessToken exchanges the authorization code delivered to
// redirectURI for a short-lived token. redirectURI must match the one used
// to build the authorization URL.
func (c *Client) GetShortLivedAccessToken(ctx context.Context, redirectURI, code string) (Credentials, error) {
	const op = OpShortLivedToken

	if code == "" {
		return Credentials{}, &errors.ValidationError{Field: "code", Message: "is required"}
	}

	cfg := &oauth2.Config{
		ClientID:     c.appID,
		ClientSecret: c.appSecret,
		RedirectURL:  redirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.platform.AuthorizeURL,
			TokenURL:  c.platform.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	rec := &recordingTransport{base: c.httpClient.Transport}
	hc := &http.Client{Transport: rec, Timeout: c.httpClient.Timeout}
	ctx = context.WithValue(withOperation(ctx, op), oauth2.HTTPClient, hc)

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		if rec.status == 0 {
			return Credentials{}, fmt.Errorf("%s: %w", op, err)
		}
		// Non-2xx, a body oauth2 could not decode and a body without
		// access_token all end up here with the server's answer recorded
		return Credentials{}, c.apiError(op, rec.status, rec.body)
	}

	c.logger.DebugWithFields("obtained short-lived token", map[string]interface{}{
		"platform":   c.platform.Name,
		"expires_at": tok.Expiry,
	})

	return Credentials{
		AccessToken: tok.AccessToken,
		ExpiresAt:   tok.Expiry,
		Stage:       ShortLived,
	}, nil
}

// GetLongLivedAccessToken exchanges a short-lived token for a long-lived
// one. The returned Credentials carry the user id needed by publishing calls.
func (c *Client) GetLongLivedAccessToken(ctx context.Context, shortLivedToken string) (Credentials, error) {
	const op = OpLongLivedToken

	if shortLivedToken == "" {
		return Credentials{}, fmt.Errorf("%s: short-lived token not set: %w", op, errors.ErrMissingCredentials)
	}

	q := url.Values{}
	q.Set("grant_type", grantExchangeToken)
	q.Set("client_secret", c.appSecret)
	q.Set("access_token", shortLivedToken)

	now := time.Now()
	var tr tokenResponse
	raw, err := c.do(ctx, op, http.MethodGet, hostURL(c.platform, ExchangeTokenPath), q, &tr)
	if err != nil {
		return Credentials{}, err
	}
	if tr.AccessToken == "" {
		return Credentials{}, c.apiError(op, raw.status, raw.body)
	}

	c.logger.InfoWithFields("obtained long-lived token", map[string]interface{}{
		"platform": c.platform.Name,
		"user_id":  tr.UserID.String(),
	})

	return Credentials{
		AccessToken: tr.AccessToken,
		UserID:      tr.UserID.String(),
		ExpiresAt:   expiryFrom(now, tr.ExpiresIn),
		Stage:       LongLived,
	}, nil
}

// RefreshLongLivedAccessToken extends a long-lived token. The user id of
// creds is carried into the result unchanged.
func (c *Client) RefreshLongLivedAccessToken(ctx context.Context, creds Credentials) (Credentials, error) {
	const op = OpRefreshToken

	if err := creds.requireToken(op); err != nil {
		return Credentials{}, err
	}

	q := url.Values{}
	q.Set("grant_type", grantRefreshToken)
	q.Set("access_token", creds.AccessToken)

	now := time.Now()
	var tr tokenResponse
	raw, err := c.do(ctx, op, http.MethodGet, hostURL(c.platform, RefreshTokenPath), q, &tr)
	if err != nil {
		return Credentials{}, err
	}
	if tr.AccessToken == "" {
		return Credentials{}, c.apiError(op, raw.status, raw.body)
	}

	c.logger.InfoWithFields("refreshed long-lived token", map[string]interface{}{
		"platform": c.platform.Name,
		"user_id":  creds.UserID,
	})

	return Credentials{
		AccessToken: tr.AccessToken,
		UserID:      creds.UserID,
		ExpiresAt:   expiryFrom(now, tr.ExpiresIn),
		Stage:       LongLived,
	}, nil
}
