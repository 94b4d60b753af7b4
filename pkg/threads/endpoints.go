package threads

import (
	"net/url"
	"strings"
)

const (
	// ExchangeTokenPath swaps a short-lived token for a long-lived one
	ExchangeTokenPath = "/access_token"

	// RefreshTokenPath extends a long-lived token
	RefreshTokenPath = "/refresh_access_token"

	grantExchangeToken = "ig_exchange_token"
	grantRefreshToken  = "ig_refresh_token"
)

// queryParam is one key/value of an order-preserving query string
type queryParam struct {
	key   string
	value string
}

// encodeOrdered renders params in the given order. url.Values sorts keys,
// which the authorization URL must not do.
func encodeOrdered(params []queryParam) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(queryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(queryEscape(p.value))
	}
	return b.String()
}

// queryEscape percent-encodes s for use as a query key or value. Unlike
// url.QueryEscape it leaves ':', '/', ',' and '@' literal; RFC 3986 allows
// them in a query and the consent page expects redirect URIs and scope
// lists in that form.
func queryEscape(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isQuerySafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&15])
	}
	return b.String()
}

func isQuerySafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '~', ':', '/', ',', '@':
		return true
	}
	return false
}

// authorizationURL builds the consent page URL. Parameter order is fixed:
// client_id, redirect_uri, scope, response_type, then state when present.
func authorizationURL(authorizeURL, clientID, redirectURI, scopes, state string) string {
	params := []queryParam{
		{"client_id", clientID},
		{"redirect_uri", redirectURI},
		{"scope", scopes},
		{"response_type", "code"},
	}
	if state != "" {
		params = append(params, queryParam{"state", state})
	}
	return authorizationBase(authorizeURL) + encodeOrdered(params)
}

func authorizationBase(authorizeURL string) string {
	if strings.Contains(authorizeURL, "?") {
		return authorizeURL + "&"
	}
	return authorizeURL + "?"
}

// hostURL joins an unversioned path onto the platform host
func hostURL(p Platform, path string) string {
	return strings.TrimRight(p.GraphURL, "/") + path
}

// graphURL joins path segments under the versioned API root. Segments are
// escaped individually so ids can never introduce extra path elements.
func graphURL(p Platform, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(p.GraphURL, "/"))
	b.WriteByte('/')
	b.WriteString(p.Version)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}
