package threads

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizationURL(t *testing.T) {
	tests := []struct {
		name        string
		redirectURI string
		scopes      string
		state       string
		expected    string
	}{
		{
			name:        "plain values stay readable",
			redirectURI: "https://cb",
			scopes:      "scope1,scope2",
			expected:    "https://threads.net/oauth/authorize?client_id=123&redirect_uri=https://cb&scope=scope1,scope2&response_type=code",
		},
		{
			name:        "state is appended last",
			redirectURI: "https://cb",
			scopes:      "threads_basic",
			state:       "xyz",
			expected:    "https://threads.net/oauth/authorize?client_id=123&redirect_uri=https://cb&scope=threads_basic&response_type=code&state=xyz",
		},
		{
			name:        "reserved characters are encoded",
			redirectURI: "https://example.com/cb?next=a&b",
			scopes:      "a b",
			expected:    "https://threads.net/oauth/authorize?client_id=123&redirect_uri=https://example.com/cb%3Fnext%3Da%26b&scope=a%20b&response_type=code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := authorizationURL(Threads.AuthorizeURL, "123", tt.redirectURI, tt.scopes, tt.state)
			assert.Equal(t, tt.expected, result)

			parsed, err := url.Parse(result)
			require.NoError(t, err)
			assert.Equal(t, tt.redirectURI, parsed.Query().Get("redirect_uri"))
			assert.Equal(t, tt.scopes, parsed.Query().Get("scope"))
		})
	}
}

func TestAuthorizationURLKeyOrder(t *testing.T) {
	result := authorizationURL(Instagram.AuthorizeURL, "app", "https://cb", "s", "")

	_, rawQuery, found := strings.Cut(result, "?")
	require.True(t, found)

	var keys []string
	for _, pair := range strings.Split(rawQuery, "&") {
		key, _, _ := strings.Cut(pair, "=")
		keys = append(keys, key)
	}
	assert.Equal(t, []string{"client_id", "redirect_uri", "scope", "response_type"}, keys)
}

func TestAuthorizationBase(t *testing.T) {
	assert.Equal(t, "https://a/authorize?", authorizationBase("https://a/authorize"))
	assert.Equal(t, "https://a/authorize?x=1&", authorizationBase("https://a/authorize?x=1"))
}

func TestQueryEscape(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"abc-XYZ_0.9~", "abc-XYZ_0.9~"},
		{"https://cb/path", "https://cb/path"},
		{"a,b", "a,b"},
		{"user@host", "user@host"},
		{"a b", "a%20b"},
		{"a+b", "a%2Bb"},
		{"k=v&x", "k%3Dv%26x"},
		{"#frag", "%23frag"},
		{"é", "%C3%A9"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, queryEscape(tt.in))
		})
	}
}

func TestEncodeOrdered(t *testing.T) {
	got := encodeOrdered([]queryParam{{"z", "1"}, {"a", "2"}, {"m", "x y"}})
	assert.Equal(t, "z=1&a=2&m=x%20y", got)
}

func TestGraphURL(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		segments []string
		expected string
	}{
		{
			name:     "threads create edge",
			platform: Threads,
			segments: []string{"42", Threads.CreateEdge},
			expected: "https://graph.threads.net/v1.0/42/threads",
		},
		{
			name:     "instagram publish edge",
			platform: Instagram,
			segments: []string{"42", Instagram.PublishEdge},
			expected: "https://graph.instagram.com/v21.0/42/media_publish",
		},
		{
			name:     "media object",
			platform: Threads,
			segments: []string{"1790"},
			expected: "https://graph.threads.net/v1.0/1790",
		},
		{
			name:     "slashes in ids are escaped",
			platform: Threads,
			segments: []string{"../me"},
			expected: "https://graph.threads.net/v1.0/..%2Fme",
		},
		{
			name:     "trailing slash on host",
			platform: Threads.WithHost("http://127.0.0.1:9000/"),
			segments: []string{"1"},
			expected: "http://127.0.0.1:9000/v1.0/1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, graphURL(tt.platform, tt.segments...))
		})
	}
}

func TestHostURL(t *testing.T) {
	assert.Equal(t, "https://graph.threads.net/access_token", hostURL(Threads, ExchangeTokenPath))
	assert.Equal(t, "https://graph.instagram.com/refresh_access_token", hostURL(Instagram, RefreshTokenPath))
}
