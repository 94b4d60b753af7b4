package threads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"threadsapi/pkg/errors"
)

func TestCredentialsExpired(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, Credentials{}.Expired(now), "unknown expiry never expires")
	assert.False(t, Credentials{ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.True(t, Credentials{ExpiresAt: now}.Expired(now))
	assert.True(t, Credentials{ExpiresAt: now.Add(-time.Second)}.Expired(now))
}

func TestCredentialsRequire(t *testing.T) {
	err := Credentials{}.requireToken("op")
	assert.True(t, errors.Is(err, errors.ErrMissingCredentials))

	err = Credentials{AccessToken: "t"}.requireUser("op")
	assert.True(t, errors.Is(err, errors.ErrMissingCredentials))
	assert.Contains(t, err.Error(), "user id")

	assert.NoError(t, Credentials{AccessToken: "t", UserID: "u"}.requireUser("op"))
}

func TestTokenStageString(t *testing.T) {
	assert.Equal(t, "none", NoToken.String())
	assert.Equal(t, "short-lived", ShortLived.String())
	assert.Equal(t, "long-lived", LongLived.String())
	assert.Equal(t, "TokenStage(7)", TokenStage(7).String())
}

func TestExpiryFrom(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, expiryFrom(now, 0).IsZero())
	assert.Equal(t, now.Add(60*24*time.Hour), expiryFrom(now, 5184000))
}

func TestPlatformByName(t *testing.T) {
	p, err := PlatformByName("")
	assert.NoError(t, err)
	assert.Equal(t, Threads, p)

	p, err = PlatformByName(" Instagram ")
	assert.NoError(t, err)
	assert.Equal(t, Instagram, p)

	_, err = PlatformByName("myspace")
	assert.Error(t, err)
}

func TestPlatformWithHost(t *testing.T) {
	p := Instagram.WithHost("http://localhost:8080/")

	assert.Equal(t, "http://localhost:8080/oauth/authorize", p.AuthorizeURL)
	assert.Equal(t, "http://localhost:8080/oauth/access_token", p.TokenURL)
	assert.Equal(t, "http://localhost:8080", p.GraphURL)
	assert.Equal(t, Instagram.Version, p.Version)
	assert.Equal(t, Instagram.CreateEdge, p.CreateEdge)
	assert.False(t, p.PublishReturnsID)
	assert.Equal(t, "https://graph.instagram.com", Instagram.GraphURL, "the receiver is a copy")
}
