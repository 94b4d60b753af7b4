package threads

import (
	"fmt"
	"time"

	"threadsapi/pkg/errors"
)

// TokenStage is where a credential sits in the OAuth lifecycle:
// NoToken -> ShortLived -> LongLived, with refresh staying LongLived.
type TokenStage int

const (
	NoToken TokenStage = iota
	ShortLived
	LongLived
)

func (s TokenStage) String() string {
	switch s {
	case NoToken:
		return "none"
	case ShortLived:
		return "short-lived"
	case LongLived:
		return "long-lived"
	default:
		return fmt.Sprintf("TokenStage(%d)", int(s))
	}
}

// Credentials are owned by the caller. Token operations never modify the
// value they are given; they return a new one.
type Credentials struct {
	AccessToken string
	// UserID becomes known when a short-lived token is exchanged for a
	// long-lived one and is carried forward by refresh
	UserID string
	// ExpiresAt is zero when the server did not say
	ExpiresAt time.Time
	Stage     TokenStage
}

// Expired reports whether the token is past its known expiry at now
func (c Credentials) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// requireToken fails fast when there is no access token
func (c Credentials) requireToken(op string) error {
	if c.AccessToken == "" {
		return fmt.Errorf("%s: access token not set: %w", op, errors.ErrMissingCredentials)
	}
	return nil
}

// requireUser fails fast when a user-scoped edge cannot be addressed
func (c Credentials) requireUser(op string) error {
	if err := c.requireToken(op); err != nil {
		return err
	}
	if c.UserID == "" {
		return fmt.Errorf("%s: user id not set, exchange for a long-lived token first: %w", op, errors.ErrMissingCredentials)
	}
	return nil
}

func expiryFrom(now time.Time, expiresIn int64) time.Time {
	if expiresIn <= 0 {
		return time.Time{}
	}
	return now.Add(time.Duration(expiresIn) * time.Second)
}
