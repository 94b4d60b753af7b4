package logger

import (
	"net/url"
	"strings"
	"time"
)

// sensitiveParams are query and form keys whose values never reach a log line
var sensitiveParams = []string{"access_token", "client_secret", "code", "fb_exchange_token"}

const redacted = "REDACTED"

// RedactURL returns u as a string with credential-bearing query values masked
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	if u.RawQuery == "" {
		return u.String()
	}
	clone := *u
	clone.RawQuery = RedactQuery(u.RawQuery)
	return clone.String()
}

// RedactQuery masks sensitive values in an encoded query or form body.
// Parameter order is preserved.
func RedactQuery(raw string) string {
	if raw == "" {
		return raw
	}
	pairs := strings.Split(raw, "&")
	for i, pair := range pairs {
		key, _, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		name, err := url.QueryUnescape(key)
		if err != nil {
			name = key
		}
		if isSensitive(name) {
			pairs[i] = key + "=" + redacted
		}
	}
	return strings.Join(pairs, "&")
}

func isSensitive(name string) bool {
	for _, s := range sensitiveParams {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}

// LogRequest logs a completed Graph API call at a level matching its status
func LogRequest(log Logger, operation, method string, u *url.URL, statusCode int, duration time.Duration) {
	if log == nil {
		return
	}
	fields := map[string]interface{}{
		"operation": operation,
		"method":    method,
		"url":       RedactURL(u),
		"status":    statusCode,
		"duration":  duration,
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
		log.DebugWithFields("graph api request completed", fields)
	case statusCode >= 500:
		log.ErrorWithFields("graph api server error", fields)
	default:
		log.WarnWithFields("graph api request rejected", fields)
	}
}
