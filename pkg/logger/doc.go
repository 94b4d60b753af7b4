// Package logger provides the structured logging interface used by the
// Graph API client and the threadsctl CLI.
//
// It wraps zerolog with a small interface supporting levels, attached fields
// and a process-wide default logger:
//
//	err := logger.Initialize(&config.LoggingConfig{Level: "debug"})
//	logger.WithField("operation", "publish_media_container").Info("published")
//
// Credentials must never be logged. RedactURL and RedactQuery mask
// access_token, client_secret and code values before a URL or form body
// reaches a log line.
//
// TestLogger captures messages in memory for assertions in tests.
package logger
