package logger

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// TestLogger is a logger implementation for testing that captures all log messages
type TestLogger struct {
	mu       sync.Mutex
	messages []LogMessage
	buffer   bytes.Buffer
	zerolog  zerolog.Logger
}

// LogMessage represents a captured log message
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
	Error   error
}

// NewTestLogger creates a new test logger
func NewTestLogger() *TestLogger {
	return &TestLogger{zerolog: zerolog.Nop()}
}

// scoped returns a child logger carrying fields and err
func (l *TestLogger) scoped() *scopedTestLogger {
	return &scopedTestLogger{root: l}
}

func (l *TestLogger) Debug(msg string) { l.scoped().Debug(msg) }
func (l *TestLogger) Info(msg string)  { l.scoped().Info(msg) }
func (l *TestLogger) Warn(msg string)  { l.scoped().Warn(msg) }
func (l *TestLogger) Error(msg string) { l.scoped().Error(msg) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.record("DEBUG", msg, fields, nil)
}

func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.record("INFO", msg, fields, nil)
}

func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.record("WARN", msg, fields, nil)
}

func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.record("ERROR", msg, fields, nil)
}

func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return l.scoped().WithField(key, value)
}

func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	return l.scoped().WithFields(fields)
}

func (l *TestLogger) WithError(err error) Logger {
	return l.scoped().WithError(err)
}

// WithContext returns the logger unchanged; tests do not trace contexts
func (l *TestLogger) WithContext(ctx context.Context) Logger { return l }

func (l *TestLogger) GetZerolog() *zerolog.Logger { return &l.zerolog }

// record captures a log message
func (l *TestLogger) record(level, msg string, fields map[string]interface{}, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  fields,
		Error:   err,
	})

	fmt.Fprintf(&l.buffer, "[%s] %s", level, msg)
	if len(fields) > 0 {
		fmt.Fprintf(&l.buffer, " fields=%v", fields)
	}
	if err != nil {
		fmt.Fprintf(&l.buffer, " error=%v", err)
	}
	fmt.Fprintln(&l.buffer)
}

// GetMessages returns a copy of all captured log messages
func (l *TestLogger) GetMessages() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()

	messages := make([]LogMessage, len(l.messages))
	copy(messages, l.messages)
	return messages
}

// GetMessagesByLevel returns all messages of a specific level
func (l *TestLogger) GetMessagesByLevel(level string) []LogMessage {
	var filtered []LogMessage
	for _, msg := range l.GetMessages() {
		if msg.Level == level {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}

// HasMessage checks if a message with the given text was logged
func (l *TestLogger) HasMessage(text string) bool {
	for _, msg := range l.GetMessages() {
		if msg.Message == text {
			return true
		}
	}
	return false
}

// HasError checks if an error was logged
func (l *TestLogger) HasError() bool {
	return len(l.GetMessagesByLevel("ERROR")) > 0
}

// Clear clears all captured messages
func (l *TestLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = l.messages[:0]
	l.buffer.Reset()
}

// String returns all log messages as a string
func (l *TestLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.buffer.String()
}

// scopedTestLogger records into its root with extra fields and an error attached
type scopedTestLogger struct {
	root   *TestLogger
	fields map[string]interface{}
	err    error
}

func (s *scopedTestLogger) merge(extra map[string]interface{}) map[string]interface{} {
	if len(s.fields) == 0 && len(extra) == 0 {
		return nil
	}
	merged := make(map[string]interface{}, len(s.fields)+len(extra))
	for k, v := range s.fields {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func (s *scopedTestLogger) Debug(msg string) { s.root.record("DEBUG", msg, s.merge(nil), s.err) }
func (s *scopedTestLogger) Info(msg string)  { s.root.record("INFO", msg, s.merge(nil), s.err) }
func (s *scopedTestLogger) Warn(msg string)  { s.root.record("WARN", msg, s.merge(nil), s.err) }
func (s *scopedTestLogger) Error(msg string) { s.root.record("ERROR", msg, s.merge(nil), s.err) }

func (s *scopedTestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	s.root.record("DEBUG", msg, s.merge(fields), s.err)
}

func (s *scopedTestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	s.root.record("INFO", msg, s.merge(fields), s.err)
}

func (s *scopedTestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	s.root.record("WARN", msg, s.merge(fields), s.err)
}

func (s *scopedTestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	s.root.record("ERROR", msg, s.merge(fields), s.err)
}

func (s *scopedTestLogger) WithField(key string, value interface{}) Logger {
	return s.WithFields(map[string]interface{}{key: value})
}

func (s *scopedTestLogger) WithFields(fields map[string]interface{}) Logger {
	return &scopedTestLogger{root: s.root, fields: s.merge(fields), err: s.err}
}

func (s *scopedTestLogger) WithError(err error) Logger {
	return &scopedTestLogger{root: s.root, fields: s.fields, err: err}
}

func (s *scopedTestLogger) WithContext(ctx context.Context) Logger { return s }

func (s *scopedTestLogger) GetZerolog() *zerolog.Logger { return s.root.GetZerolog() }
