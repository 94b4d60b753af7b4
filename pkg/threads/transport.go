package threads

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"net/http/httputil"
	"strconv"
	"strings"
	"time"

	"threadsapi/pkg/logger"
)

type operationKey struct{}

// withOperation tags ctx with the client method issuing the request, for
// metrics and logs produced below the client
func withOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationKey{}, op)
}

func operationFrom(ctx context.Context) string {
	if op, ok := ctx.Value(operationKey{}).(string); ok {
		return op
	}
	return "unknown"
}

// instrumentedTransport records metrics and a log line per round trip
type instrumentedTransport struct {
	base   http.RoundTripper
	logger logger.Logger
}

func (t *instrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	op := operationFrom(req.Context())
	start := time.Now()

	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start)
	requestDuration.WithLabelValues(op).Observe(duration.Seconds())

	if err != nil {
		requestsTotal.WithLabelValues(op, "error").Inc()
		t.logger.ErrorWithFields("graph api request failed", map[string]interface{}{
			"operation": op,
			"method":    req.Method,
			"url":       logger.RedactURL(req.URL),
			"error":     err.Error(),
			"duration":  duration,
		})
		return nil, err
	}

	requestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()
	logger.LogRequest(t.logger, op, req.Method, req.URL, resp.StatusCode, duration)
	return resp, nil
}

// debugTransport dumps each request and response at debug level. Query
// strings are redacted; bodies of token endpoints are never dumped.
type debugTransport struct {
	base   http.RoundTripper
	logger logger.Logger
}

func (t *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	op := operationFrom(req.Context())
	sensitive := isTokenOperation(op)

	if dump, err := httputil.DumpRequestOut(req, false); err == nil {
		t.logger.DebugWithFields("HTTP request", map[string]interface{}{
			"operation":    op,
			"request_dump": redactDump(string(dump), req.URL.RawQuery),
		})
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if dump, err := httputil.DumpResponse(resp, !sensitive); err == nil {
		t.logger.DebugWithFields("HTTP response", map[string]interface{}{
			"operation":     op,
			"status":        resp.StatusCode,
			"response_dump": string(dump),
		})
	}
	return resp, nil
}

func redactDump(dump, rawQuery string) string {
	if rawQuery == "" {
		return dump
	}
	return strings.ReplaceAll(dump, rawQuery, logger.RedactQuery(rawQuery))
}

func isTokenOperation(op string) bool {
	return strings.Contains(op, "access_token")
}

// recordingTransport keeps the status and body of the last response so a
// failure reported by a library sitting on top of it can be rebuilt as an
// APIError carrying the raw body.
type recordingTransport struct {
	base   http.RoundTripper
	status int
	body   []byte
}

func (t *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	t.status = resp.StatusCode
	t.body = body
	resp.Body = io.NopCloser(bytes.NewReader(body))

	// A JSON body labelled text/plain would be parsed as a form by the
	// oauth2 package and lose every field
	if mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mt == "text/plain" && looksLikeJSON(body) {
		if resp.Header == nil {
			resp.Header = make(http.Header)
		}
		resp.Header.Set("Content-Type", "application/json")
	}
	return resp, nil
}

func looksLikeJSON(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
