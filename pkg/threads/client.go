package threads

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"threadsapi/pkg/errors"
	"threadsapi/pkg/logger"
)

// DefaultTimeout bounds a request when the caller injects no http.Client
const DefaultTimeout = 30 * time.Second

// Client issues Graph API calls for one registered app. It holds no token
// state; every call that needs one takes Credentials, so a Client is safe
// for concurrent use.
type Client struct {
	appID      string
	appSecret  string
	platform   Platform
	httpClient *http.Client
	logger     logger.Logger
}

// Option configures a Client during construction in New
type Option func(*settings) error

type settings struct {
	httpClient *http.Client
	timeout    time.Duration
	platform   Platform
	logger     logger.Logger
	debug      bool
	authURL    string
	graphURL   string
}

// WithHTTPClient injects the transport used for every request. The client
// is copied, never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		s.httpClient = hc
		return nil
	}
}

// WithHTTPTimeout overrides the http.Client Timeout. Prefer context
// deadlines per call; this is the coarse upper bound.
func WithHTTPTimeout(d time.Duration) Option {
	return func(s *settings) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		s.timeout = d
		return nil
	}
}

// WithPlatform selects the API flavour. Defaults to Threads.
func WithPlatform(p Platform) Option {
	return func(s *settings) error {
		if p.GraphURL == "" || p.Version == "" {
			return fmt.Errorf("platform %q is missing its graph url or version", p.Name)
		}
		s.platform = p
		return nil
	}
}

// WithBaseURLs overrides the consent page and the API host of the selected
// platform. Empty values keep the platform default.
func WithBaseURLs(authorizeURL, graphURL string) Option {
	return func(s *settings) error {
		for _, raw := range []string{authorizeURL, graphURL} {
			if raw == "" {
				continue
			}
			if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("invalid base url %q", raw)
			}
		}
		s.authURL = authorizeURL
		s.graphURL = graphURL
		return nil
	}
}

// WithLogger sets the logger. Defaults to the global logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) error {
		if l != nil {
			s.logger = l
		}
		return nil
	}
}

// WithDebugLogging dumps every request and response at debug level, with
// credentials redacted. Not meant for production.
func WithDebugLogging(enabled bool) Option {
	return func(s *settings) error {
		s.debug = enabled
		return nil
	}
}

// New creates a client for the app identified by appID and appSecret
func New(appID, appSecret string, opts ...Option) (*Client, error) {
	if appID == "" {
		return nil, &errors.ValidationError{Field: "app_id", Message: "is required"}
	}

	s := &settings{
		platform: Threads,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.logger == nil {
		s.logger = logger.GetLogger()
	}
	if s.graphURL != "" {
		s.platform = s.platform.WithHost(s.graphURL)
	}
	if s.authURL != "" {
		s.platform.AuthorizeURL = s.authURL
	}

	hc := &http.Client{Timeout: DefaultTimeout}
	if s.httpClient != nil {
		copied := *s.httpClient
		hc = &copied
	}
	if s.timeout > 0 {
		hc.Timeout = s.timeout
	}

	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if s.debug {
		base = &debugTransport{base: base, logger: s.logger}
	}
	hc.Transport = &instrumentedTransport{base: base, logger: s.logger}

	return &Client{
		appID:      appID,
		appSecret:  appSecret,
		platform:   s.platform,
		httpClient: hc,
		logger:     s.logger,
	}, nil
}

// Platform returns the API flavour the client talks to
func (c *Client) Platform() Platform {
	return c.platform
}

// rawResponse is a fully read 2xx response
type rawResponse struct {
	status int
	body   []byte
}

// do issues one request and reads the whole response. Non-2xx statuses and
// undecodable success bodies become *errors.APIError; transport failures
// are returned wrapped.
func (c *Client) do(ctx context.Context, op, method, endpoint string, query url.Values, out interface{}) (*rawResponse, error) {
	target := endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(withOperation(ctx, op), method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.apiError(op, resp.StatusCode, body)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			fields := map[string]interface{}{
				"operation": op,
				"status":    resp.StatusCode,
				"error":     err.Error(),
			}
			if !isTokenOperation(op) {
				fields["body_preview"] = preview(body)
			}
			c.logger.WarnWithFields("failed to parse JSON response", fields)
			return nil, c.apiError(op, resp.StatusCode, body)
		}
	}

	return &rawResponse{status: resp.StatusCode, body: body}, nil
}

func (c *Client) apiError(op string, status int, body []byte) *errors.APIError {
	apiErrorsTotal.WithLabelValues(op).Inc()
	c.logger.WarnWithFields("graph api returned an error", map[string]interface{}{
		"operation": op,
		"status":    status,
	})
	return &errors.APIError{
		Operation:  op,
		StatusCode: status,
		Body:       string(body),
	}
}

func preview(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
