// Package graphtest runs an in-process fake of the Threads and Instagram
// Graph APIs for tests and local CLI runs.
package graphtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Defaults the fake accepts unless overridden in Options
const (
	DefaultAppID     = "test-app"
	DefaultAppSecret = "test-secret"
	DefaultCode      = "test-code"
	DefaultUserID    = "17841400008460056"
	DefaultUsername  = "graphtest"

	longLivedTTL = 60 * 24 * time.Hour
)

// Options configures a Server
type Options struct {
	AppID     string
	AppSecret string
	// Code is the only authorization code the token endpoint accepts
	Code     string
	UserID   string
	Username string
	Version  string
	// CreateEdge and PublishEdge name the per-user container edges
	CreateEdge  string
	PublishEdge string
	// RequireTokenOnRead rejects media reads without access_token
	RequireTokenOnRead bool
	// TextPlainTokens labels token responses text/plain, as the live
	// short-lived endpoint sometimes does
	TextPlainTokens bool
}

// ThreadsOptions mirror the Threads Graph API
func ThreadsOptions() Options {
	return Options{
		Version:            "v1.0",
		CreateEdge:         "threads",
		PublishEdge:        "threads_publish",
		RequireTokenOnRead: true,
	}
}

// InstagramOptions mirror the Instagram Graph API
func InstagramOptions() Options {
	return Options{
		Version:     "v21.0",
		CreateEdge:  "media",
		PublishEdge: "media_publish",
	}
}

// Container is a staged or published media container
type Container struct {
	ID        string
	Params    map[string]string
	MediaID   string
	Published bool
	CreatedAt time.Time
}

type failure struct {
	status int
	body   string
}

// Server simulates the Graph API endpoints the client uses
type Server struct {
	server *httptest.Server
	opts   Options

	mu          sync.RWMutex
	shortTokens map[string]bool
	longTokens  map[string]bool
	containers  map[string]*Container
	media       map[string]*Container
	failures    map[string]failure
	delays      map[string]time.Duration

	nextID       int64
	requestCount int32
}

// NewServer starts a fake Graph API. Call Close when done.
func NewServer(opts Options) *Server {
	if opts.Version == "" {
		base := ThreadsOptions()
		opts.Version, opts.CreateEdge, opts.PublishEdge = base.Version, base.CreateEdge, base.PublishEdge
		opts.RequireTokenOnRead = true
	}
	if opts.AppID == "" {
		opts.AppID = DefaultAppID
	}
	if opts.AppSecret == "" {
		opts.AppSecret = DefaultAppSecret
	}
	if opts.Code == "" {
		opts.Code = DefaultCode
	}
	if opts.UserID == "" {
		opts.UserID = DefaultUserID
	}
	if opts.Username == "" {
		opts.Username = DefaultUsername
	}

	s := &Server{
		opts:        opts,
		shortTokens: make(map[string]bool),
		longTokens:  make(map[string]bool),
		containers:  make(map[string]*Container),
		media:       make(map[string]*Container),
		failures:    make(map[string]failure),
		delays:      make(map[string]time.Duration),
		nextID:      18000000000000000,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/access_token", s.handleShortLived)
	mux.HandleFunc("GET /access_token", s.handleLongLived)
	mux.HandleFunc("GET /refresh_access_token", s.handleRefresh)
	mux.HandleFunc("POST /{version}/{user}/{edge}", s.handleEdge)
	mux.HandleFunc("GET /{version}/{id}", s.handleMedia)

	s.server = httptest.NewServer(s.intercept(mux))
	return s
}

// URL returns the base URL of the fake, usable as the auth and graph host
func (s *Server) URL() string {
	return s.server.URL
}

// Close shuts down the server
func (s *Server) Close() {
	s.server.Close()
}

// Options returns the effective configuration
func (s *Server) Options() Options {
	return s.opts
}

// IssueLongLivedToken registers and returns a valid long-lived token, for
// tests that skip the OAuth dance
func (s *Server) IssueLongLivedToken() string {
	return s.issue(s.longTokens)
}

// SetErrorResponse makes every request to path answer with status and body
func (s *Server) SetErrorResponse(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = failure{status: status, body: body}
}

// ClearErrorResponse removes an error configured for path
func (s *Server) ClearErrorResponse(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, path)
}

// SetDelay delays every response to path
func (s *Server) SetDelay(path string, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[path] = delay
}

// Container returns the container with the given id
func (s *Server) Container(id string) (Container, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.containers[id]
	if !ok {
		return Container{}, false
	}
	return *c, true
}

// PublishedCount returns how many containers were published
func (s *Server) PublishedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.media)
}

// RequestCount returns the number of requests served
func (s *Server) RequestCount() int {
	return int(atomic.LoadInt32(&s.requestCount))
}

func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.requestCount, 1)

		s.mu.RLock()
		delay := s.delays[r.URL.Path]
		fail, failing := s.failures[r.URL.Path]
		s.mu.RUnlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(fail.status)
			w.Write([]byte(fail.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleShortLived(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.sendError(w, http.StatusBadRequest, "malformed form", 100)
		return
	}
	switch {
	case r.PostForm.Get("grant_type") != "authorization_code":
		s.sendError(w, http.StatusBadRequest, "unsupported grant_type", 100)
		return
	case r.PostForm.Get("client_id") != s.opts.AppID, r.PostForm.Get("client_secret") != s.opts.AppSecret:
		s.sendError(w, http.StatusBadRequest, "invalid client", 101)
		return
	case r.PostForm.Get("redirect_uri") == "":
		s.sendError(w, http.StatusBadRequest, "redirect_uri is required", 100)
		return
	case r.PostForm.Get("code") != s.opts.Code:
		s.sendError(w, http.StatusBadRequest, "invalid authorization code", 100)
		return
	}

	token := s.issue(s.shortTokens)
	s.sendToken(w, map[string]interface{}{
		"access_token": token,
		"user_id":      s.numericUserID(),
	})
}

func (s *Server) handleLongLived(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Get("grant_type") != "ig_exchange_token":
		s.sendError(w, http.StatusBadRequest, "unsupported grant_type", 100)
		return
	case q.Get("client_secret") != s.opts.AppSecret:
		s.sendError(w, http.StatusBadRequest, "invalid client secret", 101)
		return
	case !s.valid(s.shortTokens, q.Get("access_token")):
		s.sendError(w, http.StatusBadRequest, "invalid token", 190)
		return
	}

	token := s.issue(s.longTokens)
	s.sendToken(w, map[string]interface{}{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int64(longLivedTTL.Seconds()),
		"user_id":      s.opts.UserID,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("grant_type") != "ig_refresh_token" {
		s.sendError(w, http.StatusBadRequest, "unsupported grant_type", 100)
		return
	}
	old := q.Get("access_token")
	if !s.valid(s.longTokens, old) {
		s.sendError(w, http.StatusBadRequest, "invalid token", 190)
		return
	}

	s.mu.Lock()
	delete(s.longTokens, old)
	s.mu.Unlock()

	token := s.issue(s.longTokens)
	s.sendToken(w, map[string]interface{}{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int64(longLivedTTL.Seconds()),
	})
}

func (s *Server) handleEdge(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("version") != s.opts.Version {
		s.sendError(w, http.StatusNotFound, "unknown api version", 2500)
		return
	}
	if r.PathValue("user") != s.opts.UserID {
		s.sendError(w, http.StatusBadRequest, "unsupported post request", 100)
		return
	}
	q := r.URL.Query()
	if !s.valid(s.longTokens, q.Get("access_token")) {
		s.sendError(w, http.StatusBadRequest, "invalid token", 190)
		return
	}

	switch r.PathValue("edge") {
	case s.opts.CreateEdge:
		s.createContainer(w, q)
	case s.opts.PublishEdge:
		s.publishContainer(w, q.Get("creation_id"))
	default:
		s.sendError(w, http.StatusNotFound, "unknown edge", 2500)
	}
}

func (s *Server) createContainer(w http.ResponseWriter, q map[string][]string) {
	params := make(map[string]string, len(q))
	for key, values := range q {
		if key == "access_token" || len(values) == 0 {
			continue
		}
		params[key] = values[0]
	}

	switch params["media_type"] {
	case "TEXT", "IMAGE", "VIDEO", "CAROUSEL":
	default:
		s.sendError(w, http.StatusBadRequest, "invalid media_type", 100)
		return
	}
	if children, ok := params["children"]; ok {
		for _, child := range strings.Split(children, ",") {
			if _, exists := s.Container(child); !exists {
				s.sendError(w, http.StatusBadRequest, "unknown child container "+child, 100)
				return
			}
		}
	}

	s.mu.Lock()
	id := s.allocateID()
	s.containers[id] = &Container{ID: id, Params: params, CreatedAt: time.Now().UTC()}
	s.mu.Unlock()

	s.sendJSON(w, http.StatusOK, map[string]interface{}{"id": id})
}

func (s *Server) publishContainer(w http.ResponseWriter, creationID string) {
	s.mu.Lock()
	c, ok := s.containers[creationID]
	if !ok || c.Published {
		s.mu.Unlock()
		s.sendError(w, http.StatusBadRequest, "invalid creation_id", 100)
		return
	}
	c.Published = true
	c.MediaID = s.allocateID()
	s.media[c.MediaID] = c
	mediaID := c.MediaID
	s.mu.Unlock()

	s.sendJSON(w, http.StatusOK, map[string]interface{}{"id": mediaID})
}

func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("version") != s.opts.Version {
		s.sendError(w, http.StatusNotFound, "unknown api version", 2500)
		return
	}
	token := r.URL.Query().Get("access_token")
	if token != "" || s.opts.RequireTokenOnRead {
		if !s.valid(s.longTokens, token) {
			s.sendError(w, http.StatusBadRequest, "invalid token", 190)
			return
		}
	}

	id := r.PathValue("id")
	s.mu.RLock()
	c, ok := s.media[id]
	if !ok {
		c, ok = s.containers[id]
	}
	var snapshot Container
	if ok {
		snapshot = *c
	}
	s.mu.RUnlock()
	if !ok {
		s.sendError(w, http.StatusNotFound, "object does not exist", 100)
		return
	}

	full := s.mediaFields(id, snapshot)
	out := map[string]interface{}{"id": id}
	if fields := r.URL.Query().Get("fields"); fields != "" {
		for _, f := range strings.Split(fields, ",") {
			if v, ok := full[f]; ok {
				out[f] = v
			}
		}
	} else {
		out = full
	}
	s.sendJSON(w, http.StatusOK, out)
}

func (s *Server) mediaFields(id string, c Container) map[string]interface{} {
	fields := map[string]interface{}{
		"id":            id,
		"media_type":    c.Params["media_type"],
		"owner":         map[string]string{"id": s.opts.UserID},
		"username":      s.opts.Username,
		"timestamp":     c.CreatedAt.Format("2006-01-02T15:04:05-0700"),
		"is_quote_post": false,
	}
	if text, ok := c.Params["text"]; ok {
		fields["text"] = text
	}
	if u, ok := c.Params["image_url"]; ok {
		fields["media_url"] = u
	}
	if u, ok := c.Params["video_url"]; ok {
		fields["media_url"] = u
	}
	if c.Published {
		shortcode := strconv.FormatInt(int64(len(id)), 36) + id[len(id)-6:]
		fields["shortcode"] = shortcode
		fields["permalink"] = fmt.Sprintf("%s/@%s/post/%s", s.server.URL, s.opts.Username, shortcode)
	}
	return fields
}

// numericUserID renders the user id as a JSON number when it is one, the
// way the short-lived endpoint does
func (s *Server) numericUserID() interface{} {
	if _, err := strconv.ParseUint(s.opts.UserID, 10, 64); err == nil {
		return json.Number(s.opts.UserID)
	}
	return s.opts.UserID
}

// allocateID must be called with mu held
func (s *Server) allocateID() string {
	s.nextID++
	return strconv.FormatInt(s.nextID, 10)
}

func (s *Server) issue(set map[string]bool) string {
	token := "THQV" + strings.ReplaceAll(uuid.NewString(), "-", "")
	s.mu.Lock()
	set[token] = true
	s.mu.Unlock()
	return token
}

func (s *Server) valid(set map[string]bool, token string) bool {
	if token == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return set[token]
}

func (s *Server) sendToken(w http.ResponseWriter, body map[string]interface{}) {
	if s.opts.TextPlainTokens {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(body)
		return
	}
	s.sendJSON(w, http.StatusOK, body)
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// sendError answers in the Graph API error envelope
func (s *Server) sendError(w http.ResponseWriter, status int, message string, code int) {
	s.sendJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message":    message,
			"type":       "OAuthException",
			"code":       code,
			"fbtrace_id": uuid.NewString(),
		},
	})
}
