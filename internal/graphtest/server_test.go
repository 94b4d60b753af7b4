package graphtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getJSON(t *testing.T, method, target string, form url.Values) (int, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, target, body)
	require.NoError(t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Contains(t, resp.Header.Get("Content-Type"), "json")

	out := map[string]interface{}{}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	require.NoError(t, dec.Decode(&out))
	return resp.StatusCode, out
}

func TestServerTokenFlow(t *testing.T) {
	s := NewServer(ThreadsOptions())
	defer s.Close()

	status, short := getJSON(t, http.MethodPost, s.URL()+"/oauth/access_token", url.Values{
		"client_id":     {DefaultAppID},
		"client_secret": {DefaultAppSecret},
		"code":          {DefaultCode},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {"https://cb"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, json.Number(DefaultUserID), short["user_id"])

	q := url.Values{
		"grant_type":    {"ig_exchange_token"},
		"client_secret": {DefaultAppSecret},
		"access_token":  {short["access_token"].(string)},
	}
	status, long := getJSON(t, http.MethodGet, s.URL()+"/access_token?"+q.Encode(), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, DefaultUserID, long["user_id"])
	assert.NotEqual(t, short["access_token"], long["access_token"])

	q = url.Values{
		"grant_type":   {"ig_refresh_token"},
		"access_token": {long["access_token"].(string)},
	}
	status, refreshed := getJSON(t, http.MethodGet, s.URL()+"/refresh_access_token?"+q.Encode(), nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotEqual(t, long["access_token"], refreshed["access_token"])

	// the refreshed token replaces the old one
	status, _ = getJSON(t, http.MethodGet, s.URL()+"/refresh_access_token?"+q.Encode(), nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestServerRejectsBadCode(t *testing.T) {
	s := NewServer(Options{})
	defer s.Close()

	status, body := getJSON(t, http.MethodPost, s.URL()+"/oauth/access_token", url.Values{
		"client_id":     {DefaultAppID},
		"client_secret": {DefaultAppSecret},
		"code":          {"wrong"},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {"https://cb"},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	envelope, ok := body["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "OAuthException", envelope["type"])
}

func TestServerPublishFlow(t *testing.T) {
	s := NewServer(InstagramOptions())
	defer s.Close()
	token := s.IssueLongLivedToken()

	create := url.Values{"access_token": {token}, "media_type": {"IMAGE"}, "image_url": {"https://img/1.jpg"}}
	status, created := getJSON(t, http.MethodPost, s.URL()+"/v21.0/"+DefaultUserID+"/media?"+create.Encode(), nil)
	require.Equal(t, http.StatusOK, status)
	containerID := created["id"].(string)

	c, ok := s.Container(containerID)
	require.True(t, ok)
	assert.Equal(t, "https://img/1.jpg", c.Params["image_url"])
	_, hasToken := c.Params["access_token"]
	assert.False(t, hasToken)

	publish := url.Values{"access_token": {token}, "creation_id": {containerID}}
	status, published := getJSON(t, http.MethodPost, s.URL()+"/v21.0/"+DefaultUserID+"/media_publish?"+publish.Encode(), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, s.PublishedCount())

	// publishing twice is refused
	status, _ = getJSON(t, http.MethodPost, s.URL()+"/v21.0/"+DefaultUserID+"/media_publish?"+publish.Encode(), nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// instagram reads need no token
	status, media := getJSON(t, http.MethodGet, s.URL()+"/v21.0/"+published["id"].(string)+"?fields=id,media_url,permalink", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "https://img/1.jpg", media["media_url"])
	assert.NotEmpty(t, media["permalink"])
	_, hasText := media["text"]
	assert.False(t, hasText)
}

func TestServerValidatesRequests(t *testing.T) {
	s := NewServer(ThreadsOptions())
	defer s.Close()
	token := s.IssueLongLivedToken()

	tests := []struct {
		name   string
		method string
		path   string
		query  url.Values
	}{
		{"wrong version", http.MethodPost, "/v2.0/" + DefaultUserID + "/threads", url.Values{"access_token": {token}, "media_type": {"TEXT"}}},
		{"wrong user", http.MethodPost, "/v1.0/1/threads", url.Values{"access_token": {token}, "media_type": {"TEXT"}}},
		{"bad token", http.MethodPost, "/v1.0/" + DefaultUserID + "/threads", url.Values{"access_token": {"nope"}, "media_type": {"TEXT"}}},
		{"bad media type", http.MethodPost, "/v1.0/" + DefaultUserID + "/threads", url.Values{"access_token": {token}, "media_type": {"GIF"}}},
		{"unknown child", http.MethodPost, "/v1.0/" + DefaultUserID + "/threads", url.Values{"access_token": {token}, "media_type": {"CAROUSEL"}, "children": {"1"}}},
		{"threads read needs a token", http.MethodGet, "/v1.0/1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := getJSON(t, tt.method, s.URL()+tt.path+"?"+tt.query.Encode(), nil)
			assert.GreaterOrEqual(t, status, 400)
			assert.Contains(t, body, "error")
		})
	}
}

func TestServerFaultInjection(t *testing.T) {
	s := NewServer(ThreadsOptions())
	defer s.Close()

	s.SetErrorResponse("/access_token", http.StatusServiceUnavailable, `{"error":"down"}`)
	status, body := getJSON(t, http.MethodGet, s.URL()+"/access_token", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "down", body["error"])

	s.ClearErrorResponse("/access_token")
	status, _ = getJSON(t, http.MethodGet, s.URL()+"/access_token", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	s.SetDelay("/access_token", 50*time.Millisecond)
	start := time.Now()
	getJSON(t, http.MethodGet, s.URL()+"/access_token", nil)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	assert.Equal(t, 3, s.RequestCount())
}

func TestServerTextPlainTokens(t *testing.T) {
	s := NewServer(Options{TextPlainTokens: true})
	defer s.Close()

	form := url.Values{
		"client_id":     {DefaultAppID},
		"client_secret": {DefaultAppSecret},
		"code":          {DefaultCode},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {"https://cb"},
	}
	resp, err := http.PostForm(s.URL()+"/oauth/access_token", form)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))
}
