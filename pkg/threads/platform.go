package threads

import (
	"fmt"
	"strings"
)

// Platform describes one flavour of the Graph API. Both flavours share the
// request/response contract; they differ in hosts, media edges, the optional
// fields they accept and what publishing returns.
type Platform struct {
	Name string

	// AuthorizeURL is the user-facing consent page
	AuthorizeURL string
	// TokenURL exchanges an authorization code for a short-lived token
	TokenURL string
	// GraphURL is the unversioned API host; token exchange and refresh live
	// directly under it, everything else under GraphURL/Version
	GraphURL string
	Version  string

	// CreateEdge and PublishEdge are the per-user container edges
	CreateEdge  string
	PublishEdge string

	SupportsReplies  bool
	PublishReturnsID bool
	TokenOnMediaRead bool
}

var (
	// Threads is the Threads Graph API
	Threads = Platform{
		Name:             "threads",
		AuthorizeURL:     "https://threads.net/oauth/authorize",
		TokenURL:         "https://graph.threads.net/oauth/access_token",
		GraphURL:         "https://graph.threads.net",
		Version:          "v1.0",
		CreateEdge:       "threads",
		PublishEdge:      "threads_publish",
		SupportsReplies:  true,
		PublishReturnsID: true,
		TokenOnMediaRead: true,
	}

	// Instagram is the Instagram Graph API with Instagram Login
	Instagram = Platform{
		Name:         "instagram",
		AuthorizeURL: "https://www.instagram.com/oauth/authorize",
		TokenURL:     "https://api.instagram.com/oauth/access_token",
		GraphURL:     "https://graph.instagram.com",
		Version:      "v21.0",
		CreateEdge:   "media",
		PublishEdge:  "media_publish",
	}
)

// PlatformByName returns the platform registered under name
func PlatformByName(name string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Threads.Name, "":
		return Threads, nil
	case Instagram.Name:
		return Instagram, nil
	default:
		return Platform{}, fmt.Errorf("unknown platform %q", name)
	}
}

// WithHost points every endpoint of p at base, keeping paths and behaviour.
// Used to target a local fake of the API.
func (p Platform) WithHost(base string) Platform {
	base = strings.TrimRight(base, "/")
	p.AuthorizeURL = base + "/oauth/authorize"
	p.TokenURL = base + "/oauth/access_token"
	p.GraphURL = base
	return p
}

func (p Platform) String() string {
	return p.Name
}
