package threads

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// MediaObject is a read-only snapshot of a published post or staged
// container. Optional fields are nil when the response omitted them.
type MediaObject struct {
	ID             string     `json:"id"`
	MediaProductID *string    `json:"media_product_id,omitempty"`
	MediaType      *string    `json:"media_type,omitempty"`
	MediaURL       *string    `json:"media_url,omitempty"`
	Permalink      *string    `json:"permalink,omitempty"`
	Owner          *Owner     `json:"owner,omitempty"`
	Username       *string    `json:"username,omitempty"`
	Text           *string    `json:"text,omitempty"`
	Timestamp      *Timestamp `json:"timestamp,omitempty"`
	Shortcode      *string    `json:"shortcode,omitempty"`
	ThumbnailURL   *string    `json:"thumbnail_url,omitempty"`
	IsQuotePost    *bool      `json:"is_quote_post,omitempty"`

	// Raw is the response body as received, for fields not modelled above
	Raw json.RawMessage `json:"-"`
}

// Owner identifies the account a media object belongs to
type Owner struct {
	ID string `json:"id"`
}

// DefaultMediaFields is the field list requested when the caller passes none
var DefaultMediaFields = []string{
	"id", "media_type", "media_url", "permalink", "owner",
	"username", "text", "timestamp", "shortcode", "thumbnail_url", "is_quote_post",
}

// graphTimeLayout is the offset form the Graph API uses, e.g.
// 2024-07-01T12:00:00+0000
const graphTimeLayout = "2006-01-02T15:04:05-0700"

// Timestamp decodes both RFC 3339 and Graph API style date-times
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	for _, layout := range []string{time.RFC3339Nano, graphTimeLayout} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognised format %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// ID is an identifier that may arrive as a JSON string or number.
// Numbers are kept verbatim so 64-bit ids never pass through float64.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// tokenResponse is the body of every token endpoint
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
	UserID      ID     `json:"user_id,omitempty"`
}

// idResponse is the body of container create and publish calls
type idResponse struct {
	ID ID `json:"id"`
}
