package threads

import (
	"encoding/json"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaObjectDecode(t *testing.T) {
	t.Run("missing optionals stay nil", func(t *testing.T) {
		var obj MediaObject
		require.NoError(t, json.Unmarshal([]byte(`{"id":"1","text":"hi"}`), &obj))

		assert.Equal(t, "1", obj.ID)
		require.NotNil(t, obj.Text)
		assert.Equal(t, "hi", *obj.Text)

		assert.Nil(t, obj.MediaProductID)
		assert.Nil(t, obj.MediaType)
		assert.Nil(t, obj.MediaURL)
		assert.Nil(t, obj.Permalink)
		assert.Nil(t, obj.Owner)
		assert.Nil(t, obj.Username)
		assert.Nil(t, obj.Timestamp)
		assert.Nil(t, obj.Shortcode)
		assert.Nil(t, obj.ThumbnailURL)
		assert.Nil(t, obj.IsQuotePost)
	})

	t.Run("full object", func(t *testing.T) {
		body := `{
			"id": "1790",
			"media_product_id": "THREADS",
			"media_type": "IMAGE",
			"media_url": "https://cdn/1.jpg",
			"permalink": "https://www.threads.net/@me/post/abc",
			"owner": {"id": "42"},
			"username": "me",
			"text": "caption",
			"timestamp": "2024-07-01T12:30:00+0000",
			"shortcode": "abc",
			"thumbnail_url": "https://cdn/thumb.jpg",
			"is_quote_post": false
		}`
		var obj MediaObject
		require.NoError(t, json.Unmarshal([]byte(body), &obj))

		assert.Equal(t, "IMAGE", *obj.MediaType)
		assert.Equal(t, "42", obj.Owner.ID)
		assert.Equal(t, "me", *obj.Username)
		require.NotNil(t, obj.IsQuotePost)
		assert.False(t, *obj.IsQuotePost)
		assert.True(t, obj.Timestamp.Equal(time.Date(2024, 7, 1, 12, 30, 0, 0, time.UTC)))
	})
}

var initialisms = regexp.MustCompile(`(ID|URL)`)

func snakeCase(name string) string {
	name = initialisms.ReplaceAllStringFunc(name, func(s string) string {
		return s[:1] + strings.ToLower(s[1:])
	})
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func TestMediaObjectTagsAreSnakeCase(t *testing.T) {
	typ := reflect.TypeOf(MediaObject{})
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if tag == "-" {
			continue
		}
		assert.Equal(t, snakeCase(field.Name), tag, "field %s", field.Name)
	}
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"graph offset", `"2024-07-01T12:30:00+0000"`, time.Date(2024, 7, 1, 12, 30, 0, 0, time.UTC), false},
		{"rfc3339", `"2024-07-01T14:30:00+02:00"`, time.Date(2024, 7, 1, 12, 30, 0, 0, time.UTC), false},
		{"garbage", `"yesterday"`, time.Time{}, true},
		{"not a string", `12`, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.input), &ts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, ts.Equal(tt.want), "got %s", ts.Time)
		})
	}
}

func TestIDDecode(t *testing.T) {
	tests := []struct {
		input    string
		expected ID
	}{
		{`{"id":"17841400008460056"}`, "17841400008460056"},
		{`{"id":17841400008460056}`, "17841400008460056"},
		{`{"id":null}`, ""},
		{`{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var r idResponse
			require.NoError(t, json.Unmarshal([]byte(tt.input), &r))
			assert.Equal(t, tt.expected, r.ID)
		})
	}

	var r idResponse
	assert.Error(t, json.Unmarshal([]byte(`{"id":true}`), &r))
}
