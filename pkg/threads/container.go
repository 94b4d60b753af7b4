package threads

import (
	"net/url"
	"strconv"
	"strings"

	"threadsapi/pkg/errors"
)

// MediaType is the media_type of a container
type MediaType string

const (
	MediaTypeText     MediaType = "TEXT"
	MediaTypeImage    MediaType = "IMAGE"
	MediaTypeVideo    MediaType = "VIDEO"
	MediaTypeCarousel MediaType = "CAROUSEL"
)

// ContainerOptions describes a media container to create. Nil pointer
// fields and an empty Children slice are left out of the request entirely;
// they never appear as empty values.
type ContainerOptions struct {
	MediaType MediaType

	Text      *string
	ImageURL  *string
	VideoURL  *string
	ReplyToID *string

	IsCarouselItem *bool
	// Children are container ids assembled into a carousel
	Children []string
}

// String returns a pointer to s, for optional ContainerOptions fields
func String(s string) *string { return &s }

// Bool returns a pointer to b, for optional ContainerOptions fields
func Bool(b bool) *bool { return &b }

// Validate checks the options against what p accepts
func (o ContainerOptions) Validate(p Platform) error {
	if strings.TrimSpace(string(o.MediaType)) == "" {
		return &errors.ValidationError{Field: "media_type", Message: "is required"}
	}
	if o.ReplyToID != nil && !p.SupportsReplies {
		return &errors.ValidationError{
			Field:   "reply_to_id",
			Message: "replies are not available on " + p.Name,
			Err:     errors.ErrUnsupportedOption,
		}
	}
	return nil
}

// Values serializes the options into query parameters. access_token is
// added by the caller.
func (o ContainerOptions) Values(p Platform) (url.Values, error) {
	if err := o.Validate(p); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("media_type", string(o.MediaType))

	optional := []struct {
		key   string
		value *string
	}{
		{"text", o.Text},
		{"image_url", o.ImageURL},
		{"video_url", o.VideoURL},
		{"reply_to_id", o.ReplyToID},
	}
	for _, f := range optional {
		if f.value != nil {
			q.Set(f.key, *f.value)
		}
	}

	if o.IsCarouselItem != nil {
		q.Set("is_carousel_item", strconv.FormatBool(*o.IsCarouselItem))
	}
	if len(o.Children) > 0 {
		q.Set("children", strings.Join(o.Children, ","))
	}

	return q, nil
}
