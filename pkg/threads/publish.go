package threads

import (
	"context"
	"fmt"

	"threadsapi/pkg/errors"
)

// CarouselItem is one image or video of a carousel
type CarouselItem struct {
	MediaType MediaType
	URL       string
}

// PublishText creates and publishes a text post. replyToID may be empty.
func (c *Client) PublishText(ctx context.Context, creds Credentials, text, replyToID string) (string, error) {
	opts := ContainerOptions{MediaType: MediaTypeText, Text: String(text)}
	if replyToID != "" {
		opts.ReplyToID = String(replyToID)
	}
	return c.createAndPublish(ctx, creds, opts)
}

// PublishImage creates and publishes a single image post. The image must be
// reachable by the API at imageURL.
func (c *Client) PublishImage(ctx context.Context, creds Credentials, imageURL, caption string) (string, error) {
	opts := ContainerOptions{MediaType: MediaTypeImage, ImageURL: String(imageURL)}
	if caption != "" {
		opts.Text = String(caption)
	}
	return c.createAndPublish(ctx, creds, opts)
}

// PublishVideo creates and publishes a single video post
func (c *Client) PublishVideo(ctx context.Context, creds Credentials, videoURL, caption string) (string, error) {
	opts := ContainerOptions{MediaType: MediaTypeVideo, VideoURL: String(videoURL)}
	if caption != "" {
		opts.Text = String(caption)
	}
	return c.createAndPublish(ctx, creds, opts)
}

// PublishCarousel creates one container per item, a carousel container
// holding them, and publishes it. The first failing step aborts the flow.
func (c *Client) PublishCarousel(ctx context.Context, creds Credentials, items []CarouselItem, caption string) (string, error) {
	if len(items) == 0 {
		return "", &errors.ValidationError{Field: "children", Message: "a carousel needs at least one item"}
	}

	children := make([]string, 0, len(items))
	for i, item := range items {
		opts, err := item.containerOptions()
		if err != nil {
			return "", err
		}
		id, err := c.CreateMediaContainer(ctx, creds, opts)
		if err != nil {
			return "", fmt.Errorf("carousel item %d: %w", i, err)
		}
		children = append(children, id)
	}

	opts := ContainerOptions{MediaType: MediaTypeCarousel, Children: children}
	if caption != "" {
		opts.Text = String(caption)
	}
	return c.createAndPublish(ctx, creds, opts)
}

func (item CarouselItem) containerOptions() (ContainerOptions, error) {
	opts := ContainerOptions{MediaType: item.MediaType, IsCarouselItem: Bool(true)}
	switch item.MediaType {
	case MediaTypeImage:
		opts.ImageURL = String(item.URL)
	case MediaTypeVideo:
		opts.VideoURL = String(item.URL)
	default:
		return ContainerOptions{}, &errors.ValidationError{
			Field:   "media_type",
			Message: fmt.Sprintf("carousel items must be IMAGE or VIDEO, got %q", item.MediaType),
		}
	}
	return opts, nil
}

func (c *Client) createAndPublish(ctx context.Context, creds Credentials, opts ContainerOptions) (string, error) {
	creationID, err := c.CreateMediaContainer(ctx, creds, opts)
	if err != nil {
		return "", err
	}
	return c.PublishMediaContainer(ctx, creds, creationID)
}
