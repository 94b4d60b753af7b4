package threads

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"threadsapi/pkg/errors"
)

// CreateMediaContainer stages a post for the user in creds and returns the
// container id to pass to PublishMediaContainer
func (c *Client) CreateMediaContainer(ctx context.Context, creds Credentials, opts ContainerOptions) (string, error) {
	const op = OpCreateContainer

	if err := creds.requireUser(op); err != nil {
		return "", err
	}

	q, err := opts.Values(c.platform)
	if err != nil {
		return "", err
	}
	q.Set("access_token", creds.AccessToken)

	var ir idResponse
	raw, err := c.do(ctx, op, http.MethodPost, graphURL(c.platform, creds.UserID, c.platform.CreateEdge), q, &ir)
	if err != nil {
		return "", err
	}
	if ir.ID == "" {
		return "", c.apiError(op, raw.status, raw.body)
	}

	c.logger.DebugWithFields("media container created", map[string]interface{}{
		"platform":     c.platform.Name,
		"media_type":   string(opts.MediaType),
		"container_id": ir.ID.String(),
	})
	return ir.ID.String(), nil
}

// PublishMediaContainer publishes a container created by
// CreateMediaContainer. On platforms that report the new post, its id is
// returned; otherwise the id is empty and a nil error means success.
func (c *Client) PublishMediaContainer(ctx context.Context, creds Credentials, creationID string) (string, error) {
	const op = OpPublishContainer

	if err := creds.requireUser(op); err != nil {
		return "", err
	}
	if strings.TrimSpace(creationID) == "" {
		return "", &errors.ValidationError{Field: "creation_id", Message: "is required"}
	}

	q := url.Values{}
	q.Set("access_token", creds.AccessToken)
	q.Set("creation_id", creationID)

	endpoint := graphURL(c.platform, creds.UserID, c.platform.PublishEdge)
	if !c.platform.PublishReturnsID {
		if _, err := c.do(ctx, op, http.MethodPost, endpoint, q, nil); err != nil {
			return "", err
		}
		c.logger.InfoWithFields("media container published", map[string]interface{}{
			"platform":     c.platform.Name,
			"container_id": creationID,
		})
		return "", nil
	}

	var ir idResponse
	raw, err := c.do(ctx, op, http.MethodPost, endpoint, q, &ir)
	if err != nil {
		return "", err
	}
	if ir.ID == "" {
		return "", c.apiError(op, raw.status, raw.body)
	}

	c.logger.InfoWithFields("media container published", map[string]interface{}{
		"platform":     c.platform.Name,
		"container_id": creationID,
		"media_id":     ir.ID.String(),
	})
	return ir.ID.String(), nil
}

// GetMediaObject reads a published post or a container. fields defaults to
// DefaultMediaFields; fields the server leaves out stay nil.
func (c *Client) GetMediaObject(ctx context.Context, creds Credentials, mediaID string, fields []string) (*MediaObject, error) {
	const op = OpGetMediaObject

	var obj MediaObject
	raw, err := c.getMedia(ctx, op, creds, mediaID, fields, &obj)
	if err != nil {
		return nil, err
	}
	obj.Raw = json.RawMessage(raw.body)
	return &obj, nil
}

// GetMediaObjectRaw is GetMediaObject without the typed decode, for fields
// MediaObject does not model
func (c *Client) GetMediaObjectRaw(ctx context.Context, creds Credentials, mediaID string, fields []string) (map[string]any, error) {
	const op = OpGetMediaObject

	out := map[string]any{}
	if _, err := c.getMedia(ctx, op, creds, mediaID, fields, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getMedia(ctx context.Context, op string, creds Credentials, mediaID string, fields []string, out interface{}) (*rawResponse, error) {
	if strings.TrimSpace(mediaID) == "" {
		return nil, &errors.ValidationError{Field: "media_id", Message: "is required"}
	}
	if c.platform.TokenOnMediaRead {
		if err := creds.requireToken(op); err != nil {
			return nil, err
		}
	}
	if len(fields) == 0 {
		fields = DefaultMediaFields
	}

	q := url.Values{}
	q.Set("fields", strings.Join(fields, ","))
	if c.platform.TokenOnMediaRead {
		q.Set("access_token", creds.AccessToken)
	}

	raw, err := c.do(ctx, op, http.MethodGet, graphURL(c.platform, mediaID), q, out)
	if err != nil {
		return nil, fmt.Errorf("get media %s: %w", mediaID, err)
	}
	return raw, nil
}
