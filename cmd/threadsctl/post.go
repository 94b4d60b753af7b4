package main

import (
	"errors"
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"threadsapi/pkg/threads"
	"threadsapi/pkg/ui"
)

// credentialFlags are the token flags shared by publishing commands
type credentialFlags struct {
	token  string
	userID string
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.token, "token", "", "long-lived access token (or THREADSAPI_ACCESS_TOKEN)")
	cmd.PersistentFlags().StringVar(&f.userID, "user-id", "", "user id from auth long-lived (or THREADSAPI_USER_ID)")
}

// credentials builds the caller-owned Credentials for a publishing call
func (a *app) credentials(f *credentialFlags) (threads.Credentials, error) {
	token, err := a.readToken(f.token, "Access token: ")
	if err != nil {
		return threads.Credentials{}, err
	}
	userID := firstNonEmpty(f.userID, os.Getenv(envUserID))
	if userID == "" {
		return threads.Credentials{}, errors.New("user id is required (--user-id or THREADSAPI_USER_ID)")
	}
	return threads.Credentials{AccessToken: token, UserID: userID, Stage: threads.LongLived}, nil
}

func newPostCmd(a *app) *cobra.Command {
	creds := &credentialFlags{}
	postCmd := &cobra.Command{
		Use:   "post",
		Short: "Create and publish a post in one step",
		Long: `Create a media container and publish it.

Media must be reachable by the API at a public URL.`,
	}
	creds.register(postCmd)

	var replyTo, caption string

	textCmd := &cobra.Command{
		Use:   "text <text>",
		Short: "Publish a text post",
		Example: `  threadsctl post text "hello world"
  threadsctl post text "agreed" --reply-to 17900000000000001`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.publish(cmd, creds, func(c *threads.Client, cr threads.Credentials) (string, error) {
				return c.PublishText(cmd.Context(), cr, args[0], replyTo)
			})
		},
	}
	textCmd.Flags().StringVar(&replyTo, "reply-to", "", "media id to reply to (threads only)")

	imageCmd := &cobra.Command{
		Use:   "image <url>",
		Short: "Publish a single image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.publish(cmd, creds, func(c *threads.Client, cr threads.Credentials) (string, error) {
				return c.PublishImage(cmd.Context(), cr, args[0], caption)
			})
		},
	}

	videoCmd := &cobra.Command{
		Use:   "video <url>",
		Short: "Publish a single video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.publish(cmd, creds, func(c *threads.Client, cr threads.Credentials) (string, error) {
				return c.PublishVideo(cmd.Context(), cr, args[0], caption)
			})
		},
	}

	carouselCmd := &cobra.Command{
		Use:   "carousel <url> <url>...",
		Short: "Publish several images or videos as one carousel",
		Long: `Publish several images or videos as one carousel.

URLs ending in .mp4 or .mov are posted as videos, everything else as images.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			items := make([]threads.CarouselItem, 0, len(args))
			for _, u := range args {
				items = append(items, threads.CarouselItem{MediaType: mediaTypeForURL(u), URL: u})
			}
			return a.publish(cmd, creds, func(c *threads.Client, cr threads.Credentials) (string, error) {
				return c.PublishCarousel(cmd.Context(), cr, items, caption)
			})
		},
	}

	for _, cmd := range []*cobra.Command{imageCmd, videoCmd, carouselCmd} {
		cmd.Flags().StringVar(&caption, "caption", "", "text shown with the media")
	}

	postCmd.AddCommand(textCmd, imageCmd, videoCmd, carouselCmd)
	return postCmd
}

func (a *app) publish(cmd *cobra.Command, f *credentialFlags, run func(*threads.Client, threads.Credentials) (string, error)) error {
	client, _, err := a.newClient(cmd)
	if err != nil {
		return err
	}
	creds, err := a.credentials(f)
	if err != nil {
		return err
	}

	ui.PrintHighlight("[PUBLISHING]")
	id, err := run(client, creds)
	if err != nil {
		return err
	}
	printPublished(client.Platform(), id)
	return nil
}

func printPublished(p threads.Platform, id string) {
	ui.PrintSuccess("Published")
	if p.PublishReturnsID {
		ui.PrintResult(id)
	}
}

func mediaTypeForURL(raw string) threads.MediaType {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	switch strings.ToLower(path.Ext(raw)) {
	case ".mp4", ".mov":
		return threads.MediaTypeVideo
	default:
		return threads.MediaTypeImage
	}
}
