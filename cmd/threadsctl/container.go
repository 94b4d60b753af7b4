package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"threadsapi/pkg/threads"
	"threadsapi/pkg/ui"
)

// newContainerCmd exposes the two publishing steps separately
func newContainerCmd(a *app) *cobra.Command {
	creds := &credentialFlags{}
	containerCmd := &cobra.Command{
		Use:   "container",
		Short: "Create and publish media containers step by step",
		Long: `Create and publish media containers step by step.

Videos need time to process after create; publish once the container is
ready. Optional flags that are not given are left out of the request.`,
	}
	creds.register(containerCmd)

	var (
		mediaType, text, imageURL, videoURL, replyTo string
		carouselItem                                 bool
		children                                     []string
	)

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a media container and print its id",
		Example: `  threadsctl container create --type TEXT --text "hello"
  threadsctl container create --type IMAGE --image-url https://example.com/a.jpg --carousel-item
  threadsctl container create --type CAROUSEL --children 1790,1791`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			cr, err := a.credentials(creds)
			if err != nil {
				return err
			}

			opts := threads.ContainerOptions{
				MediaType: threads.MediaType(strings.ToUpper(mediaType)),
				Children:  children,
			}
			flags := cmd.Flags()
			if flags.Changed("text") {
				opts.Text = threads.String(text)
			}
			if flags.Changed("image-url") {
				opts.ImageURL = threads.String(imageURL)
			}
			if flags.Changed("video-url") {
				opts.VideoURL = threads.String(videoURL)
			}
			if flags.Changed("reply-to") {
				opts.ReplyToID = threads.String(replyTo)
			}
			if flags.Changed("carousel-item") {
				opts.IsCarouselItem = threads.Bool(carouselItem)
			}

			id, err := client.CreateMediaContainer(cmd.Context(), cr, opts)
			if err != nil {
				return err
			}
			ui.PrintSuccess(fmt.Sprintf("Created %s container", opts.MediaType))
			ui.PrintResult(id)
			return nil
		},
	}
	createCmd.Flags().StringVar(&mediaType, "type", "", "media type: TEXT, IMAGE, VIDEO or CAROUSEL")
	createCmd.Flags().StringVar(&text, "text", "", "post text or caption")
	createCmd.Flags().StringVar(&imageURL, "image-url", "", "public URL of the image")
	createCmd.Flags().StringVar(&videoURL, "video-url", "", "public URL of the video")
	createCmd.Flags().StringVar(&replyTo, "reply-to", "", "media id to reply to (threads only)")
	createCmd.Flags().BoolVar(&carouselItem, "carousel-item", false, "mark the container as a carousel child")
	createCmd.Flags().StringSliceVar(&children, "children", nil, "comma separated child container ids")
	createCmd.MarkFlagRequired("type")

	publishCmd := &cobra.Command{
		Use:   "publish <creation-id>",
		Short: "Publish a container created earlier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.publish(cmd, creds, func(c *threads.Client, cr threads.Credentials) (string, error) {
				return c.PublishMediaContainer(cmd.Context(), cr, args[0])
			})
		},
	}

	containerCmd.AddCommand(createCmd, publishCmd)
	return containerCmd
}
