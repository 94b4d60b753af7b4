package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"threadsapi/pkg/threads"
	"threadsapi/pkg/ui"
)

func newMediaCmd(a *app) *cobra.Command {
	mediaCmd := &cobra.Command{
		Use:   "media",
		Short: "Read published media and containers",
	}

	var (
		token  string
		fields []string
		raw    bool
	)
	getCmd := &cobra.Command{
		Use:   "get <media-id>",
		Short: "Print a media object",
		Example: `  threadsctl media get 17900000000000001
  threadsctl media get 17900000000000001 --fields id,text,permalink --raw`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := a.newClient(cmd)
			if err != nil {
				return err
			}

			creds := threads.Credentials{AccessToken: firstNonEmpty(token, os.Getenv(envAccessToken))}
			if creds.AccessToken == "" && client.Platform().TokenOnMediaRead {
				if creds.AccessToken, err = a.readToken("", "Access token: "); err != nil {
					return err
				}
			}

			if raw {
				obj, err := client.GetMediaObjectRaw(cmd.Context(), creds, args[0], fields)
				if err != nil {
					return err
				}
				out, err := json.MarshalIndent(obj, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode media object: %w", err)
				}
				ui.PrintResult(string(out))
				return nil
			}

			obj, err := client.GetMediaObject(cmd.Context(), creds, args[0], fields)
			if err != nil {
				return err
			}
			printMediaObject(obj)
			return nil
		},
	}
	getCmd.Flags().StringVar(&token, "token", "", "access token (or THREADSAPI_ACCESS_TOKEN)")
	getCmd.Flags().StringSliceVar(&fields, "fields", nil, "fields to request (default: all modelled fields)")
	getCmd.Flags().BoolVar(&raw, "raw", false, "print the response as JSON, including unmodelled fields")

	mediaCmd.AddCommand(getCmd)
	return mediaCmd
}

func printMediaObject(obj *threads.MediaObject) {
	str := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}

	rows := []ui.Field{
		{Label: "id", Value: obj.ID},
		{Label: "media_type", Value: str(obj.MediaType)},
		{Label: "text", Value: str(obj.Text)},
		{Label: "media_url", Value: str(obj.MediaURL)},
		{Label: "permalink", Value: str(obj.Permalink)},
		{Label: "username", Value: str(obj.Username)},
		{Label: "shortcode", Value: str(obj.Shortcode)},
		{Label: "thumbnail_url", Value: str(obj.ThumbnailURL)},
	}
	if obj.Owner != nil {
		rows = append(rows, ui.Field{Label: "owner", Value: obj.Owner.ID})
	}
	if obj.Timestamp != nil {
		rows = append(rows, ui.Field{Label: "timestamp", Value: obj.Timestamp.Format(time.RFC3339)})
	}
	if obj.IsQuotePost != nil {
		rows = append(rows, ui.Field{Label: "is_quote_post", Value: fmt.Sprint(*obj.IsQuotePost)})
	}

	// Unmodelled fields from the raw body
	var extra map[string]json.RawMessage
	if err := json.Unmarshal(obj.Raw, &extra); err == nil {
		known := map[string]bool{}
		for _, f := range threads.DefaultMediaFields {
			known[f] = true
		}
		known["media_product_id"] = true
		var keys []string
		for k := range extra {
			if !known[k] {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			rows = append(rows, ui.Field{Label: k, Value: string(extra[k])})
		}
	}

	ui.PrintPanel("Media "+obj.ID, rows)
}
