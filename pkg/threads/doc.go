// Package threads is a client for the Threads and Instagram Graph APIs.
//
// It covers the OAuth token lifecycle and media publishing:
//   - building the consent page URL
//   - exchanging the authorization code for a short-lived token
//   - swapping it for a long-lived token and refreshing that
//   - creating, publishing and reading media containers
//
// The client holds no token state. Token operations return Credentials
// which the caller keeps and passes to later calls:
//
//	client, err := threads.New(appID, appSecret)
//	if err != nil {
//	    return err
//	}
//
//	// Send the user to client.GetAuthorizationURL(redirectURI, scopes),
//	// then exchange the code delivered to redirectURI.
//	short, err := client.GetShortLivedAccessToken(ctx, redirectURI, code)
//	if err != nil {
//	    return err
//	}
//	creds, err := client.GetLongLivedAccessToken(ctx, short.AccessToken)
//	if err != nil {
//	    return err
//	}
//
//	id, err := client.PublishText(ctx, creds, "hello", "")
//	if apiErr, ok := errors.AsAPIError(err); ok {
//	    log.Printf("rejected with %d: %s", apiErr.StatusCode, apiErr.Body)
//	}
//
// Pass WithPlatform(threads.Instagram) to talk to the Instagram Graph API
// instead. It shares the request contract but uses other hosts and edges,
// rejects reply_to_id and does not return the published media id.
package threads
