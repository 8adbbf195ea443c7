// Package gmail provides the Gmail API collaborator of the export pipeline.
//
// The Client searches the authenticated user's mailbox, loads full messages
// and fetches out-of-line attachment bodies. Gmail API structs never leave
// this package: messages are converted into the typed tree of the message
// package when they are fetched.
//
// Authentication is not handled here. Callers pass an *http.Client that
// already carries OAuth2 credentials, usually from google.Authenticator.
//
// Example usage:
//
//	httpClient, err := auth.HTTPClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := gmail.NewClient(ctx, "default", httpClient, metrics)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	refs, err := client.Search(ctx, "subject:Lohnabrechnung")
//	if err != nil {
//	    log.Fatal(err)
//	}
package gmail
