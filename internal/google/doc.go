// Package google provides OAuth2 authentication for the Gmail and Drive
// collaborators.
//
// Tokens live in a CredentialStore. FileStore keeps them as JSON under the
// user cache directory, one file per account. The Authenticator loads the
// stored token, refreshes it when it has expired and writes refreshed tokens
// back, so the store always holds the most recent credentials.
//
// First-time authorization is explicit: AuthCodeURL returns the consent
// page and Exchange persists the token obtained from the pasted code.
package google
