package google

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/kklein/payslip/internal/instrumentation"
)

// Authenticator turns stored credentials into authenticated HTTP clients.
// Refreshed tokens are written back to the store.
type Authenticator struct {
	config  *oauth2.Config
	store   CredentialStore
	metrics *instrumentation.Metrics
}

// NewAuthenticator builds the OAuth2 configuration from a client secrets
// file as downloaded from the Google Cloud console.
func NewAuthenticator(credentialsFile string, store CredentialStore, metrics *instrumentation.Metrics) (*Authenticator, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read client credentials: %w", err)
	}
	return NewAuthenticatorFromJSON(data, store, metrics)
}

// NewAuthenticatorFromJSON is NewAuthenticator for in-memory client secrets
func NewAuthenticatorFromJSON(credentials []byte, store CredentialStore, metrics *instrumentation.Metrics) (*Authenticator, error) {
	if store == nil {
		return nil, fmt.Errorf("credential store is required")
	}

	conf, err := google.ConfigFromJSON(credentials, DefaultOAuthScopes...)
	if err != nil {
		return nil, fmt.Errorf("invalid client credentials: %w", err)
	}

	return &Authenticator{
		config:  conf,
		store:   store,
		metrics: metrics,
	}, nil
}

// AuthCodeURL returns the consent page URL. Offline access is requested so
// that the returned token carries a refresh token.
func (a *Authenticator) AuthCodeURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for a token and persists it
func (a *Authenticator) Exchange(ctx context.Context, authCode string) (*oauth2.Token, error) {
	tok, err := a.config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	if err := a.store.Persist(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// Load returns the stored token
func (a *Authenticator) Load() (*oauth2.Token, error) {
	return a.store.Load()
}

// Refresh returns tok unchanged while it is valid. Otherwise it obtains a
// new access token with the refresh token and persists the result.
func (a *Authenticator) Refresh(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error) {
	if tok == nil {
		return nil, ErrNoCredentials
	}
	if tok.Valid() {
		return tok, nil
	}
	if tok.RefreshToken == "" {
		return nil, fmt.Errorf("%w: token expired and has no refresh token", ErrNoCredentials)
	}

	fresh, err := a.config.TokenSource(ctx, tok).Token()
	if err != nil {
		a.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultFailure)
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	a.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultSuccess)

	if err := a.store.Persist(fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// TokenSource returns a token source over the stored token that refreshes
// and persists through Refresh.
func (a *Authenticator) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	tok, err := a.store.Load()
	if err != nil {
		return nil, err
	}

	tok, err = a.Refresh(ctx, tok)
	if err != nil {
		return nil, err
	}

	return oauth2.ReuseTokenSource(tok, &refreshingSource{ctx: ctx, auth: a, last: tok}), nil
}

// HTTPClient returns an HTTP client configured with OAuth2 authentication.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors.
func (a *Authenticator) HTTPClient(ctx context.Context) (*http.Client, error) {
	ts, err := a.TokenSource(ctx)
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: &oauth2.Transport{
			Source: ts,
			Base:   &http.Transport{ForceAttemptHTTP2: false, Proxy: http.ProxyFromEnvironment},
		},
	}, nil
}

// refreshingSource is consulted by oauth2.ReuseTokenSource once the
// current token expires
type refreshingSource struct {
	ctx  context.Context
	auth *Authenticator
	last *oauth2.Token
}

func (s *refreshingSource) Token() (*oauth2.Token, error) {
	tok, err := s.auth.Refresh(s.ctx, s.last)
	if err != nil {
		return nil, err
	}
	s.last = tok
	return tok, nil
}
