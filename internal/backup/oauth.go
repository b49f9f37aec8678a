package backup

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// OAuthAuthenticator holds a bearer token obtained from a refresh token and
// replaces it on Reauthenticate.
type OAuthAuthenticator struct {
	config       *oauth2.Config
	refreshToken string

	mu    sync.Mutex
	token *oauth2.Token
}

// NewOAuthAuthenticator creates an authenticator for the token endpoint.
func NewOAuthAuthenticator(clientID, clientSecret, tokenURL, refreshToken string) *OAuthAuthenticator {
	return &OAuthAuthenticator{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
		},
		refreshToken: refreshToken,
	}
}

// Apply implements Credentials, fetching a token on first use.
func (a *OAuthAuthenticator) Apply(ctx context.Context, req *http.Request) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token == nil || !a.token.Valid() {
		if err := a.refresh(ctx); err != nil {
			return err
		}
	}
	a.token.SetAuthHeader(req)
	return nil
}

// Reauthenticate implements Reauthenticator by forcing a token refresh.
func (a *OAuthAuthenticator) Reauthenticate(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.refresh(ctx)
}

func (a *OAuthAuthenticator) refresh(ctx context.Context) error {
	src := a.config.TokenSource(ctx, &oauth2.Token{RefreshToken: a.refreshToken})
	token, err := src.Token()
	if err != nil {
		return fmt.Errorf("refresh backup token: %w", err)
	}
	if token.RefreshToken != "" {
		a.refreshToken = token.RefreshToken
	}
	a.token = token
	return nil
}
