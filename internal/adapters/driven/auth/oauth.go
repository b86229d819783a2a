package auth

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"

	"github.com/fetchit-ai/fetchit/internal/core/ports/driven"
)

// Ensure OAuthProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*OAuthProvider)(nil)

// OAuthProvider supplies OAuth2 access tokens with automatic refresh.
// The oauth2 token source handles expiry and refresh; this type adds
// caching of the most recent token so a refresh is reused across calls.
type OAuthProvider struct {
	config *oauth2.Config

	mu      sync.Mutex
	current *oauth2.Token
}

// NewOAuthProvider creates a token provider from an OAuth2 client config
// and an initial token (typically loaded from the credentials file).
func NewOAuthProvider(config *oauth2.Config, initial *oauth2.Token) *OAuthProvider {
	return &OAuthProvider{
		config:  config,
		current: initial,
	}
}

// Token returns a valid access token, refreshing if necessary.
func (p *OAuthProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return "", fmt.Errorf("auth: no OAuth token available")
	}

	token, err := p.config.TokenSource(ctx, p.current).Token()
	if err != nil {
		return "", fmt.Errorf("auth: refresh token: %w", err)
	}

	// Keep the refreshed token so the next call reuses it.
	p.current = token
	return token.AccessToken, nil
}

// CurrentToken returns the most recent token, for persisting after refresh.
func (p *OAuthProvider) CurrentToken() *oauth2.Token {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}
