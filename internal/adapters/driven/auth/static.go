// Package auth provides token providers for outbound provider calls.
// Hosted embedding and generation APIs authenticate with either a static
// API key or an OAuth2 token with automatic refresh.
package auth

import (
	"context"
	"fmt"

	"github.com/fetchit-ai/fetchit/internal/core/ports/driven"
)

// Ensure StaticProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*StaticProvider)(nil)

// StaticProvider supplies a fixed API key. Keys don't expire and don't
// require refresh.
type StaticProvider struct {
	token string
}

// NewStaticProvider creates a token provider for API-key authentication.
func NewStaticProvider(token string) *StaticProvider {
	return &StaticProvider{token: token}
}

// Token returns the configured API key.
func (p *StaticProvider) Token(_ context.Context) (string, error) {
	if p.token == "" {
		return "", fmt.Errorf("auth: no API key configured")
	}
	return p.token, nil
}
