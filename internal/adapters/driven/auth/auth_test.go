package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestStaticProvider_ReturnsKey(t *testing.T) {
	p := NewStaticProvider("sk-test")

	token, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sk-test", token)
}

func TestStaticProvider_EmptyKey(t *testing.T) {
	p := NewStaticProvider("")

	_, err := p.Token(context.Background())
	assert.Error(t, err)
}

func TestOAuthProvider_NoInitialToken(t *testing.T) {
	p := NewOAuthProvider(&oauth2.Config{}, nil)

	_, err := p.Token(context.Background())
	assert.Error(t, err)
}

func TestOAuthProvider_ReturnsValidToken(t *testing.T) {
	initial := &oauth2.Token{
		AccessToken: "valid-token",
		Expiry:      time.Now().Add(time.Hour),
	}
	p := NewOAuthProvider(&oauth2.Config{}, initial)

	token, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "valid-token", token)
}

func TestOAuthProvider_RefreshesExpiredToken(t *testing.T) {
	var refreshes int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refreshes++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "refresh-1", r.Form.Get("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "refreshed-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	config := &oauth2.Config{
		ClientID: "client",
		Endpoint: oauth2.Endpoint{TokenURL: server.URL},
	}
	expired := &oauth2.Token{
		AccessToken:  "stale-token",
		RefreshToken: "refresh-1",
		Expiry:       time.Now().Add(-time.Hour),
	}
	p := NewOAuthProvider(config, expired)

	token, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refreshed-token", token)
	assert.Equal(t, 1, refreshes)

	// The refreshed token is cached; no second round trip.
	token, err = p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refreshed-token", token)
	assert.Equal(t, 1, refreshes)

	// CurrentToken exposes the refreshed token for persistence.
	assert.Equal(t, "refreshed-token", p.CurrentToken().AccessToken)
}
