package driven

import "context"

// TokenProvider supplies a valid bearer token for outbound provider calls.
// Token acquisition and refresh live behind this port; the engine treats an
// auth failure from a provider as domain.ErrProviderFailed and never manages
// refresh itself.
type TokenProvider interface {
	// Token returns a bearer token ready for use in an Authorization header.
	Token(ctx context.Context) (string, error)
}
