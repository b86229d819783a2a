package driven

import "context"

// Generator produces text from a system + user prompt pair. One Generator
// wraps one generative backend; the fallback chain iterates an ordered list
// of them, advancing on any failure.
//
// Implementations may include:
//   - Groq (fast inference)
//   - Google Gemini
//   - Cohere
//   - OpenAI chat completions
//   - Anthropic (final backup)
type Generator interface {
	// Generate produces text for the given prompts. Transport, quota and
	// auth failures are returned wrapped in domain.ErrProviderFailed so
	// the chain can advance without retrying.
	Generate(ctx context.Context, systemPrompt, userPrompt string, opts GenerateOptions) (string, error)

	// Name returns a short identifier for logging ("groq", "cohere", ...).
	Name() string

	// Available reports whether the backend is configured. Absence of
	// configuration is not an error at startup.
	Available() bool

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the token budget for the response.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
