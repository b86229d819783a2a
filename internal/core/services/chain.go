package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
	"github.com/fetchit-ai/fetchit/internal/core/ports/driven"
	"github.com/fetchit-ai/fetchit/internal/logger"
)

// Default generation parameters for chain calls.
var defaultGenerateOptions = driven.GenerateOptions{
	MaxTokens:   1000,
	Temperature: 0.7,
}

// Outbound pacing for generative calls. Conservative; each provider also
// enforces its own timeout at the HTTP client.
const (
	chainRequestsPerSecond = 2.0
	chainBurstSize         = 4
)

// GeneratorChain tries an ordered list of generative backends until one
// yields an acceptable response. It never retries an entry: any failure
// advances to the next. An empty or fully-failed chain is reported as
// domain.ErrProviderUnavailable so the caller can take the extractive path.
type GeneratorChain struct {
	mu         sync.Mutex
	generators []driven.Generator
	limiters   map[string]*rate.Limiter
}

// NewGeneratorChain creates a chain over generators in priority order.
// Nil entries are skipped; an empty chain is valid (nothing is configured).
func NewGeneratorChain(generators ...driven.Generator) *GeneratorChain {
	chain := &GeneratorChain{
		limiters: make(map[string]*rate.Limiter),
	}
	for _, gen := range generators {
		if gen != nil {
			chain.generators = append(chain.generators, gen)
		}
	}
	return chain
}

// Available reports whether at least one configured backend exists.
func (c *GeneratorChain) Available() bool {
	for _, gen := range c.generators {
		if gen.Available() {
			return true
		}
	}
	return false
}

// Generate submits the prompts to each backend in priority order and
// returns the first non-empty response. Per-entry failures are logged and
// skipped, never retried.
func (c *GeneratorChain) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	attempted := 0

	for _, gen := range c.generators {
		if !gen.Available() {
			logger.Debug("Provider %s not configured, skipping", gen.Name())
			continue
		}
		attempted++

		if err := c.limiter(gen.Name()).Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}

		logger.Debug("Trying provider %s", gen.Name())
		response, err := gen.Generate(ctx, systemPrompt, userPrompt, defaultGenerateOptions)
		if err != nil {
			logger.Warn("Provider %s failed: %v", gen.Name(), err)
			continue
		}

		response = strings.TrimSpace(response)
		if response == "" {
			logger.Warn("Provider %s returned an empty response", gen.Name())
			continue
		}

		logger.Info("Provider %s answered (%d chars)", gen.Name(), len(response))
		return response, nil
	}

	if attempted == 0 {
		return "", fmt.Errorf("no generative provider configured: %w", domain.ErrProviderUnavailable)
	}
	return "", fmt.Errorf("all %d providers failed: %w", attempted, domain.ErrProviderUnavailable)
}

// limiter returns the per-provider token bucket, creating it on first use.
func (c *GeneratorChain) limiter(name string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	lim, ok := c.limiters[name]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(chainRequestsPerSecond), chainBurstSize)
		c.limiters[name] = lim
	}
	return lim
}

// Close closes every backend in the chain, returning the first error.
func (c *GeneratorChain) Close() error {
	var firstErr error
	for _, gen := range c.generators {
		if err := gen.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
