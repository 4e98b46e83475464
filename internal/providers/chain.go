package providers

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Chain tries generators in order and returns the first success. Every
// failure is logged and swallowed; only the last error surfaces when the
// whole chain is exhausted.
type Chain struct {
	generators []Generator
}

func NewChain(generators ...Generator) *Chain {
	return &Chain{generators: generators}
}

func (c *Chain) Len() int { return len(c.generators) }

// Generate returns the generated text and the name of the generator that
// produced it.
func (c *Chain) Generate(ctx context.Context, prompt string) (string, string, error) {
	if len(c.generators) == 0 {
		return "", "", fmt.Errorf("no generators configured")
	}

	var lastErr error
	for _, g := range c.generators {
		text, err := g.Generate(ctx, prompt)
		if err == nil {
			return text, g.Name(), nil
		}

		lastErr = err
		log.Warn().
			Err(err).
			Str("provider", g.Name()).
			Msg("Provider failed, trying next")
	}

	return "", "", fmt.Errorf("all providers failed: %w", lastErr)
}
