package providers

import "context"

// Generator produces text from a rendered prompt. Implementations wrap one
// external LLM provider and are capability-equivalent: same signature,
// differing only in availability, latency and cost.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}
