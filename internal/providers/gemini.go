package providers

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const geminiDefaultModel = "gemini-2.0-flash"

type GeminiGenerator struct {
	client *genai.Client
	model  string
}

type GeminiGeneratorFuncOption = func(g *GeminiGenerator) error

func NewGeminiGenerator(apiKey string, opts ...GeminiGeneratorFuncOption) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key not configured")
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	g := GeminiGenerator{
		client: client,
		model:  geminiDefaultModel,
	}
	if err := applyFuncOptions(&g, opts...); err != nil {
		return nil, fmt.Errorf("failed to apply options: %w", err)
	}
	return &g, nil
}

func WithGeminiModel(model string) GeminiGeneratorFuncOption {
	return func(g *GeminiGenerator) error {
		g.model = model
		return nil
	}
}

func (g *GeminiGenerator) Name() string { return "gemini" }

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return result.Text(), nil
}

func applyFuncOptions[T any](entity T, opts ...func(entity T) error) error {
	for _, opt := range opts {
		if err := opt(entity); err != nil {
			return err
		}
	}
	return nil
}
