package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	name  string
	text  string
	err   error
	calls int
}

func (f *fakeGenerator) Name() string { return f.name }

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestChainPrimarySucceeds(t *testing.T) {
	primary := &fakeGenerator{name: "gemini", text: "thread"}
	secondary := &fakeGenerator{name: "groq", text: "other"}
	chain := NewChain(primary, secondary)

	text, provider, err := chain.Generate(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, "thread", text)
	assert.Equal(t, "gemini", provider)
	assert.Equal(t, 0, secondary.calls, "secondary must not be called when primary succeeds")
}

func TestChainFallsBackToSecondary(t *testing.T) {
	primary := &fakeGenerator{name: "gemini", err: errors.New("gemini API error: status 500")}
	secondary := &fakeGenerator{name: "groq", text: "fallback output"}
	chain := NewChain(primary, secondary)

	text, provider, err := chain.Generate(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, "fallback output", text)
	assert.Equal(t, "groq", provider)
	assert.Equal(t, 1, primary.calls)
}

func TestChainAllProvidersFail(t *testing.T) {
	primary := &fakeGenerator{name: "gemini", err: errors.New("quota exhausted")}
	secondary := &fakeGenerator{name: "groq", err: errors.New("rate limit exceeded")}
	chain := NewChain(primary, secondary)

	_, _, err := chain.Generate(context.Background(), "prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded", "last error must surface")
}

func TestChainEmpty(t *testing.T) {
	chain := NewChain()

	_, _, err := chain.Generate(context.Background(), "prompt")

	require.Error(t, err)
	assert.Equal(t, 0, chain.Len())
}

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"missing key", errors.New("gemini API key not configured"), PlaceholderConfig},
		{"rate limited", errors.New("groq API error: status 429, body: rate limit reached"), PlaceholderRateLimit},
		{"safety filter", errors.New("response blocked by safety settings"), PlaceholderSafety},
		{"generic", errors.New("connection reset by peer"), "Error generating content for twitter. Please try again later."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFailure(tt.err, "twitter"))
		})
	}
}
