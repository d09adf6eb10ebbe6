package proposer

import "context"

// Generator abstracts the text generator behind the proposer. Implementations
// wrap a concrete provider; the proposer itself stays provider-agnostic.
type Generator interface {
	Generate(ctx context.Context, prompt string, options ...GenerateOption) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string, options ...GenerateOption) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string, options ...GenerateOption) (string, error) {
	return f(ctx, prompt, options...)
}

// GenerateOption represents an option for text generation.
type GenerateOption func(*GenerateOptions)

// GenerateOptions holds configuration for text generation.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float64
}

// NewGenerateOptions creates a new GenerateOptions with default values.
func NewGenerateOptions() *GenerateOptions {
	return &GenerateOptions{
		MaxTokens:   8192,
		Temperature: 0.5,
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) GenerateOption {
	return func(o *GenerateOptions) {
		o.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = t
	}
}
