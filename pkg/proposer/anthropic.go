package proposer

import (
	"context"
	stderrors "errors"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/XiaoConstantine/shinka-go/pkg/errors"
	"github.com/XiaoConstantine/shinka-go/pkg/logging"
)

// DefaultAnthropicModel is used when no model is configured.
// Same value as the SDK's ModelClaudeSonnet4_5_20250929 constant, which is
// not defined in SDK versions buildable with Go 1.21.
const DefaultAnthropicModel = anthropic.Model("claude-sonnet-4-5-20250929")

// AnthropicGenerator produces proposals through Anthropic's Messages API.
type AnthropicGenerator struct {
	client *anthropic.Client
	model  anthropic.Model
}

var _ Generator = (*AnthropicGenerator)(nil)

// NewAnthropicGenerator creates a generator for the given model. The API key
// falls back to the ANTHROPIC_API_KEY environment variable.
func NewAnthropicGenerator(apiKey string, model anthropic.Model) (*AnthropicGenerator, error) {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New(errors.InvalidInput, "API key is required")
	}
	if model == "" {
		model = DefaultAnthropicModel
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &AnthropicGenerator{
		client: &client,
		model:  model,
	}, nil
}

// Generate implements the Generator interface.
func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string, options ...GenerateOption) (string, error) {
	logger := logging.GetLogger()
	opts := NewGenerateOptions()
	for _, opt := range options {
		opt(opts)
	}

	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model: g.model,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
		MaxTokens:   int64(opts.MaxTokens),
		Temperature: anthropic.Float(opts.Temperature),
	})

	if err != nil {
		var apiErr *anthropic.Error
		if stderrors.As(err, &apiErr) {
			logger.Error(ctx, "Anthropic API error: status code %d", apiErr.StatusCode)
		}
		return "", errors.WithFields(
			errors.Wrap(err, errors.GenerationFailed, "failed to generate proposal"),
			errors.Fields{
				"model":      string(g.model),
				"max_tokens": opts.MaxTokens,
			})
	}

	if message == nil || len(message.Content) == 0 {
		return "", errors.New(errors.GenerationFailed, "received empty content from Anthropic API")
	}

	var responseText string
	if block := message.Content[0]; block.Type == "text" {
		responseText = block.Text
	}

	logger.Debug(ctx, "Anthropic response: %d prompt tokens, %d completion tokens",
		message.Usage.InputTokens, message.Usage.OutputTokens)

	return responseText, nil
}
