package proposer

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/XiaoConstantine/shinka-go/pkg/errors"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = openai.ChatModelGPT4oMini

// OpenAIGenerator produces proposals through the OpenAI Chat Completions API.
type OpenAIGenerator struct {
	client *openai.Client
	model  openai.ChatModel
}

var _ Generator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator creates a generator for the given model. With an empty
// key the client falls back to the OPENAI_API_KEY environment variable.
func NewOpenAIGenerator(apiKey string, model openai.ChatModel) (*OpenAIGenerator, error) {
	if model == "" {
		model = DefaultOpenAIModel
	}

	var clientOpts []option.RequestOption
	if apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(apiKey))
	}
	client := openai.NewClient(clientOpts...)

	return &OpenAIGenerator{
		client: &client,
		model:  model,
	}, nil
}

// Generate implements the Generator interface.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string, options ...GenerateOption) (string, error) {
	opts := NewGenerateOptions()
	for _, opt := range options {
		opt(opts)
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:               g.model,
		Temperature:         openai.Float(opts.Temperature),
		MaxCompletionTokens: openai.Int(int64(opts.MaxTokens)),
	})
	if err != nil {
		return "", errors.WithFields(
			errors.Wrap(err, errors.GenerationFailed, "failed to generate proposal"),
			errors.Fields{
				"model":      string(g.model),
				"max_tokens": opts.MaxTokens,
			})
	}

	if len(resp.Choices) == 0 {
		return "", errors.New(errors.GenerationFailed, "no choices returned from OpenAI API")
	}

	return resp.Choices[0].Message.Content, nil
}
