package provider

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var errEmptyCompletion = errors.New("empty completion response")

// openAIClient implements Client for all OpenAI-compatible APIs, including
// OpenAI, Gemini (via Google's compatibility endpoint), DeepSeek and Groq.
type openAIClient struct {
	client openai.Client
	model  string
	name   string
}

func newOpenAIClient(name, apiKey, baseURL, model string) *openAIClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &openAIClient{
		client: openai.NewClient(opts...),
		model:  model,
		name:   name,
	}
}

func (c *openAIClient) Name() string { return c.name }

func (c *openAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", &Error{Provider: c.name, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Provider: c.name, Err: errEmptyCompletion}
	}
	return resp.Choices[0].Message.Content, nil
}
