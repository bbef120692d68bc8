// Package llm wraps the OpenAI-compatible chat-completions endpoint used to
// interpret todo requests. By default it talks to OpenRouter.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/taskpilot/taskpilot/internal/config"
	"github.com/taskpilot/taskpilot/pkg/types"
)

// Client is a long-lived handle on the completion endpoint. It holds no
// per-call state and is safe for concurrent use.
type Client struct {
	client          *openai.Client
	model           string
	temperature     float32
	maxTokens       int
	maxContextChars int
}

// New creates a completion client from the AI configuration.
func New(cfg config.AIConfig) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &Client{
		client:          openai.NewClientWithConfig(clientConfig),
		model:           cfg.Model,
		temperature:     cfg.Temperature,
		maxTokens:       cfg.MaxTokens,
		maxContextChars: cfg.MaxContextChars,
	}
}

// Complete sends a single chat completion request and returns the reply
// text. An optional todo snapshot is JSON-serialized ahead of the user
// request, hard-truncated at the configured bound. Truncation is silent:
// the caps bound cost and prompt size, they never fail the call. Errors are
// classified into the provider failure taxonomy; nothing panics past this
// boundary.
func (c *Client) Complete(ctx context.Context, systemPrompt, userRequest string, todos []types.TodoContext) (string, error) {
	content := userRequest
	if len(todos) > 0 {
		if snapshot, err := json.Marshal(todos); err == nil {
			prefix := "Todos Context: " + string(snapshot)
			if len(prefix) > c.maxContextChars {
				prefix = prefix[:c.maxContextChars]
			}
			content = prefix + "\n" + userRequest
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", types.ErrProviderUnknown)
	}
	return resp.Choices[0].Message.Content, nil
}

// classify maps a transport error onto the provider failure taxonomy while
// keeping the original error in the chain for logging.
func classify(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch {
	case status == 401:
		return fmt.Errorf("%w: %v", types.ErrProviderAuth, err)
	case status == 429:
		return fmt.Errorf("%w: %v", types.ErrProviderRateLimited, err)
	case status >= 500:
		return fmt.Errorf("%w: %v", types.ErrProviderUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", types.ErrProviderUnknown, err)
	}
}
