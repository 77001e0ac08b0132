package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/iterativai/empathic-venture-forge/internal/domain/ai"
)

const maxTokens = 4096

// Client wraps the OpenAI-compatible gateway. Implements ai.Gateway.
type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

// NewClientWithBaseURL targets a self-hosted or proxied gateway that
// speaks the chat-completions protocol.
func NewClientWithBaseURL(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: model}
}

// AnalyzeJSON makes exactly one JSON-mode completion call with the
// analyst system prompt plus a single user turn. No retries.
func (c *Client) AnalyzeJSON(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model(),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
	c.applyTokenLimit(&req)

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", mapStatusError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ai.ErrAnalysisFailed)
	}
	return resp.Choices[0].Message.Content, nil
}

// Chat makes one plain-text completion call over a conversation.
func (c *Client) Chat(ctx context.Context, system string, messages []ai.Message) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	for _, m := range messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	req := openai.ChatCompletionRequest{Model: c.model(), Messages: msgs}
	c.applyTokenLimit(&req)

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", mapStatusError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ai.ErrAnalysisFailed)
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) model() string {
	if c.Model == "" {
		return "gpt-4o-mini"
	}
	return c.Model
}

// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
func (c *Client) applyTokenLimit(req *openai.ChatCompletionRequest) {
	model := req.Model
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}
}

// mapStatusError classifies upstream failures: 429 rate limit, 402
// credits exhausted, anything else a generic analysis failure.
func mapStatusError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ai.ErrRateLimited, err)
		case http.StatusPaymentRequired:
			return fmt.Errorf("%w: %v", ai.ErrPaymentRequired, err)
		}
	}
	return fmt.Errorf("%w: %v", ai.ErrAnalysisFailed, err)
}
