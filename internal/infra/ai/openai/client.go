package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/bryanwahyu/textlens/internal/domain/ai"
)

const (
	maxTokens    = 2048
	DefaultModel = openai.GPT3Dot5Turbo
)

type Client struct {
	*openai.Client
	Model string
}

// NewClient builds a chat-completion client. baseURL is only set in tests
// or for OpenAI-compatible gateways.
func NewClient(apiKey, model, baseURL string, httpClient *http.Client) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: model}
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	model := c.Model
	if model == "" {
		model = DefaultModel
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", providerError(err)
	}
	if len(resp.Choices) == 0 {
		return "", eris.Wrap(ai.ErrMalformedResponse, "openai: no choices")
	}

	zap.L().Debug("openai response", zap.String("model", model), zap.Int("size", len(resp.Choices[0].Message.Content)))
	return resp.Choices[0].Message.Content, nil
}

// providerError keeps the upstream status so a propagate policy can still
// tell 429 apart.
func providerError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ai.ProviderError{Engine: ai.EngineOpenAI, StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ai.ProviderError{Engine: ai.EngineOpenAI, StatusCode: reqErr.HTTPStatusCode, Body: reqErr.Error()}
	}
	return eris.Wrap(err, "openai: create chat completion")
}
