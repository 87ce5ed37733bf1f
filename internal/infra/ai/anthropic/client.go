package anthropic

import (
	"context"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bryanwahyu/textlens/internal/domain/ai"
)

const (
	DefaultModel = "claude-sonnet-4-5-20250929"
	maxTokens    = 1024
)

// Client calls the Messages API once per prompt; SDK retries are disabled.
type Client struct {
	client *anthropic.Client
	model  string
}

func NewClient(apiKey, model, baseURL string, httpClient *http.Client) *Client {
	if model == "" {
		model = DefaultModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	client := anthropic.NewClient(opts...)
	return &Client{client: &client, model: model}
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &ai.ProviderError{Engine: ai.EngineAnthropic, StatusCode: apiErr.StatusCode, Body: apiErr.RawJSON()}
		}
		return "", eris.Wrap(err, "anthropic: create message")
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			zap.L().Debug("anthropic response", zap.String("model", c.model), zap.Int("size", len(block.Text)))
			return block.Text, nil
		}
	}
	return "", eris.Wrap(ai.ErrMalformedResponse, "anthropic: no text block")
}
