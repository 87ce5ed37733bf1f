package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bryanwahyu/textlens/internal/domain/ai"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultModel   = "gemini-2.5-pro"
)

// Client calls the Gemini generateContent endpoint. Failures are returned
// to the caller: non-2xx answers come back as *ai.ProviderError.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// NewClient builds a Gemini client. Empty model/baseURL use the defaults and
// a nil httpClient uses http.DefaultClient.
func NewClient(apiKey, model, baseURL string, httpClient *http.Client) *Client {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{apiKey: apiKey, model: model, baseURL: baseURL, http: httpClient}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", eris.Wrap(err, "gemini: marshal request")
	}

	endpoint := c.baseURL + "/" + c.model + ":generateContent?" + url.Values{"key": {c.apiKey}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "gemini: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "gemini: call API")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "gemini: read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		zap.L().Warn("gemini api error", zap.Int("status", resp.StatusCode), zap.String("model", c.model))
		return "", &ai.ProviderError{Engine: ai.EngineGemini, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var gr generateResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return "", eris.Wrap(err, "gemini: decode response")
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", eris.Wrap(ai.ErrMalformedResponse, "gemini: candidates[0].content.parts[0]")
	}

	text := gr.Candidates[0].Content.Parts[0].Text
	zap.L().Debug("gemini response", zap.String("model", c.model), zap.Int("size", len(text)))
	return text, nil
}
