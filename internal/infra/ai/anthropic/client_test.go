package anthropic

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/textlens/internal/domain/ai"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestComplete_Success(t *testing.T) {
	srv := serve(t, http.StatusOK, `{
		"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-test",
		"content": [{"type": "text", "text": "{\"title\":\"t\"}"}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 3, "output_tokens": 5}
	}`)

	text, err := NewClient("key", "claude-test", srv.URL, srv.Client()).Complete(context.Background(), "p")

	require.NoError(t, err)
	assert.Equal(t, `{"title":"t"}`, text)
}

func TestComplete_RateLimited(t *testing.T) {
	srv := serve(t, http.StatusTooManyRequests, `{"type":"error","error":{"type":"rate_limit_error","message":"slow"}}`)

	_, err := NewClient("key", "", srv.URL, srv.Client()).Complete(context.Background(), "p")

	require.Error(t, err)
	var pe *ai.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusTooManyRequests, pe.StatusCode)
	assert.True(t, errors.Is(err, ai.ErrQuotaExceeded))
}

func TestComplete_NoTextBlock(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"id":"msg_2","type":"message","role":"assistant","content":[],"usage":{"input_tokens":1,"output_tokens":0}}`)

	_, err := NewClient("key", "", srv.URL, srv.Client()).Complete(context.Background(), "p")

	assert.True(t, errors.Is(err, ai.ErrMalformedResponse))
}
