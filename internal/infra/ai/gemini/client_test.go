package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/textlens/internal/domain/ai"
)

func responseJSON(text string) string {
	var gr generateResponse
	gr.Candidates = append(gr.Candidates, struct {
		Content content `json:"content"`
	}{Content: content{Parts: []part{{Text: text}}}})
	b, _ := json.Marshal(gr)
	return string(b)
}

func TestComplete_Success(t *testing.T) {
	var gotKey, gotPath string
	var gotReq generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotKey = r.URL.Query().Get("key")
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotReq)
		w.Write([]byte(responseJSON(`{"title":"ok"}`)))
	}))
	defer srv.Close()

	c := NewClient("secret", "test-model", srv.URL, srv.Client())
	text, err := c.Complete(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, `{"title":"ok"}`, text)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "/test-model:generateContent", gotPath)
	require.Len(t, gotReq.Contents, 1)
	assert.Equal(t, "hello", gotReq.Contents[0].Parts[0].Text)
}

func TestComplete_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"quota"}`))
	}))
	defer srv.Close()

	_, err := NewClient("k", "m", srv.URL, srv.Client()).Complete(context.Background(), "p")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ai.ErrQuotaExceeded))
	var pe *ai.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusTooManyRequests, pe.StatusCode)
	assert.Equal(t, `{"error":"quota"}`, pe.Body)
	assert.Equal(t, ai.EngineGemini, pe.Engine)
}

func TestComplete_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	_, err := NewClient("k", "m", srv.URL, srv.Client()).Complete(context.Background(), "p")

	var pe *ai.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusInternalServerError, pe.StatusCode)
	assert.False(t, errors.Is(err, ai.ErrQuotaExceeded))
}

func TestComplete_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient("k", "m", srv.URL, srv.Client()).Complete(context.Background(), "p")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ai.ErrMalformedResponse))
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("k", "", "", nil)
	assert.Equal(t, DefaultModel, c.model)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Same(t, http.DefaultClient, c.http)
}
