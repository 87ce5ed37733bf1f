package ai

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/textlens/internal/domain/ai"
)

type fakeClient struct {
	raw    string
	err    error
	prompt string
}

func (f *fakeClient) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.raw, f.err
}

func TestAnalyze_Normalizes(t *testing.T) {
	fc := &fakeClient{raw: `{"title":"T","topics":["a"],"sentiment":"neutral","keywords":["k"],"summary":"S"}`}
	svc := NewService()
	svc.Register(ai.EngineGemini, Provider{Client: fc})

	res, err := svc.Analyze(context.Background(), ai.EngineGemini, "some text")

	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.Equal(t, "T", res.Record.Title)
	assert.Equal(t, []string{"a"}, res.Record.Topics)
	assert.Contains(t, fc.prompt, "Text: some text")
}

func TestAnalyze_PropagatePolicy(t *testing.T) {
	upstream := &ai.ProviderError{Engine: ai.EngineGemini, StatusCode: http.StatusTooManyRequests, Body: "quota"}
	svc := NewService()
	svc.Register(ai.EngineGemini, Provider{Client: &fakeClient{err: upstream}, Policy: ai.PolicyPropagate})

	_, err := svc.Analyze(context.Background(), ai.EngineGemini, "x")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ai.ErrQuotaExceeded))
}

func TestAnalyze_DegradePolicy(t *testing.T) {
	svc := NewService()
	svc.Register(ai.EngineOpenAI, Provider{Client: &fakeClient{err: errors.New("invalid api key")}, Policy: ai.PolicyDegrade})

	res, err := svc.Analyze(context.Background(), ai.EngineOpenAI, "x")

	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, "invalid api key", res.Record.RawResponse)
	require.NotNil(t, res.Record.Summary)
	assert.Empty(t, *res.Record.Summary)
}

func TestAnalyze_UnknownEngine(t *testing.T) {
	_, err := NewService().Analyze(context.Background(), ai.Engine("bard"), "x")
	assert.ErrorIs(t, err, ai.ErrUnknownEngine)
}

func TestRegister_DefaultPolicyAndEngines(t *testing.T) {
	svc := NewService()
	svc.Register(ai.EngineOpenAI, Provider{Client: &fakeClient{}})
	svc.Register(ai.EngineGemini, Provider{Client: &fakeClient{}})

	assert.Equal(t, ai.PolicyPropagate, svc.providers[ai.EngineOpenAI].Policy)
	assert.Equal(t, []ai.Engine{ai.EngineGemini, ai.EngineOpenAI}, svc.Engines())
	assert.True(t, svc.Supports(ai.EngineGemini))
	assert.False(t, svc.Supports(ai.EngineAnthropic))
}
