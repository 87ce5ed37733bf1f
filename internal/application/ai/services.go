package ai

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/bryanwahyu/textlens/internal/domain/ai"
	"github.com/bryanwahyu/textlens/internal/domain/analysis"
	"github.com/bryanwahyu/textlens/internal/infra/ai/normalize"
	"github.com/bryanwahyu/textlens/internal/infra/ai/prompt"
)

// Provider is a registered engine: a client plus what to do when it fails.
type Provider struct {
	Client ai.Client
	Policy ai.FailurePolicy
}

// Result is what one provider call produced.
type Result struct {
	Record analysis.Record
	// Degraded is set when a failure was swallowed by PolicyDegrade.
	Degraded bool
}

type Service struct {
	providers map[ai.Engine]Provider
}

func NewService() *Service {
	return &Service{providers: make(map[ai.Engine]Provider)}
}

// Register adds or replaces the provider for engine.
func (s *Service) Register(engine ai.Engine, p Provider) {
	if p.Policy == "" {
		p.Policy = ai.PolicyPropagate
	}
	s.providers[engine] = p
}

// Engines lists registered engines in name order.
func (s *Service) Engines() []ai.Engine {
	out := make([]ai.Engine, 0, len(s.providers))
	for e := range s.providers {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Supports reports whether engine is registered.
func (s *Service) Supports(engine ai.Engine) bool {
	_, ok := s.providers[engine]
	return ok
}

// Analyze builds the prompt, calls the engine once and normalizes the
// completion. Keywords in the result are whatever the model proposed.
func (s *Service) Analyze(ctx context.Context, engine ai.Engine, text string) (Result, error) {
	p, ok := s.providers[engine]
	if !ok {
		return Result{}, ai.ErrUnknownEngine
	}

	raw, err := p.Client.Complete(ctx, prompt.Build(text))
	if err != nil {
		if p.Policy == ai.PolicyDegrade {
			zap.L().Warn("ai call failed, continuing with empty record",
				zap.String("engine", string(engine)),
				zap.Error(err),
			)
			return Result{Record: normalize.Degraded(err), Degraded: true}, nil
		}
		return Result{}, err
	}
	return Result{Record: normalize.Normalize(raw)}, nil
}
