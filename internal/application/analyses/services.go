package analyses

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bryanwahyu/textlens/internal/application"
	appai "github.com/bryanwahyu/textlens/internal/application/ai"
	"github.com/bryanwahyu/textlens/internal/domain/ai"
	domain "github.com/bryanwahyu/textlens/internal/domain/analysis"
)

// Analyzer is the engine registry as seen by this service.
type Analyzer interface {
	Analyze(ctx context.Context, engine ai.Engine, text string) (appai.Result, error)
}

// Service implements the analysis use-cases. It holds no mutable state of
// its own and is safe for concurrent use when its dependencies are.
type Service struct {
	Repo     domain.Repository
	AI       Analyzer
	Keywords domain.KeywordExtractor
	Archive  domain.RawArchive // optional
	Clock    application.Clock
}

// AnalyzeCommand is one submission from the form or the JSON API.
type AnalyzeCommand struct {
	Text   string
	Engine ai.Engine
}

type AnalyzeResult struct {
	Analysis *domain.Analysis
	Engine   ai.Engine
	Degraded bool
}

// Analyze runs text through the engine, replaces the proposed keywords with
// locally extracted ones and stores the result. Nothing is stored when an
// error is returned.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (AnalyzeResult, error) {
	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		return AnalyzeResult{}, domain.ErrEmptyText
	}
	engine := cmd.Engine
	if engine == "" {
		engine = ai.DefaultEngine
	}

	res, err := s.AI.Analyze(ctx, engine, text)
	if err != nil {
		return AnalyzeResult{}, err
	}

	keywords, err := s.Keywords.Extract(text)
	if err != nil {
		return AnalyzeResult{}, err
	}
	rec := res.Record
	rec.Keywords = keywords

	a := &domain.Analysis{
		ID:        domain.AnalysisID(uuid.New().String()),
		Title:     rec.Title,
		Text:      text,
		Topics:    rec.Topics,
		Sentiment: rec.Sentiment,
		Keywords:  rec.Keywords,
		Summary:   rec.Summary,
		CreatedAt: s.Clock.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return AnalyzeResult{}, eris.Wrap(err, "store analysis")
	}

	zap.L().Info("analysis created",
		zap.String("id", string(a.ID)),
		zap.String("engine", string(engine)),
		zap.Bool("degraded", res.Degraded),
		zap.Int("topics", len(a.Topics)),
	)

	if s.Archive != nil {
		url, err := s.Archive.Archive(ctx, a.ID, rec.RawResponse)
		if err != nil {
			zap.L().Warn("raw response archive failed", zap.String("id", string(a.ID)), zap.Error(err))
		} else {
			zap.L().Debug("raw response archived", zap.String("id", string(a.ID)), zap.String("url", url))
		}
	}

	return AnalyzeResult{Analysis: a, Engine: engine, Degraded: res.Degraded}, nil
}

// ListAll returns every analysis, newest first.
func (s *Service) ListAll(ctx context.Context) ([]*domain.Analysis, error) {
	return s.Repo.ListAll(ctx)
}

// History returns one page of analyses, newest first.
func (s *Service) History(ctx context.Context, page, pageSize int) (domain.PaginatedResult, error) {
	return s.Repo.Paginate(ctx, page, pageSize)
}

// Search finds analyses with a topic containing term, ignoring case. The
// term is used as given: surrounding spaces are part of the substring.
func (s *Service) Search(ctx context.Context, term string) ([]*domain.Analysis, error) {
	term = strings.ToLower(term)
	if term == "" {
		return nil, domain.ErrEmptyTopic
	}
	return s.Repo.Search(ctx, term)
}
