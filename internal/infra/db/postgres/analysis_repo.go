package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/textlens/internal/domain/analysis"
	"github.com/bryanwahyu/textlens/internal/infra/db"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(conn *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: conn}
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS analyses (
  seq        BIGSERIAL PRIMARY KEY,
  id         UUID NOT NULL UNIQUE,
  title      TEXT NOT NULL DEFAULT '',
  text       TEXT NOT NULL,
  topics     TEXT NOT NULL DEFAULT '[]',
  sentiment  TEXT NOT NULL DEFAULT '',
  keywords   TEXT NOT NULL DEFAULT '[]',
  summary    TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at DESC)`,
}

func (r *AnalysisRepository) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Create inserts an analysis record
func (r *AnalysisRepository) Create(ctx context.Context, a *domain.Analysis) error {
	if a.Summary == nil {
		return domain.ErrMissingSummary
	}
	topics, err := db.EncodeList(a.Topics)
	if err != nil {
		return err
	}
	keywords, err := db.EncodeList(a.Keywords)
	if err != nil {
		return err
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
		a.CreatedAt = createdAt
	}

	const q = `
INSERT INTO analyses
  (id, title, text, topics, sentiment, keywords, summary, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8);
`
	_, err = r.db.ExecContext(ctx, q, string(a.ID), a.Title, a.Text, topics, a.Sentiment, keywords, *a.Summary, createdAt)
	return err
}

// ListAll returns every analysis ordered by created_at desc
func (r *AnalysisRepository) ListAll(ctx context.Context) ([]*domain.Analysis, error) {
	const q = `
SELECT ` + db.Columns + `, created_at
FROM analyses
ORDER BY created_at DESC, seq DESC;
`
	return r.query(ctx, q)
}

// Search matches topic elements case-insensitively. Postgres LIKE already
// treats backslash as the escape character.
func (r *AnalysisRepository) Search(ctx context.Context, topic string) ([]*domain.Analysis, error) {
	const q = `
SELECT ` + db.Columns + `, created_at
FROM analyses
WHERE LOWER(topics) LIKE $1
ORDER BY created_at DESC, seq DESC;
`
	list, err := r.query(ctx, q, db.ContainsPattern(topic))
	if err != nil {
		return nil, err
	}
	return db.FilterTopic(list, topic), nil
}

// Paginate returns a page of analysis records ordered by created_at desc
func (r *AnalysisRepository) Paginate(ctx context.Context, page, pageSize int) (domain.PaginatedResult, error) {
	page, pageSize = db.NormalizePage(page, pageSize)
	offset := (page - 1) * pageSize

	const q = `
SELECT ` + db.Columns + `, created_at
FROM analyses
ORDER BY created_at DESC, seq DESC
LIMIT $1 OFFSET $2;
`
	list, err := r.query(ctx, q, pageSize, offset)
	if err != nil {
		return domain.PaginatedResult{}, err
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&total); err != nil {
		return domain.PaginatedResult{}, err
	}
	return domain.PaginatedResult{
		Data:       list,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: db.TotalPages(total, pageSize),
	}, nil
}

func (r *AnalysisRepository) query(ctx context.Context, q string, args ...any) ([]*domain.Analysis, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Analysis{}
	for rows.Next() {
		var created time.Time
		a, err := db.ScanAnalysis(rows, &created)
		if err != nil {
			return nil, err
		}
		a.CreatedAt = created.UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}
