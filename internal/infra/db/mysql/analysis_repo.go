package mysql

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

// single statement: the driver runs without multiStatements
const schema = `
CREATE TABLE IF NOT EXISTS analyses (
  seq        BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  id         CHAR(36) NOT NULL,
  title      TEXT NOT NULL,
  text       LONGTEXT NOT NULL,
  topics     TEXT NOT NULL,
  sentiment  TEXT NOT NULL,
  keywords   TEXT NOT NULL,
  summary    TEXT NOT NULL,
  created_at DATETIME(6) NOT NULL,
  UNIQUE KEY uq_analyses_id (id),
  KEY idx_analyses_created_at (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`

func (r *AnalysisRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
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
VALUES (?,?,?,?,?,?,?,?);
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

// Search matches topic elements case-insensitively
func (r *AnalysisRepository) Search(ctx context.Context, topic string) ([]*domain.Analysis, error) {
	const q = `
SELECT ` + db.Columns + `, created_at
FROM analyses
WHERE LOWER(topics) LIKE ?
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
LIMIT ? OFFSET ?;
`
	list, err := r.query(ctx, q, pageSize, offset)
	if err != nil {
		return domain.PaginatedResult{}, err
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM analyses").Scan(&total); err != nil {
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
