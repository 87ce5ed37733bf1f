package analysis

import "context"

// Repository port for persisting and querying analyses
type Repository interface {
	Migrate(ctx context.Context) error
	Create(ctx context.Context, a *Analysis) error
	ListAll(ctx context.Context) ([]*Analysis, error)
	Search(ctx context.Context, topic string) ([]*Analysis, error)
	Paginate(ctx context.Context, page, pageSize int) (PaginatedResult, error)
}

// RawArchive keeps raw provider completions outside the database.
type RawArchive interface {
	Archive(ctx context.Context, id AnalysisID, raw string) (string, error)
}

// KeywordExtractor derives keywords from the submitted text itself.
type KeywordExtractor interface {
	Extract(text string) ([]string, error)
}
