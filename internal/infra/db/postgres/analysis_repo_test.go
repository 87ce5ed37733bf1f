package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/textlens/internal/domain/analysis"
)

var columns = []string{"id", "title", "text", "topics", "sentiment", "keywords", "summary", "created_at"}

func newMockRepo(t *testing.T) (*AnalysisRepository, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		conn.Close()
	})
	return NewAnalysisRepository(conn), mock
}

func TestMigrate_RunsEachStatement(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS analyses")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX IF NOT EXISTS idx_analyses_created_at")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Migrate(context.Background()))
}

func TestCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("VALUES ($1,$2,$3,$4,$5,$6,$7,$8)")).
		WithArgs("0b6f8f1e-3a6e-4f55-9d2f-0c1c2b8b2a11", "T", "text", `["ai"]`, "neutral", `[]`, "", created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &domain.Analysis{
		ID:        "0b6f8f1e-3a6e-4f55-9d2f-0c1c2b8b2a11",
		Title:     "T",
		Text:      "text",
		Topics:    []string{"ai"},
		Sentiment: "neutral",
		Summary:   domain.StringPtr(""),
		CreatedAt: created,
	})
	require.NoError(t, err)
}

func TestCreate_PropagatesDriverError(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("connection reset")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO analyses")).WillReturnError(boom)

	err := repo.Create(context.Background(), &domain.Analysis{ID: "id", Summary: domain.StringPtr("s")})

	assert.ErrorIs(t, err, boom)
}

func TestSearch_EscapesWildcards(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(topics) LIKE $1")).
		WithArgs(`%50\% off%`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("a", "", "x", `["50% OFF sale"]`, "", `[]`, "", time.Now()))

	list, err := repo.Search(context.Background(), "50% OFF")

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"50% OFF sale"}, list[0].Topics)
}

func TestSearch_NoRowsIsEmptySlice(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM analyses")).
		WillReturnRows(sqlmock.NewRows(columns))

	list, err := repo.Search(context.Background(), "nothing")

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestPaginate_CapsPageSize(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1 OFFSET $2")).
		WithArgs(100, 0).
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM analyses")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	page, err := repo.Paginate(context.Background(), 0, 500)

	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 100, page.PageSize)
	assert.Equal(t, 0, page.TotalPages)
	assert.False(t, page.HasNext())
}
