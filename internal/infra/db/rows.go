// Package db holds helpers shared by the SQL analysis repositories.
package db

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	domain "github.com/bryanwahyu/textlens/internal/domain/analysis"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// EncodeList stores a string list as a JSON array. HTML escaping is off so
// LIKE filters see the characters users type.
func EncodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(list); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// DecodeList reverses EncodeList. Blank columns decode to an empty list.
func DecodeList(s string) ([]string, error) {
	out := []string{}
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// EscapeLike escapes LIKE special characters using backslash.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}

// ContainsPattern is the LIKE pattern for a lower-cased substring search.
func ContainsPattern(term string) string {
	return "%" + EscapeLike(strings.ToLower(term)) + "%"
}

// FilterTopic keeps analyses with a topic element containing term. The SQL
// LIKE runs on the whole JSON text, so it can match across elements or on
// escaped characters; this is the exact check.
func FilterTopic(list []*domain.Analysis, term string) []*domain.Analysis {
	out := make([]*domain.Analysis, 0, len(list))
	for _, a := range list {
		if a.HasTopic(term) {
			out = append(out, a)
		}
	}
	return out
}

// NormalizePage applies the defaults and the page size cap.
func NormalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func TotalPages(total int64, pageSize int) int {
	return int(math.Ceil(float64(total) / float64(pageSize)))
}

// Columns is the select list every repository scans with ScanAnalysis.
const Columns = "id, title, text, topics, sentiment, keywords, summary"

type RowScanner interface {
	Scan(dest ...any) error
}

// ScanAnalysis reads Columns followed by created_at into a.
func ScanAnalysis(row RowScanner, createdAt any) (*domain.Analysis, error) {
	var (
		a                      domain.Analysis
		topics, keywords, summ string
	)
	if err := row.Scan(&a.ID, &a.Title, &a.Text, &topics, &a.Sentiment, &keywords, &summ, createdAt); err != nil {
		return nil, err
	}
	var err error
	if a.Topics, err = DecodeList(topics); err != nil {
		return nil, err
	}
	if a.Keywords, err = DecodeList(keywords); err != nil {
		return nil, err
	}
	a.Summary = &summ
	return &a, nil
}
