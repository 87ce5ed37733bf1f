package analysis

import (
	"strings"
	"time"
)

// AnalysisID identifier type
type AnalysisID string

// Analysis is one stored LLM analysis of a submitted text.
// Rows are append-only: created once, never updated.
type Analysis struct {
	ID        AnalysisID `json:"id"`
	Title     string     `json:"title"`
	Text      string     `json:"text"`
	Topics    []string   `json:"topics"`
	Sentiment string     `json:"sentiment"`
	Keywords  []string   `json:"keywords"`
	Summary   *string    `json:"summary"`
	CreatedAt time.Time  `json:"created_at"`
}

// SummaryText returns the summary or "" when absent.
func (a *Analysis) SummaryText() string {
	if a == nil || a.Summary == nil {
		return ""
	}
	return *a.Summary
}

// HasTopic reports whether any topic contains term, ignoring case.
func (a *Analysis) HasTopic(term string) bool {
	term = strings.ToLower(term)
	for _, t := range a.Topics {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	return false
}

// Record is the canonical five-field structure produced from a raw
// provider completion. RawResponse keeps the completion for diagnostics.
type Record struct {
	Title       string   `json:"title"`
	Topics      []string `json:"topics"`
	Sentiment   string   `json:"sentiment"`
	Keywords    []string `json:"keywords"`
	Summary     *string  `json:"summary"`
	RawResponse string   `json:"raw_response"`
}

// StringPtr is a small helper for optional string fields.
func StringPtr(s string) *string { return &s }
