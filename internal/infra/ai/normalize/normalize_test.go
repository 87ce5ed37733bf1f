package normalize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain JSON unchanged", `{"title":"x"}`, `{"title":"x"}`},
		{"json fenced block", "```json\n{\"title\":\"x\"}\n```", `{"title":"x"}`},
		{"plain fenced block", "```\n{\"title\":\"x\"}\n```", `{"title":"x"}`},
		{"word json in value survives", `{"title":"json tips"}`, `{"title":"json tips"}`},
		{"surrounding whitespace", "  {}  ", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.input))
		})
	}
}

func TestNormalize_StrictJSON(t *testing.T) {
	raw := "```json\n" + `{"title": "Heat", "topics": ["Climate Change", "Energy", "Policy"], "sentiment": "negative", "keywords": ["heat", "grid"], "summary": "It is hot."}` + "\n```"

	rec := Normalize(raw)

	assert.Equal(t, "Heat", rec.Title)
	assert.Equal(t, []string{"Climate Change", "Energy", "Policy"}, rec.Topics)
	assert.Equal(t, "negative", rec.Sentiment)
	assert.Equal(t, []string{"heat", "grid"}, rec.Keywords)
	require.NotNil(t, rec.Summary)
	assert.Equal(t, "It is hot.", *rec.Summary)
	assert.Equal(t, raw, rec.RawResponse)
}

func TestNormalize_StrictJSONMissingKeys(t *testing.T) {
	rec := Normalize(`{"title": "Only title"}`)

	assert.Equal(t, "Only title", rec.Title)
	assert.Equal(t, []string{}, rec.Topics)
	assert.Equal(t, []string{}, rec.Keywords)
	assert.Empty(t, rec.Sentiment)
	assert.Nil(t, rec.Summary, "absent summary must stay absent")
}

func TestNormalize_StrictJSONKeysAreCaseSensitive(t *testing.T) {
	rec := Normalize(`{"Title": "Upper", "Topics": ["x"], "Summary": "S"}`)

	assert.Empty(t, rec.Title)
	assert.Equal(t, []string{}, rec.Topics)
	assert.Nil(t, rec.Summary, "Summary is not summary")

	rec = Normalize(`{"summary": "lower", "SUMMARY": "upper"}`)

	require.NotNil(t, rec.Summary)
	assert.Equal(t, "lower", *rec.Summary)
}

func TestNormalize_Fallback(t *testing.T) {
	raw := `Sure! Here you go:
title: "Quarterly results"
topics: ["earnings", 'growth', outlook]
Sentiment = positive
keywords: [revenue, profit]
summary: "Revenue grew strongly"
`
	rec := Normalize(raw)

	assert.Equal(t, "Quarterly results", rec.Title)
	assert.Equal(t, []string{"earnings", "growth", "outlook"}, rec.Topics)
	assert.Equal(t, "positive", rec.Sentiment)
	assert.Equal(t, []string{"revenue", "profit"}, rec.Keywords)
	require.NotNil(t, rec.Summary)
	assert.Equal(t, "Revenue grew strongly", *rec.Summary)
	assert.Equal(t, raw, rec.RawResponse)
}

func TestNormalize_FallbackOnTruncatedJSON(t *testing.T) {
	rec := Normalize(`{"title": "Cut off", "topics": ["a", "b"], "sentiment": "neutral", "summary": "half`)

	assert.Equal(t, "Cut off", rec.Title)
	assert.Equal(t, []string{"a", "b"}, rec.Topics)
	assert.Equal(t, "neutral", rec.Sentiment)
	require.NotNil(t, rec.Summary)
	assert.Equal(t, "half", *rec.Summary)
}

func TestNormalize_FallbackWrongTypes(t *testing.T) {
	// valid JSON, but topics is not a list of strings
	rec := Normalize(`{"title": "T", "topics": "one", "sentiment": "neutral", "summary": "S"}`)

	assert.Equal(t, "T", rec.Title)
	assert.Equal(t, []string{}, rec.Topics)
	require.NotNil(t, rec.Summary)
	assert.Equal(t, "S", *rec.Summary)
}

func TestNormalize_FallbackSplitsQuotedCommas(t *testing.T) {
	rec := Normalize(`topics: ["war, peace", "love"]`)

	// known lossy case: the comma inside quotes splits the element
	assert.Equal(t, []string{"war", "peace", "love"}, rec.Topics)
}

func TestNormalize_NothingRecognised(t *testing.T) {
	rec := Normalize("I cannot help with that.")

	assert.Empty(t, rec.Title)
	assert.Equal(t, []string{}, rec.Topics)
	assert.Equal(t, []string{}, rec.Keywords)
	require.NotNil(t, rec.Summary)
	assert.Empty(t, *rec.Summary)
}

func TestDegraded(t *testing.T) {
	rec := Degraded(errors.New("401 unauthorized"))

	assert.Equal(t, "401 unauthorized", rec.RawResponse)
	assert.Empty(t, rec.Title)
	assert.Equal(t, []string{}, rec.Topics)
	require.NotNil(t, rec.Summary)
	assert.Empty(t, *rec.Summary)
}
