// Package normalize turns raw LLM completions into analysis records.
//
// Parsing is two-stage. The cleaned text is first decoded as a strict JSON
// object; when that fails for any reason a per-field regular expression
// extractor takes over. The fallback is lossy: a quoted list element that
// contains a comma is split in two, a value containing a quote or comma is
// cut short, and a key name appearing inside another key's value may be
// matched first. None of that is reported as an error.
package normalize

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/bryanwahyu/textlens/internal/domain/analysis"
)

var fenceRe = regexp.MustCompile("```(?:json)?")

var (
	titleRe     = fieldPattern("title")
	sentimentRe = fieldPattern("sentiment")
	summaryRe   = fieldPattern("summary")
	topicsRe    = listPattern("topics")
	keywordsRe  = listPattern("keywords")
)

// fieldPattern matches `key: "value"`, `"key" = value` and similar, capturing
// up to the next newline, double quote, comma or single quote.
func fieldPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)"?` + key + `"?\s*[:=]\s*["']?([^\n",']+)`)
}

// listPattern matches `key: [a, b, c]` and captures the bracket contents.
func listPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)"?` + key + `"?\s*[:=]\s*\[([^\]]+)\]`)
}

// StripFences removes markdown code fences and a json language tag.
func StripFences(raw string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
}

// Normalize converts a raw completion into a canonical record. Summary is
// left nil only when strict decoding succeeded and the object had no
// "summary" key.
func Normalize(raw string) analysis.Record {
	cleaned := StripFences(raw)
	if rec, ok := decodeStrict(cleaned); ok {
		rec.RawResponse = raw
		return rec
	}
	rec := Extract(cleaned)
	rec.RawResponse = raw
	return rec
}

// decodeStrict requires a JSON object and reads the five keys by their
// exact names; "Summary" is not "summary". A key that is present with the
// wrong type fails the decode like any other syntax error.
func decodeStrict(s string) (analysis.Record, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return analysis.Record{}, false
	}
	var (
		title, sentiment, summary *string
		topics, keywords          []string
	)
	for key, dst := range map[string]any{
		"title":     &title,
		"topics":    &topics,
		"sentiment": &sentiment,
		"keywords":  &keywords,
		"summary":   &summary,
	} {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return analysis.Record{}, false
		}
	}
	rec := analysis.Record{
		Topics:   nonNil(topics),
		Keywords: nonNil(keywords),
		Summary:  summary,
	}
	if title != nil {
		rec.Title = *title
	}
	if sentiment != nil {
		rec.Sentiment = *sentiment
	}
	return rec, true
}

// Extract is the best-effort fallback used when strict decoding fails.
// Every field is present in the result, empty when nothing matched.
func Extract(s string) analysis.Record {
	return analysis.Record{
		Title:     matchField(titleRe, s),
		Topics:    matchList(topicsRe, s),
		Sentiment: matchField(sentimentRe, s),
		Keywords:  matchList(keywordsRe, s),
		Summary:   analysis.StringPtr(matchField(summaryRe, s)),
	}
}

// Degraded is the empty record returned in place of a failed provider call.
func Degraded(err error) analysis.Record {
	return analysis.Record{
		Topics:      []string{},
		Keywords:    []string{},
		Summary:     analysis.StringPtr(""),
		RawResponse: err.Error(),
	}
}

func matchField(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func matchList(re *regexp.Regexp, s string) []string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return []string{}
	}
	parts := strings.Split(m[1], ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.Trim(p, ` "'`))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
