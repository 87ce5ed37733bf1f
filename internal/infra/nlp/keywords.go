package nlp

import (
	"sort"
	"strings"

	"github.com/jdkato/prose/v2"
	"github.com/rotisserie/eris"
)

// DefaultLimit is how many keywords Extract returns at most.
const DefaultLimit = 3

// commonNounTags are the Penn Treebank tags for singular and plural common
// nouns. Proper nouns (NNP, NNPS) are not keywords.
var commonNounTags = map[string]bool{
	"NN":  true,
	"NNS": true,
}

// Extractor picks the most frequent common nouns of a text.
type Extractor struct {
	Limit int
}

// NewExtractor returns an Extractor with DefaultLimit.
func NewExtractor() *Extractor {
	return &Extractor{Limit: DefaultLimit}
}

// Extract tags the text and returns its most frequent lower-cased common
// nouns, most frequent first. Ties keep first-occurrence order.
func (e *Extractor) Extract(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, eris.Wrap(err, "keyword extraction: tag text")
	}
	limit := e.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	return topNouns(doc.Tokens(), limit), nil
}

func topNouns(tokens []prose.Token, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, tok := range tokens {
		if !commonNounTags[tok.Tag] {
			continue
		}
		w := strings.ToLower(tok.Text)
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	if order == nil {
		return []string{}
	}
	return order
}
