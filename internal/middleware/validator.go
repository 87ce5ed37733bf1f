package middleware

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bryanwahyu/textlens/internal/domain/ai"
)

var engineName = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,31}$`)

// ValidateEngine parses an engine query value and checks it against the
// registered engines. Blank means the default engine.
func ValidateEngine(raw string, supported func(ai.Engine) bool) (ai.Engine, error) {
	engine := ai.ParseEngine(raw)
	if !engineName.MatchString(string(engine)) {
		return "", fmt.Errorf("%w: invalid engine name", ai.ErrUnknownEngine)
	}
	if supported != nil && !supported(engine) {
		return "", fmt.Errorf("%w: %s", ai.ErrUnknownEngine, engine)
	}
	return engine, nil
}

// SanitizeString drops NUL bytes, which Postgres rejects in text columns,
// and trims surrounding whitespace. Everything else is kept as submitted.
func SanitizeString(input string) string {
	return strings.TrimSpace(strings.ReplaceAll(input, "\x00", ""))
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidatePage parses a 1-based page number; anything unusable is page 1.
func ValidatePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page <= 0 {
		return 1
	}
	return page
}
