package ai

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrMalformedResponse means the provider answered 2xx but the completion
// text could not be found in the payload.
var ErrMalformedResponse = errors.New("ai response missing completion text")

// ErrUnknownEngine is returned for engine identifiers nobody registered.
var ErrUnknownEngine = errors.New("unknown ai engine")

// ProviderError carries a non-2xx upstream answer.
type ProviderError struct {
	Engine     Engine
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Engine, e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrQuotaExceeded) match 429 answers.
func (e *ProviderError) Is(target error) bool {
	return target == ErrQuotaExceeded && e.StatusCode == http.StatusTooManyRequests
}
