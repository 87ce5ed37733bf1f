package ai

import (
	"context"
	"strings"
)

// Engine names an external LLM provider.
type Engine string

const (
	EngineGemini    Engine = "gemini"
	EngineOpenAI    Engine = "openai"
	EngineAnthropic Engine = "anthropic"

	DefaultEngine = EngineGemini
)

// ParseEngine lower-cases the identifier; blank means DefaultEngine.
func ParseEngine(s string) Engine {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultEngine
	}
	return Engine(s)
}

// DisplayName upper-cases the first letter only: "gemini" -> "Gemini",
// "openai" -> "Openai".
func (e Engine) DisplayName() string {
	s := strings.ToLower(string(e))
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// FailurePolicy decides what happens when a provider call fails.
type FailurePolicy string

const (
	// PolicyPropagate returns the provider error to the caller.
	PolicyPropagate FailurePolicy = "propagate"
	// PolicyDegrade swallows the error and yields an empty record whose
	// raw response is the error text. The empty record is persisted.
	PolicyDegrade FailurePolicy = "degrade"
)

// ParseFailurePolicy falls back to def for unknown values.
func ParseFailurePolicy(s string, def FailurePolicy) FailurePolicy {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyPropagate:
		return PolicyPropagate
	case PolicyDegrade:
		return PolicyDegrade
	}
	return def
}

// Client sends one prompt and returns the raw completion text.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
