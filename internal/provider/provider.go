// Package provider defines the unified interface for all LLM providers.
// Each adapter (anthropic.go, openai.go) turns a single prompt into a
// single free-text completion; the move orchestration layers above never
// see vendor SDK types.
package provider

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissingCredential is returned by New before any network call when no
// API key is configured for the requested provider.
var ErrMissingCredential = errors.New("missing API credential")

// Error wraps a transport or API failure from a provider. Callers surface
// it rather than retrying: a failing credential or endpoint will not get
// better on the next move attempt.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client is a stateless completion client for one provider/credential pair.
type Client interface {
	// Complete sends a prompt and returns the model's text response.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name returns the provider identifier, e.g. "anthropic", "gemini".
	Name() string
}

// openAICompatBaseURLs maps OpenAI-compatible provider names to their base
// URLs. Gemini is reached through Google's OpenAI-compatible endpoint.
var openAICompatBaseURLs = map[string]string{
	"openai":   "https://api.openai.com/v1",
	"gemini":   "https://generativelanguage.googleapis.com/v1beta/openai/",
	"deepseek": "https://api.deepseek.com",
	"groq":     "https://api.groq.com/openai/v1",
}

// defaultModels maps provider names to the model used when none is
// configured.
var defaultModels = map[string]string{
	"anthropic": "claude-sonnet-4-20250514",
	"openai":    "gpt-4o-mini",
	"gemini":    "gemini-2.0-flash",
	"deepseek":  "deepseek-chat",
	"groq":      "llama-3.3-70b-versatile",
}

// New builds a Client for the named provider. The credential is checked
// here so configuration errors surface before any network call.
func New(name, credential, model string) (Client, error) {
	if credential == "" {
		return nil, fmt.Errorf("provider %s: %w", name, ErrMissingCredential)
	}
	if model == "" {
		model = defaultModels[name]
	}

	switch name {
	case "anthropic":
		return newAnthropicClient(credential, model), nil
	default:
		baseURL, ok := openAICompatBaseURLs[name]
		if !ok {
			return nil, fmt.Errorf("unknown provider %q", name)
		}
		return newOpenAIClient(name, credential, baseURL, model), nil
	}
}

// Known reports whether name is a supported provider.
func Known(name string) bool {
	if name == "anthropic" {
		return true
	}
	_, ok := openAICompatBaseURLs[name]
	return ok
}
