// ABOUTME: Language-model provider abstraction for insight generation.
// ABOUTME: One request in, one text response out; no retries at this layer.
package insights

import (
	"context"
	"strings"
)

// Provider names accepted by NewCompleter.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Default models per provider.
const (
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
	DefaultGeminiModel    = "gemini-1.5-flash"
)

// Request is a single chat-style completion request.
type Request struct {
	System    string
	Prompt    string
	MaxTokens int
}

// Completer sends one request to a language model and returns its text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// ProviderConfig selects and configures a Completer.
type ProviderConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string // optional endpoint override, used by tests
}

// NewCompleter builds the configured provider. It returns nil when no usable
// API key is configured, which the Service treats as "insights unavailable".
func NewCompleter(cfg ProviderConfig) Completer {
	if IsPlaceholderKey(cfg.APIKey) {
		return nil
	}
	switch strings.ToLower(cfg.Provider) {
	case ProviderGemini:
		model := cfg.Model
		if model == "" {
			model = DefaultGeminiModel
		}
		return &GeminiCompleter{apiKey: cfg.APIKey, model: model}
	default:
		model := cfg.Model
		if model == "" {
			model = DefaultAnthropicModel
		}
		return &AnthropicCompleter{apiKey: cfg.APIKey, model: model, baseURL: cfg.BaseURL}
	}
}

// IsPlaceholderKey reports whether key is empty or a template value such
// as "your-anthropic-api-key-here".
func IsPlaceholderKey(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return true
	}
	return strings.HasPrefix(key, "your-") && strings.HasSuffix(key, "-here")
}
