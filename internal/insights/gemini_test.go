// ABOUTME: Tests for the Gemini completer.
// ABOUTME: Runs without network access by cancelling the request context.
package insights

import (
	"context"
	"testing"
)

func TestGeminiCompleterHonorsCanceledContext(t *testing.T) {
	c := &GeminiCompleter{apiKey: "test-key", model: "gemini-1.5-flash"}
	if c.Name() != ProviderGemini {
		t.Errorf("Name = %q, want %q", c.Name(), ProviderGemini)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Complete(ctx, Request{System: "sys", Prompt: "hi", MaxTokens: 64}); err == nil {
		t.Error("expected an error for a canceled context")
	}
}
