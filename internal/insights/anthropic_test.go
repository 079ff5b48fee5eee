// ABOUTME: Tests the Anthropic completer against a local HTTP server.
// ABOUTME: Checks the request sent and that failures are not retried.
package insights

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAnthropicCompleter(t *testing.T) {
	var gotBody map[string]any
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			http.NotFound(w, r)
			return
		}
		gotKey = r.Header.Get("X-Api-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_test",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"content": [{"type": "text", "text": "{\"overall_health\": \"ok\"}"}],
			"stop_reason": "end_turn",
			"stop_sequence": null,
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer srv.Close()

	c := NewCompleter(ProviderConfig{APIKey: "test-key", Model: "claude-test", BaseURL: srv.URL})
	text, err := c.Complete(context.Background(), Request{System: "sys", Prompt: "hello", MaxTokens: 100})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != `{"overall_health": "ok"}` {
		t.Errorf("text = %q", text)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if gotBody["model"] != "claude-test" || gotBody["max_tokens"] != float64(100) {
		t.Errorf("request body = %v", gotBody)
	}
}

func TestAnthropicCompleterDoesNotRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "api_error", "message": "boom"}}`))
	}))
	defer srv.Close()

	c := NewCompleter(ProviderConfig{APIKey: "test-key", BaseURL: srv.URL})
	if _, err := c.Complete(context.Background(), Request{Prompt: "hi", MaxTokens: 10}); err == nil {
		t.Fatal("expected error from 500 response")
	}
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}
