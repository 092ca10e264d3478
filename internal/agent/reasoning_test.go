package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompleteSendsChatRequest(t *testing.T) {
	var got chatRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  SAFE  "}},
			},
		})
	}))
	defer srv.Close()

	c := NewReasoningClient("test-key", srv.URL, "llama-3.3-70b")
	reply, err := c.Complete(context.Background(), "system text", "user text", CompletionOptions{Temperature: 0.1, MaxTokens: 150})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if reply != "SAFE" {
		t.Errorf("expected trimmed reply SAFE, got %q", reply)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected auth header: %q", gotAuth)
	}
	if got.Model != "llama-3.3-70b" {
		t.Errorf("unexpected model: %q", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Errorf("unexpected messages: %+v", got.Messages)
	}
	if got.MaxTokens != 150 {
		t.Errorf("unexpected max_tokens: %d", got.MaxTokens)
	}
}

func TestCompleteNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewReasoningClient("k", srv.URL, "m")
	if _, err := c.Complete(context.Background(), "s", "u", CompletionOptions{}); err == nil {
		t.Error("expected error on 429")
	}
}

func TestCompleteEmptyChoicesIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := NewReasoningClient("k", srv.URL, "m")
	if _, err := c.Complete(context.Background(), "s", "u", CompletionOptions{}); err == nil {
		t.Error("expected error on empty choices")
	}
}

func TestCompleteMalformedBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewReasoningClient("k", srv.URL, "m")
	if _, err := c.Complete(context.Background(), "s", "u", CompletionOptions{}); err == nil {
		t.Error("expected error on malformed body")
	}
}
