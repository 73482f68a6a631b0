package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{APIKey: "test-key"})

	if client.baseURL != "https://api.openai.com/v1" {
		t.Errorf("default baseURL = %q, want %q", client.baseURL, "https://api.openai.com/v1")
	}
	if client.model != "gpt-4" {
		t.Errorf("default model = %q, want %q", client.model, "gpt-4")
	}
}

func TestHTTPClient_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing or wrong Authorization header")
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Fatalf("messages = %d, want 2", len(req.Messages))
		}
		if req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected roles %q/%q", req.Messages[0].Role, req.Messages[1].Role)
		}
		if req.Messages[1].Content != "how are campaigns doing?" {
			t.Errorf("user content = %q", req.Messages[1].Content)
		}

		w.Write([]byte(`{"choices":[{"message":{"content":"campaigns look healthy"}}]}`))
	}))
	defer server.Close()

	client := &HTTPClient{
		apiKey:     "test-key",
		baseURL:    server.URL,
		model:      "gpt-4",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}

	answer, err := client.Complete(context.Background(), "you are an assistant", "how are campaigns doing?")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if answer != "campaigns look healthy" {
		t.Errorf("answer = %q", answer)
	}
}

func TestHTTPClient_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer server.Close()

	client := &HTTPClient{
		apiKey:     "wrong",
		baseURL:    server.URL,
		model:      "gpt-4",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}

	_, err := client.Complete(context.Background(), "sys", "user")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestHTTPClient_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := &HTTPClient{
		apiKey:     "test-key",
		baseURL:    server.URL,
		model:      "gpt-4",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}

	_, err := client.Complete(context.Background(), "sys", "user")
	if err == nil || !strings.Contains(err.Error(), "no completion choices") {
		t.Fatalf("expected no-choices error, got %v", err)
	}
}
