package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAI_AnalyzeImage_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}

		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload["model"] != "vision-model" {
			t.Errorf("unexpected model %v", payload["model"])
		}
		if payload["temperature"] != 0.5 || payload["top_p"] != 1.0 {
			t.Errorf("unexpected sampling %v %v", payload["temperature"], payload["top_p"])
		}
		if !strings.Contains(string(body), "data:image/png;base64,") {
			t.Error("expected image data url in request")
		}
		if !strings.Contains(string(body), "Window Title: main.go - Editor") {
			t.Error("expected user message in request")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 0,
			"model": "vision-model",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Refactor the loop."}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer server.Close()

	c := NewOpenAI(Config{APIKey: "sk-test", BaseURL: server.URL + "/v1/", Model: "vision-model"}, nil)
	resp := c.AnalyzeImage(context.Background(), testRequest())

	if !resp.Success {
		t.Fatalf("expected success, got %+v", resp)
	}
	if resp.SuggestionText != "Refactor the loop." {
		t.Errorf("unexpected suggestion %q", resp.SuggestionText)
	}
	if resp.TokenUsage != 15 {
		t.Errorf("expected 15 tokens, got %d", resp.TokenUsage)
	}
}

func TestOpenAI_AnalyzeImage_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"bad image","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	c := NewOpenAI(Config{APIKey: "sk-test", BaseURL: server.URL + "/v1/"}, nil)
	resp := c.AnalyzeImage(context.Background(), testRequest())

	if resp.Success {
		t.Fatal("expected failure")
	}
	if !strings.HasPrefix(resp.ErrorMessage, "OpenAI error:") {
		t.Errorf("unexpected message %q", resp.ErrorMessage)
	}
}

func TestOpenAI_AnalyzeImage_NoImage(t *testing.T) {
	c := NewOpenAI(Config{APIKey: "sk-test"}, nil)
	req := testRequest()
	req.ImageData = nil
	if resp := c.AnalyzeImage(context.Background(), req); resp.Success {
		t.Error("expected failure without image data")
	}
}
