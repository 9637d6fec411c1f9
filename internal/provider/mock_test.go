package provider

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestMock_AnalyzeImage(t *testing.T) {
	m := NewMock(time.Millisecond)
	resp := m.AnalyzeImage(context.Background(), testRequest())

	if !resp.Success {
		t.Fatalf("expected success, got %+v", resp)
	}
	if resp.TokenUsage != 42 {
		t.Errorf("expected 42 tokens, got %d", resp.TokenUsage)
	}
	if !strings.Contains(resp.SuggestionText, "### Analysis of 'main.go - Editor'") {
		t.Errorf("unexpected suggestion %q", resp.SuggestionText)
	}
}

func TestMock_Cancelled(t *testing.T) {
	m := NewMock(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	resp := m.AnalyzeImage(ctx, testRequest())
	if time.Since(start) > time.Second {
		t.Error("cancelled analysis should return promptly")
	}
	if resp.Success {
		t.Error("expected failure on cancellation")
	}
	if resp.ErrorMessage != "Analysis was cancelled." {
		t.Errorf("unexpected message %q", resp.ErrorMessage)
	}
}

func TestNewMock_DefaultDelay(t *testing.T) {
	if m := NewMock(0); m.delay != defaultMockDelay {
		t.Errorf("expected default delay, got %v", m.delay)
	}
}
