package aigateway

import (
	"context"
	"testing"

	"github.com/vardkurs/coursegen-backend/internal/apperrors"
	"github.com/vardkurs/coursegen-backend/internal/logger"
)

func TestGenerateText_CancelledContextIsTransportError(t *testing.T) {
	t.Setenv("AI_GATEWAY_API_KEY", "test-key")
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	c, err := NewClient(log)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.GenerateText(ctx, "system", "user", Options{})
	if !apperrors.IsTransport(err) {
		t.Fatalf("cancelled context should surface as a transport error, got %v", err)
	}
}

func TestExtractJSON_Bare(t *testing.T) {
	obj, err := ExtractJSON(`{"title": "Kurs"}`)
	if err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if obj["title"] != "Kurs" {
		t.Fatalf("got %v", obj)
	}
}

func TestExtractJSON_MarkdownFence(t *testing.T) {
	content := "Here you go:\n```json\n{\"modules\": []}\n```\nHope that helps."
	obj, err := ExtractJSON(content)
	if err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if _, ok := obj["modules"]; !ok {
		t.Fatalf("fenced payload not extracted: %v", obj)
	}
}

func TestExtractJSON_FenceWithoutLanguage(t *testing.T) {
	content := "```\n{\"ok\": true}\n```"
	obj, err := ExtractJSON(content)
	if err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if obj["ok"] != true {
		t.Fatalf("got %v", obj)
	}
}

func TestExtractJSON_BraceScanFallback(t *testing.T) {
	content := `The answer is {"n": 1} as requested.`
	obj, err := ExtractJSON(content)
	if err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if obj["n"] != float64(1) {
		t.Fatalf("got %v", obj)
	}
}

func TestExtractJSON_NoObject(t *testing.T) {
	if _, err := ExtractJSON("sorry, I cannot help with that"); err == nil {
		t.Fatalf("prose without JSON should fail")
	}
}
