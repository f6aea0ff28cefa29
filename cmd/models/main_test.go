package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
)

func TestPrintModels(t *testing.T) {
	var buf bytes.Buffer
	printModels(&buf, []models.ModelInfo{
		{ID: "gpt-mini", OwnedBy: "openai", Target: "openai/gpt-4o-mini", Available: true},
		{ID: "bedrock/*", OwnedBy: "bedrock", Available: true},
	})

	want := `Available models:
- gpt-mini
  Target: openai/gpt-4o-mini
  Provider: openai (configured: true)
  Supported methods: chat.completions
- bedrock/*
  Provider: bedrock (configured: true)
  Supported methods: chat.completions
`
	if buf.String() != want {
		t.Errorf("Unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	printUsage(&buf, []models.UsageRecord{
		{Provider: "openai", Model: "gpt-4o-mini", TotalTokens: 18, Latency: 1500 * time.Millisecond, CreatedAt: created, Cached: true},
	})

	out := buf.String()
	if !strings.Contains(out, "- 2026-01-02T03:04:05Z openai/gpt-4o-mini tokens=18 latency=1.5s cached") {
		t.Errorf("Unexpected output: %q", out)
	}
}
