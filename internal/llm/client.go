package llm

import (
	"context"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
)

//go:generate mockgen -source=client.go -destination=mocks/mock_provider.go -package=mocks

// Provider is a single upstream LLM backend.
// This allows mocking in tests without making real API calls
type Provider interface {
	Name() string
	Complete(ctx context.Context, request models.CompletionRequest) (*models.CompletionResponse, error)
}
