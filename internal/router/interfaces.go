package router

import (
	"context"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_router.go -package=mocks

// Completer is what the transports (CLI, HTTP, MCP, queue) need from the router.
type Completer interface {
	Completion(ctx context.Context, request models.CompletionRequest) (*models.CompletionResponse, error)
	Models() []models.ModelInfo
}

// Cache stores responses keyed by the resolved request.
type Cache interface {
	Get(ctx context.Context, request models.CompletionRequest) (*models.CompletionResponse, bool, error)
	Set(ctx context.Context, request models.CompletionRequest, response *models.CompletionResponse) error
}

// Recorder persists one usage row per completion.
type Recorder interface {
	Record(ctx context.Context, record models.UsageRecord) error
}
