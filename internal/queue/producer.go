package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
	"github.com/redis/go-redis/v9"
)

type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// Publish validates request, wraps it in a job and appends it to stream.
// It returns the job id and the stream entry id.
func Publish(ctx context.Context, client streamAdder, stream string, request models.CompletionRequest) (string, string, error) {
	if err := request.Validate(); err != nil {
		return "", "", fmt.Errorf("invalid request: %w", err)
	}

	job := models.CompletionJob{
		JobID:      uuid.NewString(),
		Request:    request,
		EnqueuedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return "", "", err
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"payload": string(data)},
	}).Result()
	if err != nil {
		return "", "", fmt.Errorf("failed to publish job: %w", err)
	}

	return job.JobID, id, nil
}
