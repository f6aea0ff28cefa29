package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
)

func (s *Store) Record(ctx context.Context, record models.UsageRecord) error {
	query := `
	INSERT INTO completion_log
	  (id, provider, model, prompt_tokens, completion_tokens, total_tokens, latency_ms, cached, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.pool.Exec(ctx, query,
		record.ID,
		record.Provider,
		record.Model,
		record.PromptTokens,
		record.CompletionTokens,
		record.TotalTokens,
		record.Latency.Milliseconds(),
		record.Cached,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record usage for %s: %w", record.ID, err)
	}

	return nil
}

// Recent returns the newest records first.
func (s *Store) Recent(ctx context.Context, limit int) ([]models.UsageRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
	SELECT id, provider, model, prompt_tokens, completion_tokens, total_tokens, latency_ms, cached, created_at
	FROM completion_log
	ORDER BY created_at DESC
	LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("unable to query completion_log: %w", err)
	}
	defer rows.Close()

	var records []models.UsageRecord
	for rows.Next() {
		var (
			record    models.UsageRecord
			latencyMs int64
		)

		if err := rows.Scan(
			&record.ID,
			&record.Provider,
			&record.Model,
			&record.PromptTokens,
			&record.CompletionTokens,
			&record.TotalTokens,
			&latencyMs,
			&record.Cached,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}

		record.Latency = time.Duration(latencyMs) * time.Millisecond
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
