package llm

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
	"github.com/rs/zerolog"
)

type RetryPolicy struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:   3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     10 * time.Second,
	}
}

type retryingProvider struct {
	Provider
	policy RetryPolicy
	logger *zerolog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps p so transient failures are retried with jittered
// exponential backoff. MaxRetries counts retries after the first attempt.
func WithRetry(p Provider, policy RetryPolicy, logger *zerolog.Logger) Provider {
	if policy.MaxRetries <= 0 {
		return p
	}
	return &retryingProvider{
		Provider: p,
		policy:   policy,
		logger:   logger,
		sleep:    sleepContext,
	}
}

func (r *retryingProvider) Complete(ctx context.Context, request models.CompletionRequest) (*models.CompletionResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= r.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := calculateBackoff(attempt-1, r.policy.InitialDelay, r.policy.MaxDelay)
			r.logger.Warn().
				Err(lastErr).
				Str("provider", r.Name()).
				Int("attempt", attempt).
				Dur("backoff", delay).
				Msg("retrying completion")

			if err := r.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		response, err := r.Provider.Complete(ctx, request)
		if err == nil {
			return response, nil
		}

		lastErr = err

		if !IsRetryable(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries %d exceeded: %w", r.policy.MaxRetries, lastErr)
}

func calculateBackoff(attempt int, initialDelay, maxDelay time.Duration) time.Duration {
	backoff := float64(initialDelay) * math.Pow(2, float64(attempt))

	if backoff > float64(maxDelay) {
		backoff = float64(maxDelay)
	}

	jitter := backoff * 0.2 * (2*rand.Float64() - 1) // Random value between -20% and +20%
	backoff += jitter

	return time.Duration(backoff)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
