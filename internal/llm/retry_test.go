package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/llm/mocks"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func newTestRetrying(p Provider, maxRetries int) *retryingProvider {
	r := WithRetry(p, RetryPolicy{
		MaxRetries:   maxRetries,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}, testLogger()).(*retryingProvider)
	r.sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	return r
}

func TestWithRetry_SucceedsAfterTransientError(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockProvider := mocks.NewMockProvider(ctrl)
	mockProvider.EXPECT().Name().Return("openai").AnyTimes()

	req := models.UserPrompt("gpt-4o-mini", "hi")
	want := &models.CompletionResponse{ID: "chatcmpl-1"}

	gomock.InOrder(
		mockProvider.EXPECT().Complete(gomock.Any(), req).Return(nil, NewAPIError("openai", 429, "rate limited", nil)),
		mockProvider.EXPECT().Complete(gomock.Any(), req).Return(nil, NewAPIError("openai", 503, "unavailable", nil)),
		mockProvider.EXPECT().Complete(gomock.Any(), req).Return(want, nil),
	)

	got, err := newTestRetrying(mockProvider, 3).Complete(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if got.ID != want.ID {
		t.Errorf("Expected id %s, got %s", want.ID, got.ID)
	}
}

func TestWithRetry_StopsOnNonRetryableError(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockProvider := mocks.NewMockProvider(ctrl)
	mockProvider.EXPECT().Name().Return("openai").AnyTimes()

	authErr := NewAPIError("openai", 401, "invalid api key", nil)
	mockProvider.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(nil, authErr).Times(1)

	_, err := newTestRetrying(mockProvider, 3).Complete(context.Background(), models.UserPrompt("gpt-4o-mini", "hi"))
	if !errors.Is(err, authErr) {
		t.Fatalf("Expected auth error to be returned unchanged, got %v", err)
	}
}

func TestWithRetry_ExhaustsRetries(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockProvider := mocks.NewMockProvider(ctrl)
	mockProvider.EXPECT().Name().Return("bedrock").AnyTimes()
	mockProvider.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(nil, NewRetryableError("bedrock", "ThrottlingException", nil)).
		Times(3)

	_, err := newTestRetrying(mockProvider, 2).Complete(context.Background(), models.UserPrompt("claude", "hi"))
	if err == nil {
		t.Fatal("Expected error after exhausting retries")
	}
	if !strings.Contains(err.Error(), "max retries 2 exceeded") {
		t.Errorf("Expected 'max retries 2 exceeded', got %v", err)
	}
}

func TestWithRetry_ContextCancelledDuringBackoff(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockProvider := mocks.NewMockProvider(ctrl)
	mockProvider.EXPECT().Name().Return("openai").AnyTimes()
	mockProvider.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(nil, NewAPIError("openai", 500, "boom", nil)).
		Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestRetrying(mockProvider, 3).Complete(ctx, models.UserPrompt("gpt-4o-mini", "hi"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

func TestWithRetry_ZeroRetriesReturnsProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockProvider := mocks.NewMockProvider(ctrl)

	if got := WithRetry(mockProvider, RetryPolicy{}, testLogger()); got != Provider(mockProvider) {
		t.Error("Expected the provider to be returned unwrapped")
	}
}

func TestCalculateBackoff(t *testing.T) {
	initial := 100 * time.Millisecond
	maxDelay := time.Second

	for attempt := 0; attempt < 6; attempt++ {
		d := calculateBackoff(attempt, initial, maxDelay)
		upper := time.Duration(float64(maxDelay) * 1.2)
		if d <= 0 || d > upper {
			t.Errorf("attempt %d: backoff %v out of range (0, %v]", attempt, d, upper)
		}
	}

	first := calculateBackoff(0, initial, maxDelay)
	if first < 80*time.Millisecond || first > 120*time.Millisecond {
		t.Errorf("Expected first backoff within 20%% of %v, got %v", initial, first)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit", NewAPIError("openai", 429, "slow down", nil), true},
		{"server error", NewAPIError("openai", 502, "bad gateway", nil), true},
		{"bad request", NewAPIError("openai", 400, "bad", nil), false},
		{"throttling", NewRetryableError("bedrock", "ThrottlingException", nil), true},
		{"wrapped invalid model", errors.Join(ErrInvalidModel), false},
		{"connection reset", errors.New("read tcp: connection reset by peer"), true},
		{"plain", errors.New("something else"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
