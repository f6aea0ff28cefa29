package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisCompletionCache_RoundTrip(t *testing.T) {
	fake := newFakeRedis()
	cache := NewRedisCompletionCache(fake, "", 5*time.Minute)

	req := models.UserPrompt("openai/gpt-4o-mini", "Hello from litellm")

	if _, ok, err := cache.Get(context.Background(), req); ok || err != nil {
		t.Fatalf("Expected miss on empty cache, got ok=%v err=%v", ok, err)
	}

	resp := &models.CompletionResponse{
		ID:       "chatcmpl-1",
		Object:   models.ObjectChatCompletion,
		Model:    "gpt-4o-mini",
		Provider: "openai",
		Choices:  []models.Choice{{Message: models.Message{Role: models.RoleAssistant, Content: "Hi"}, FinishReason: "stop"}},
	}
	if err := cache.Set(context.Background(), req, resp); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	key, _ := cache.Key(req)
	if !strings.HasPrefix(key, DefaultPrefix) {
		t.Errorf("Expected key prefix %s, got %s", DefaultPrefix, key)
	}
	if fake.ttls[key] != 5*time.Minute {
		t.Errorf("Expected ttl 5m, got %s", fake.ttls[key])
	}

	got, ok, err := cache.Get(context.Background(), req)
	if err != nil || !ok {
		t.Fatalf("Expected hit, got ok=%v err=%v", ok, err)
	}
	if got.ID != "chatcmpl-1" || got.Content() != "Hi" {
		t.Errorf("Unexpected cached response: %+v", got)
	}
}

func TestRedisCompletionCache_KeyDependsOnRequest(t *testing.T) {
	cache := NewRedisCompletionCache(newFakeRedis(), "test:", time.Minute)

	a, _ := cache.Key(models.UserPrompt("openai/gpt-4o-mini", "hi"))
	b, _ := cache.Key(models.UserPrompt("openai/gpt-4o-mini", "hi"))
	c, _ := cache.Key(models.UserPrompt("openai/gpt-4o", "hi"))

	withTemp := models.UserPrompt("openai/gpt-4o-mini", "hi")
	withTemp.Temperature = models.Float(0.7)
	d, _ := cache.Key(withTemp)

	if a != b {
		t.Error("Expected identical requests to share a key")
	}
	if a == c || a == d {
		t.Error("Expected different model or temperature to change the key")
	}
}

func TestRedisCompletionCache_Errors(t *testing.T) {
	fake := newFakeRedis()
	fake.getErr = errors.New("connection refused")
	fake.setErr = errors.New("READONLY")

	cache := NewRedisCompletionCache(fake, "", time.Minute)
	req := models.UserPrompt("openai/gpt-4o-mini", "hi")

	if _, _, err := cache.Get(context.Background(), req); err == nil {
		t.Error("Expected get error")
	}
	if err := cache.Set(context.Background(), req, &models.CompletionResponse{}); err == nil {
		t.Error("Expected set error")
	}
}

func TestRedisCompletionCache_CorruptEntry(t *testing.T) {
	fake := newFakeRedis()
	cache := NewRedisCompletionCache(fake, "", time.Minute)

	req := models.UserPrompt("openai/gpt-4o-mini", "hi")
	key, _ := cache.Key(req)
	fake.data[key] = "{not json"

	if _, ok, err := cache.Get(context.Background(), req); err == nil || ok {
		t.Errorf("Expected decode error, got ok=%v err=%v", ok, err)
	}
}
