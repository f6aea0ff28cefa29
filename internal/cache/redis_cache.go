package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
	"github.com/redis/go-redis/v9"
)

const DefaultPrefix = "completion_cache:"

// redisKV is the subset of *redis.Client the cache uses.
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type RedisCompletionCache struct {
	client redisKV
	prefix string
	ttl    time.Duration
}

func NewRedisCompletionCache(client redisKV, prefix string, ttl time.Duration) *RedisCompletionCache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisCompletionCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Key hashes the resolved request; two requests share an entry only when
// model, messages and sampling parameters are identical.
func (c *RedisCompletionCache) Key(request models.CompletionRequest) (string, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key: %w", err)
	}
	sum := sha256.Sum256(payload)
	return c.prefix + hex.EncodeToString(sum[:]), nil
}

func (c *RedisCompletionCache) Get(ctx context.Context, request models.CompletionRequest) (*models.CompletionResponse, bool, error) {
	key, err := c.Key(request)
	if err != nil {
		return nil, false, err
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}

	var response models.CompletionResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached response: %w", err)
	}

	return &response, true, nil
}

func (c *RedisCompletionCache) Set(ctx context.Context, request models.CompletionRequest, response *models.CompletionResponse) error {
	key, err := c.Key(request)
	if err != nil {
		return err
	}

	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
