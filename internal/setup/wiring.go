package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/cache"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/config"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/llm"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/redis"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/router"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/secrets"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/usage"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Config struct {
	OpenAIKey       string
	OpenAIKeyParam  string
	OpenAIBaseURL   string
	OpenAITimeout   time.Duration
	AWSRegion       string
	BedrockEnabled  bool
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RedisMaxRetries int
	CacheEnabled    bool
	DatabaseURL     string
	LogLevel        string
}

type Dependencies struct {
	Router       *router.Router
	RouterConfig *config.RouterConfig
	Redis        *goredis.Client
	DB           *pgxpool.Pool
	Usage        *usage.Store
	Logger       *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIKeyParam:  getEnv("OPENAI_API_KEY_PARAM", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		OpenAITimeout:   getEnvDuration("OPENAI_TIMEOUT", 60*time.Second),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		BedrockEnabled:  getEnvBool("BEDROCK_ENABLED", true),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		RedisMaxRetries: getEnvInt("REDIS_MAX_RETRIES", 5),
		CacheEnabled:    getEnvBool("CACHE_ENABLED", true),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

// Wire builds the router from whatever is configured. Redis and Postgres
// are optional; a provider without credentials is skipped.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	routerConfig, err := config.LoadRouterConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load router config: %w", err)
	}

	providers, err := createProviders(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("no LLM provider configured: set OPENAI_API_KEY or enable Bedrock")
	}

	r := router.NewRouter(logger)
	policy := routerConfig.RetryPolicy()
	for _, p := range providers {
		r.Register(llm.WithRetry(p, policy, logger))
	}
	r.SetAliases(routerConfig.ModelList)

	deps := &Dependencies{
		Router:       r,
		RouterConfig: routerConfig,
		Logger:       logger,
	}

	if cfg.RedisAddr != "" {
		client, err := redis.ConnectRedis(ctx, redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.RedisMaxRetries)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		deps.Redis = client

		if cfg.CacheEnabled {
			r.UseCache(cache.NewRedisCompletionCache(client, cache.DefaultPrefix, routerConfig.Router.CacheTTL))
			logger.Info().Dur("ttl", routerConfig.Router.CacheTTL).Msg("response cache enabled")
		}
	}

	if cfg.DatabaseURL != "" {
		pool, err := usage.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.DB = pool

		store := usage.NewStore(pool)
		if err := store.Migrate(ctx); err != nil {
			deps.Close()
			return nil, err
		}
		deps.Usage = store
		r.UseRecorder(store)
		logger.Info().Msg("usage log enabled")
	}

	return deps, nil
}

func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("failed to close Redis client")
		}
		d.Redis = nil
	}
	if d.DB != nil {
		d.DB.Close()
		d.DB = nil
	}
}

func createProviders(ctx context.Context, cfg *Config, logger *zerolog.Logger) ([]llm.Provider, error) {
	var providers []llm.Provider

	apiKey, err := resolveOpenAIKey(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		client, err := gpt.NewClient(gpt.Config{
			APIKey:  apiKey,
			BaseURL: cfg.OpenAIBaseURL,
			Timeout: cfg.OpenAITimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		providers = append(providers, client)
	} else {
		logger.Warn().Msg("OPENAI_API_KEY not set, openai provider disabled")
	}

	if cfg.BedrockEnabled {
		client, err := bedrock.NewClient(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("failed to create Bedrock client: %w", err)
		}
		providers = append(providers, client)
	}

	return providers, nil
}

func resolveOpenAIKey(ctx context.Context, cfg *Config) (string, error) {
	if cfg.OpenAIKey != "" || cfg.OpenAIKeyParam == "" {
		return cfg.OpenAIKey, nil
	}

	store, err := secrets.NewParamStoreFromRegion(ctx, cfg.AWSRegion)
	if err != nil {
		return "", err
	}
	key, err := store.Resolve(ctx, cfg.OpenAIKey, cfg.OpenAIKeyParam)
	if err != nil {
		return "", fmt.Errorf("failed to resolve OpenAI key: %w", err)
	}
	return key, nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}
