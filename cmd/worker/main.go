package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/queue"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/setup"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/setup/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	cfg := setup.LoadConfig()
	log.Logger = logger.New(cfg.LogLevel)
	l := log.Logger

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}

	// run returns instead of exiting so its deferred closes always execute.
	if err := run(ctx, cfg, &l); err != nil {
		l.Error().Err(err).Msg("Completion worker failed")
		cancel()
		os.Exit(1)
	}

	l.Info().Msg("Completion worker stopped")
}

func run(ctx context.Context, cfg *setup.Config, l *zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	deps, err := setup.Wire(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("unable to load dependencies: %w", err)
	}
	defer deps.Close()

	streamCfg := queue.NewStreamConfig(
		os.Getenv("JOB_STREAM"),
		os.Getenv("RESULT_STREAM"),
		os.Getenv("CONSUMER_GROUP"),
		os.Getenv("HOSTNAME"),
	)
	consumer := queue.NewConsumer(deps.Redis, streamCfg, deps.Router, l)

	// Setup consumer
	if err := consumer.Setup(ctx); err != nil {
		return fmt.Errorf("failed to setup consumer: %w", err)
	}

	// Start consumer
	var consumerErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			consumerErr = err
			cancel()
		}
	}()

	<-ctx.Done()
	l.Info().Msg("Shutting down...")

	// Let the in-flight job publish and ack before Redis is closed.
	<-done

	return consumerErr
}
