package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/api"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/router"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/setup"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/setup/logger"
	"github.com/rs/cors"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	port := os.Getenv("PROXY_PORT")
	if port == "" {
		port = "4000"
	}

	// run returns instead of exiting so its deferred closes always execute.
	if err := run(ctx, cfg, fmt.Sprintf(":%s", port), &l); err != nil {
		l.Error().Err(err).Msg("LLM gateway proxy failed")
		stop()
		os.Exit(1)
	}

	l.Info().Msg("LLM gateway proxy stopped")
}

func run(ctx context.Context, cfg *setup.Config, addr string, l *zerolog.Logger) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	deps, err := setup.Wire(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("unable to load dependencies: %w", err)
	}
	defer deps.Close()

	server := http.Server{
		Addr:         addr,
		Handler:      newHandler(deps.Router, l),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	var serveErr error
	go func() {
		l.Info().Str("address", addr).Str("openapi", api.OpenAPIPath).Msg("Starting LLM gateway proxy")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
			stop()
		}
	}()

	<-ctx.Done()
	l.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("Graceful shutdown failed")
	}

	return serveErr
}

func newHandler(completer router.Completer, l *zerolog.Logger) http.Handler {
	// API
	handler := api.NewHandler(completer, l)
	container := restful.NewContainer()
	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)
	api.RegisterRoutes(container, handler)
	api.RegisterOpenAPI(container)

	// CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	return corsHandler.Handler(container)
}
