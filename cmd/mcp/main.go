package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/api"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/mcpadapter"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/setup"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/setup/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load env
	_ = godotenv.Load()

	cfg := setup.LoadConfig()
	log.Logger = logger.New(cfg.LogLevel)
	l := log.Logger

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := setup.Wire(ctx, cfg, &l)
	if err != nil {
		l.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}
	defer deps.Close()

	defaultModel := os.Getenv("DEFAULT_MODEL")
	if defaultModel == "" {
		defaultModel = "openai/gpt-4o-mini"
	}

	server := mcpadapter.NewServer(deps.Router, defaultModel, api.Version)

	// Run over stdio
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// EOF / "server is closing" is expected when stdin closes
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			l.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		l.Error().Err(err).Msg("Failed to run mcp server")
		deps.Close()
		os.Exit(1)
	}
}
