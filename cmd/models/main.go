package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/setup"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/setup/logger"
	"github.com/rs/zerolog/log"
)

const supportedMethods = "chat.completions"

func main() {
	recent := flag.Int("usage", 0, "Also print the N most recent usage rows (requires DATABASE_URL)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := setup.LoadConfig()
	log.Logger = logger.New(cfg.LogLevel)
	l := log.Logger

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deps, err := setup.Wire(ctx, cfg, &l)
	if err != nil {
		l.Error().Err(err).Msg("Error listing models")
		os.Exit(1)
	}
	defer deps.Close()

	printModels(os.Stdout, deps.Router.Models())

	if *recent > 0 {
		if deps.Usage == nil {
			l.Warn().Msg("DATABASE_URL not set, skipping usage")
			return
		}
		records, err := deps.Usage.Recent(ctx, *recent)
		if err != nil {
			l.Error().Err(err).Msg("Error listing usage")
			return
		}
		printUsage(os.Stdout, records)
	}
}

func printModels(w io.Writer, list []models.ModelInfo) {
	fmt.Fprintln(w, "Available models:")
	for _, m := range list {
		fmt.Fprintf(w, "- %s\n", m.ID)
		if m.Target != "" {
			fmt.Fprintf(w, "  Target: %s\n", m.Target)
		}
		fmt.Fprintf(w, "  Provider: %s (configured: %t)\n", m.OwnedBy, m.Available)
		fmt.Fprintf(w, "  Supported methods: %s\n", supportedMethods)
	}
}

func printUsage(w io.Writer, records []models.UsageRecord) {
	fmt.Fprintln(w, "Recent usage:")
	for _, r := range records {
		cached := ""
		if r.Cached {
			cached = " cached"
		}
		fmt.Fprintf(w, "- %s %s/%s tokens=%d latency=%s%s\n",
			r.CreatedAt.Format(time.RFC3339), r.Provider, r.Model, r.TotalTokens, r.Latency, cached)
	}
}
