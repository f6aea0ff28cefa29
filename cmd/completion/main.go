package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/router"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/setup"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/setup/logger"
	"github.com/rs/zerolog/log"
)

type options struct {
	model       string
	prompt      string
	system      string
	maxTokens   int
	temperature float64
	timeout     time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.model, "model", "openai/gpt-4o-mini", "Model name, provider/model or a configured alias")
	flag.StringVar(&opts.prompt, "m", "Hello from litellm", "User message")
	flag.StringVar(&opts.system, "system", "", "Optional system prompt")
	flag.IntVar(&opts.maxTokens, "max-tokens", 0, "Maximum tokens to generate (0 lets the provider decide)")
	flag.Float64Var(&opts.temperature, "temperature", -1, "Sampling temperature 0.0-2.0 (negative leaves it unset)")
	flag.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Overall request timeout")
	flag.Parse()

	_ = godotenv.Load()

	cfg := setup.LoadConfig()
	log.Logger = logger.New(cfg.LogLevel)
	l := log.Logger

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	deps, err := setup.Wire(ctx, cfg, &l)
	if err != nil {
		l.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}
	defer deps.Close()

	if err := run(ctx, deps.Router, opts, os.Stdout); err != nil {
		l.Error().Err(err).Str("model", opts.model).Msg("completion failed")
		deps.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, completer router.Completer, opts options, out io.Writer) error {
	request := buildRequest(opts)

	response, err := completer.Completion(ctx, request)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}

	return nil
}

func buildRequest(opts options) models.CompletionRequest {
	request := models.UserPrompt(opts.model, opts.prompt)
	if opts.system != "" {
		request.Messages = append([]models.Message{{Role: models.RoleSystem, Content: opts.system}}, request.Messages...)
	}
	request.MaxTokens = opts.maxTokens
	if opts.temperature >= 0 {
		request.Temperature = models.Float(opts.temperature)
	}

	return request
}
