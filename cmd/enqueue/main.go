package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/queue"
	red "github.com/povarna/generative-ai-agents/llm-gateway/internal/redis"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/setup/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	model := flag.String("model", "openai/gpt-4o-mini", "Model name, provider/model or a configured alias")
	prompt := flag.String("m", "Hello from litellm", "User message")
	data := flag.String("d", "", "Inline JSON CompletionRequest (overrides -model and -m)")
	stream := flag.String("stream", queue.DefaultJobStream, "Stream name")
	flag.Parse()

	log.Logger = setupLogging()

	request, err := buildRequest(*data, *model, *prompt)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Usage: enqueue [-model name] [-m message] | -d '<json>'")
		flag.PrintDefaults()
		log.Error().Err(err).Msg("invalid request")
		os.Exit(1)
	}

	if err := run(request, *stream); err != nil {
		log.Error().Err(err).Msg("enqueue failed")
		os.Exit(1)
	}
}

// setupLogging reads .env first so a LOG_LEVEL set there applies.
func setupLogging() zerolog.Logger {
	_ = godotenv.Load()
	return logger.New(os.Getenv("LOG_LEVEL"))
}

func buildRequest(data string, model string, prompt string) (models.CompletionRequest, error) {
	if data == "" {
		return models.UserPrompt(model, prompt), nil
	}

	var request models.CompletionRequest
	if err := json.Unmarshal([]byte(data), &request); err != nil {
		return request, fmt.Errorf("failed to parse -d: %w", err)
	}
	return request, nil
}

func run(request models.CompletionRequest, stream string) error {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := red.ConnectRedis(ctx, red.Config{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")}, 3)
	if err != nil {
		return err
	}
	defer client.Close()

	jobID, entryID, err := queue.Publish(ctx, client, stream, request)
	if err != nil {
		return err
	}

	log.Info().Str("stream", stream).Str("id", entryID).Str("job_id", jobID).Str("model", request.Model).Msg("Published successfully!")
	fmt.Println(jobID)
	return nil
}
