package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/router"
)

// ChatCompletionInput is the MCP tool input schema for a single-turn completion.
type ChatCompletionInput struct {
	Model       string   `json:"model,omitempty" jsonschema:"model name such as openai/gpt-4o-mini or a configured alias"`
	Prompt      string   `json:"prompt" jsonschema:"user message to send"`
	System      string   `json:"system,omitempty" jsonschema:"optional system prompt"`
	MaxTokens   int      `json:"max_tokens,omitempty" jsonschema:"maximum tokens to generate"`
	Temperature *float64 `json:"temperature,omitempty" jsonschema:"sampling temperature between 0 and 2"`
}

type ListModelsInput struct{}

type ListModelsOutput struct {
	Models []models.ModelInfo `json:"models" jsonschema:"models accepted by chat_completion"`
}

// NewChatCompletionHandler returns a tool handler that routes through completer.
// An empty input model falls back to defaultModel.
// Pass the returned function to mcp.AddTool.
func NewChatCompletionHandler(completer router.Completer, defaultModel string) func(context.Context, *mcp.CallToolRequest, ChatCompletionInput) (*mcp.CallToolResult, models.CompletionResponse, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ChatCompletionInput) (*mcp.CallToolResult, models.CompletionResponse, error) {
		return ChatCompletion(ctx, completer, defaultModel, input)
	}
}

func ChatCompletion(
	ctx context.Context,
	completer router.Completer,
	defaultModel string,
	input ChatCompletionInput,
) (*mcp.CallToolResult, models.CompletionResponse, error) {
	request := toCompletionRequest(input, defaultModel)

	response, err := completer.Completion(ctx, request)
	if err != nil {
		return nil, models.CompletionResponse{}, err
	}

	return nil, *response, nil
}

func NewListModelsHandler(completer router.Completer) func(context.Context, *mcp.CallToolRequest, ListModelsInput) (*mcp.CallToolResult, ListModelsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListModelsInput) (*mcp.CallToolResult, ListModelsOutput, error) {
		return nil, ListModelsOutput{Models: completer.Models()}, nil
	}
}

func toCompletionRequest(input ChatCompletionInput, defaultModel string) models.CompletionRequest {
	model := input.Model
	if model == "" {
		model = defaultModel
	}

	var messages []models.Message
	if input.System != "" {
		messages = append(messages, models.Message{Role: models.RoleSystem, Content: input.System})
	}
	messages = append(messages, models.Message{Role: models.RoleUser, Content: input.Prompt})

	return models.CompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   input.MaxTokens,
		Temperature: input.Temperature,
	}
}
