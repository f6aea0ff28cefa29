package gpt

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/llm"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
)

func (c *Client) Complete(ctx context.Context, request models.CompletionRequest) (*models.CompletionResponse, error) {
	params := openai.ChatCompletionNewParams{
		Messages: toMessageParams(request.Messages),
		Model:    openai.ChatModel(request.Model),
	}
	if request.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(request.MaxTokens))
	}
	if request.Temperature != nil {
		params.Temperature = openai.Float(*request.Temperature)
	}

	output, err := c.Client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, toAPIError(err)
	}

	if len(output.Choices) == 0 {
		return nil, llm.ErrNoChoices
	}

	return toCompletionResponse(output), nil
}

func toMessageParams(messages []models.Message) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case models.RoleSystem:
			params = append(params, openai.SystemMessage(m.Content))
		case models.RoleAssistant:
			params = append(params, openai.AssistantMessage(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}
	return params
}

func toCompletionResponse(output *openai.ChatCompletion) *models.CompletionResponse {
	choices := make([]models.Choice, 0, len(output.Choices))
	for _, choice := range output.Choices {
		choices = append(choices, models.Choice{
			Index: int(choice.Index),
			Message: models.Message{
				Role:    models.RoleAssistant,
				Content: choice.Message.Content,
			},
			FinishReason: string(choice.FinishReason),
		})
	}

	return &models.CompletionResponse{
		ID:      output.ID,
		Object:  models.ObjectChatCompletion,
		Created: output.Created,
		Model:   output.Model,
		Choices: choices,
		Usage: models.Usage{
			PromptTokens:     int(output.Usage.PromptTokens),
			CompletionTokens: int(output.Usage.CompletionTokens),
			TotalTokens:      int(output.Usage.TotalTokens),
		},
	}
}

func toAPIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return llm.NewAPIError(llm.ProviderOpenAI, apiErr.StatusCode, "chat completion failed", err)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return fmt.Errorf("unable to invoke gpt model: %w", err)
}
