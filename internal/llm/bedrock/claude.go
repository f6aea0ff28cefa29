package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/llm"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
)

type claudeMessageRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	Temperature      *float64        `json:"temperature,omitempty"`
	System           string          `json:"system,omitempty"`
	Messages         []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeMessageResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

var anthropicVersion = "bedrock-2023-05-31"

var retryableCodes = map[string]bool{
	"ThrottlingException":         true,
	"TooManyRequestsException":    true,
	"ServiceUnavailableException": true,
	"InternalServerException":     true,
	"ModelNotReadyException":      true,
	"ModelTimeoutException":       true,
}

func (c *Client) Complete(ctx context.Context, request models.CompletionRequest) (*models.CompletionResponse, error) {
	payload := c.buildPayload(request)
	if len(payload.Messages) == 0 {
		return nil, fmt.Errorf("%w: bedrock needs at least one user or assistant message", llm.ErrUnsupportedRequest)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to serialize claude request: %w", err)
	}

	output, err := c.Client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(request.Model),
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, toAPIError(err)
	}

	var response claudeMessageResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bedrock response: %w", err)
	}

	if len(response.Content) == 0 {
		return nil, llm.ErrNoChoices
	}

	return c.toCompletionResponse(request.Model, response), nil
}

func (c *Client) buildPayload(request models.CompletionRequest) claudeMessageRequest {
	maxTokens := request.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.DefaultMaxTokens
	}

	payload := claudeMessageRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		Temperature:      request.Temperature,
		Messages:         []claudeMessage{},
	}

	var system []string
	for _, m := range request.Messages {
		if m.Role == models.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		payload.Messages = append(payload.Messages, claudeMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	payload.System = strings.Join(system, "\n\n")

	return payload
}

func (c *Client) toCompletionResponse(requestModel string, response claudeMessageResponse) *models.CompletionResponse {
	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	id := response.ID
	if id == "" {
		id = "chatcmpl-" + uuid.NewString()
	}

	model := response.Model
	if model == "" {
		model = requestModel
	}

	return &models.CompletionResponse{
		ID:      id,
		Object:  models.ObjectChatCompletion,
		Created: c.now().Unix(),
		Model:   model,
		Choices: []models.Choice{
			{
				Index: 0,
				Message: models.Message{
					Role:    models.RoleAssistant,
					Content: text.String(),
				},
				FinishReason: finishReason(response.StopReason),
			},
		},
		Usage: models.Usage{
			PromptTokens:     response.Usage.InputTokens,
			CompletionTokens: response.Usage.OutputTokens,
			TotalTokens:      response.Usage.InputTokens + response.Usage.OutputTokens,
		},
	}
}

func finishReason(stopReason string) string {
	switch stopReason {
	case "end_turn", "stop_sequence":
		return "stop"
	case "max_tokens":
		return "length"
	default:
		return stopReason
	}
}

func toAPIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && retryableCodes[apiErr.ErrorCode()] {
		return llm.NewRetryableError(llm.ProviderBedrock, apiErr.ErrorCode(), err)
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return llm.NewAPIError(llm.ProviderBedrock, respErr.HTTPStatusCode(), "invoke model failed", err)
	}

	if apiErr != nil {
		return llm.NewAPIError(llm.ProviderBedrock, 0, apiErr.ErrorCode(), err)
	}

	return fmt.Errorf("unable to invoke claude model: %w", err)
}
