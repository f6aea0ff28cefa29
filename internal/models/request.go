package models

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyModel         = errors.New("model is required")
	ErrEmptyMessages      = errors.New("at least one message is required")
	ErrInvalidRole        = errors.New("invalid message role")
	ErrEmptyContent       = errors.New("message content is required")
	ErrInvalidMaxTokens   = errors.New("max_tokens must be between 0 and 100000")
	ErrInvalidTemperature = errors.New("temperature must be between 0.0 and 2.0")
)

// MaxTokensLimit caps max_tokens before any provider is called.
const MaxTokensLimit = 100000

// UserPrompt builds the single-message request used by the one-shot command.
func UserPrompt(model string, prompt string) CompletionRequest {
	return CompletionRequest{
		Model: model,
		Messages: []Message{
			{Role: RoleUser, Content: prompt},
		},
	}
}

func (r *CompletionRequest) Validate() error {
	if r.Model == "" {
		return ErrEmptyModel
	}

	if len(r.Messages) == 0 {
		return ErrEmptyMessages
	}

	for i, m := range r.Messages {
		switch m.Role {
		case RoleSystem, RoleUser, RoleAssistant:
		default:
			return fmt.Errorf("messages[%d]: %w %q", i, ErrInvalidRole, m.Role)
		}
		if m.Content == "" {
			return fmt.Errorf("messages[%d]: %w", i, ErrEmptyContent)
		}
	}

	if r.MaxTokens < 0 || r.MaxTokens > MaxTokensLimit {
		return ErrInvalidMaxTokens
	}

	if r.Temperature != nil && (*r.Temperature < 0.0 || *r.Temperature > 2.0) {
		return ErrInvalidTemperature
	}

	return nil
}

// SetDefaults fills zero values from alias defaults without overriding
// anything the caller set explicitly.
func (r *CompletionRequest) SetDefaults(maxTokens int, temperature *float64) {
	if r.MaxTokens == 0 {
		r.MaxTokens = maxTokens
	}

	if r.Temperature == nil && temperature != nil {
		t := *temperature
		r.Temperature = &t
	}
}

func Float(v float64) *float64 {
	return &v
}
