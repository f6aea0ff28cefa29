package models

import (
	"time"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role" description:"Message author: system, user or assistant"`
	Content string `json:"content" description:"Message text"`
}

// Input message

type CompletionRequest struct {
	Model       string    `json:"model" description:"Model identifier, optionally prefixed with the provider (openai/gpt-4o-mini)"`
	Messages    []Message `json:"messages" description:"Conversation to complete"`
	MaxTokens   int       `json:"max_tokens,omitempty" description:"Maximum tokens to generate (0 lets the provider decide)"`
	Temperature *float64  `json:"temperature,omitempty" description:"Sampling temperature (0.0-2.0)"`
}

type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Final output printed or returned to callers
type CompletionResponse struct {
	ID       string   `json:"id"`
	Object   string   `json:"object"`
	Created  int64    `json:"created"`
	Model    string   `json:"model"`
	Provider string   `json:"provider"`
	Choices  []Choice `json:"choices"`
	Usage    Usage    `json:"usage"`
	Cached   bool     `json:"cached,omitempty"`
}

const ObjectChatCompletion = "chat.completion"

// Content returns the text of the first choice, or "" when there is none.
func (r *CompletionResponse) Content() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// Queue payloads

type CompletionJob struct {
	JobID      string            `json:"job_id"`
	Request    CompletionRequest `json:"request"`
	EnqueuedAt time.Time         `json:"enqueued_at"`
}

type CompletionResult struct {
	JobID    string              `json:"job_id"`
	Response *CompletionResponse `json:"response,omitempty"`
	Error    string              `json:"error,omitempty"`
	Duration time.Duration       `json:"duration_ns"`
}
