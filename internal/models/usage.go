package models

import "time"

// UsageRecord is one row of the completion spend log.
type UsageRecord struct {
	ID               string        `json:"id"`
	Provider         string        `json:"provider"`
	Model            string        `json:"model"`
	PromptTokens     int           `json:"prompt_tokens"`
	CompletionTokens int           `json:"completion_tokens"`
	TotalTokens      int           `json:"total_tokens"`
	Latency          time.Duration `json:"latency_ns"`
	Cached           bool          `json:"cached"`
	CreatedAt        time.Time     `json:"created_at"`
}

// ModelInfo describes a routable model name.
type ModelInfo struct {
	ID        string `json:"id" description:"Model name accepted by the router"`
	Object    string `json:"object" description:"Always 'model'"`
	OwnedBy   string `json:"owned_by" description:"Provider that serves the model"`
	Target    string `json:"target,omitempty" description:"Provider-qualified model an alias resolves to"`
	Available bool   `json:"available" description:"Whether the provider is configured"`
}
