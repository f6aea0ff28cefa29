package api

import "github.com/povarna/generative-ai-agents/llm-gateway/internal/models"

type HealthResponse struct {
	Status  string `json:"status" description:"Service status"`
	Version string `json:"version" description:"API version"`
}

type ModelList struct {
	Object string             `json:"object" description:"Always 'list'"`
	Data   []models.ModelInfo `json:"data" description:"Routable models"`
}
