package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/llm"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/router"
	"github.com/rs/zerolog"
)

const Version = "1.0.0"

type Handler struct {
	completer router.Completer
	logger    *zerolog.Logger
}

func NewHandler(completer router.Completer, logger *zerolog.Logger) *Handler {
	return &Handler{
		completer: completer,
		logger:    logger,
	}
}

// ChatCompletions handles POST /v1/chat/completions
func (h *Handler) ChatCompletions(req *restful.Request, resp *restful.Response) {
	var request models.CompletionRequest
	if err := req.ReadEntity(&request); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("model", request.Model).
		Int("messages", len(request.Messages)).
		Int("max_tokens", request.MaxTokens).
		Msg("Process completion")

	response, err := h.completer.Completion(req.Request.Context(), request)
	if err != nil {
		status := StatusFor(err)
		h.logger.Error().Err(err).Int("status", status).Str("model", request.Model).Msg("Completion failed")
		middleware.HandleError(resp, err, status)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, response)
}

// Models handles GET /v1/models
func (h *Handler) Models(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, ModelList{
		Object: "list",
		Data:   h.completer.Models(),
	})
}

// Health handles GET /v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// StatusFor maps router and provider errors to HTTP status codes.
func StatusFor(err error) int {
	var apiErr *llm.APIError

	switch {
	case errors.Is(err, router.ErrInvalidRequest),
		errors.Is(err, llm.ErrInvalidModel),
		errors.Is(err, llm.ErrUnknownProvider),
		errors.Is(err, llm.ErrUnsupportedRequest):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr), errors.Is(err, llm.ErrNoChoices):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
