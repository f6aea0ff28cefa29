package router

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/config"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/llm"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
	"github.com/rs/zerolog"
)

var ErrInvalidRequest = errors.New("invalid request")

// Router resolves a model name to a registered provider and runs the
// completion through the optional cache and usage recorder.
type Router struct {
	mu        sync.RWMutex
	providers map[string]llm.Provider
	aliases   map[string]config.ModelAlias
	cache     Cache
	recorder  Recorder
	logger    *zerolog.Logger
	now       func() time.Time
}

var _ Completer = (*Router)(nil)

func NewRouter(logger *zerolog.Logger) *Router {
	return &Router{
		providers: make(map[string]llm.Provider),
		aliases:   make(map[string]config.ModelAlias),
		logger:    logger,
		now:       time.Now,
	}
}

func (r *Router) Register(p llm.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.providers[p.Name()] = p
	r.logger.Info().Str("provider", p.Name()).Msg("provider registered")
}

func (r *Router) SetAliases(aliases []config.ModelAlias) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.aliases = make(map[string]config.ModelAlias, len(aliases))
	for _, a := range aliases {
		r.aliases[a.ModelName] = a
	}
}

func (r *Router) UseCache(c Cache) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = c
}

func (r *Router) UseRecorder(rec Recorder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorder = rec
}

func (r *Router) Completion(ctx context.Context, request models.CompletionRequest) (*models.CompletionResponse, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	r.mu.RLock()
	alias, isAlias := r.aliases[request.Model]
	cache, recorder := r.cache, r.recorder
	r.mu.RUnlock()

	if isAlias {
		request.Model = alias.Params.Model
		request.SetDefaults(alias.Params.MaxTokens, alias.Params.Temperature)
	}

	ref, err := llm.ParseModel(request.Model)
	if err != nil {
		return nil, err
	}

	provider, err := r.provider(ref.Provider)
	if err != nil {
		return nil, err
	}

	start := r.now()

	if cache != nil {
		cached, ok, err := cache.Get(ctx, request)
		if err != nil {
			r.logger.Warn().Err(err).Str("model", ref.String()).Msg("cache lookup failed")
		} else if ok {
			cached.Cached = true
			r.logger.Debug().Str("model", ref.String()).Str("id", cached.ID).Msg("cache hit")
			r.record(ctx, recorder, ref, cached, r.now().Sub(start))
			return cached, nil
		}
	}

	upstream := request
	upstream.Model = ref.Name

	response, err := provider.Complete(ctx, upstream)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("provider", ref.Provider).
			Str("model", ref.Name).
			Msg("completion failed")
		return nil, err
	}

	response.Provider = ref.Provider
	if response.Model == "" {
		response.Model = ref.Name
	}
	latency := r.now().Sub(start)

	r.logger.Info().
		Str("provider", ref.Provider).
		Str("model", response.Model).
		Str("id", response.ID).
		Int("total_tokens", response.Usage.TotalTokens).
		Dur("latency", latency).
		Msg("completion done")

	if cache != nil {
		if err := cache.Set(ctx, request, response); err != nil {
			r.logger.Warn().Err(err).Str("model", ref.String()).Msg("cache store failed")
		}
	}

	r.record(ctx, recorder, ref, response, latency)

	return response, nil
}

func (r *Router) provider(name string) (llm.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not configured", llm.ErrUnknownProvider, name)
	}
	return p, nil
}

// record never fails the completion; the spend log is best effort.
func (r *Router) record(ctx context.Context, recorder Recorder, ref llm.ModelRef, response *models.CompletionResponse, latency time.Duration) {
	if recorder == nil {
		return
	}

	err := recorder.Record(ctx, models.UsageRecord{
		ID:               response.ID,
		Provider:         ref.Provider,
		Model:            ref.Name,
		PromptTokens:     response.Usage.PromptTokens,
		CompletionTokens: response.Usage.CompletionTokens,
		TotalTokens:      response.Usage.TotalTokens,
		Latency:          latency,
		Cached:           response.Cached,
		CreatedAt:        r.now(),
	})
	if err != nil {
		r.logger.Warn().Err(err).Str("id", response.ID).Msg("failed to record usage")
	}
}

// Models lists aliases first, then one wildcard entry per provider.
func (r *Router) Models() []models.ModelInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var aliases []models.ModelInfo
	for name, a := range r.aliases {
		info := models.ModelInfo{
			ID:     name,
			Object: "model",
			Target: a.Params.Model,
		}
		if ref, err := llm.ParseModel(a.Params.Model); err == nil {
			info.OwnedBy = ref.Provider
			_, info.Available = r.providers[ref.Provider]
		}
		aliases = append(aliases, info)
	}
	sort.Slice(aliases, func(i, j int) bool { return aliases[i].ID < aliases[j].ID })

	var providers []models.ModelInfo
	for name := range r.providers {
		providers = append(providers, models.ModelInfo{
			ID:        name + "/*",
			Object:    "model",
			OwnedBy:   name,
			Available: true,
		})
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i].ID < providers[j].ID })

	return append(aliases, providers...)
}
