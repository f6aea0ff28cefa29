package llm

import (
	"fmt"
	"strings"
)

const (
	ProviderOpenAI  = "openai"
	ProviderBedrock = "bedrock"
)

// ModelRef is a model identifier split into provider and provider-side name.
type ModelRef struct {
	Provider string
	Name     string
}

func (m ModelRef) String() string {
	return m.Provider + "/" + m.Name
}

// ParseModel splits "provider/model". Only the first slash separates the
// provider, so "bedrock/anthropic.claude-3-haiku-20240307-v1:0" keeps its
// full model id. Bare names are inferred from well known prefixes.
func ParseModel(model string) (ModelRef, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return ModelRef{}, fmt.Errorf("%w: empty model", ErrInvalidModel)
	}

	if provider, name, ok := strings.Cut(model, "/"); ok {
		provider = strings.ToLower(strings.TrimSpace(provider))
		name = strings.TrimSpace(name)
		if provider == "" || name == "" {
			return ModelRef{}, fmt.Errorf("%w: %q", ErrInvalidModel, model)
		}
		return ModelRef{Provider: provider, Name: name}, nil
	}

	provider := inferProvider(model)
	if provider == "" {
		return ModelRef{}, fmt.Errorf("%w: cannot infer provider for %q, use provider/model", ErrInvalidModel, model)
	}

	return ModelRef{Provider: provider, Name: model}, nil
}

var providerPrefixes = []struct {
	provider string
	prefixes []string
}{
	{ProviderOpenAI, []string{"gpt", "o1", "o3", "o4", "chatgpt"}},
	{ProviderBedrock, []string{"anthropic.", "claude", "us.anthropic.", "eu.anthropic."}},
}

func inferProvider(model string) string {
	lower := strings.ToLower(model)
	for _, p := range providerPrefixes {
		for _, prefix := range p.prefixes {
			if strings.HasPrefix(lower, prefix) {
				return p.provider
			}
		}
	}
	return ""
}
