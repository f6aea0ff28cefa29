package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/llm"
	"go.yaml.in/yaml/v3"
)

const defaultRouterConfigPath = "configs/router.yaml"

// LoadRouterConfig reads ROUTER_CONFIG_PATH (default configs/router.yaml).
// The default file is optional; an explicitly configured one is not.
func LoadRouterConfig() (*RouterConfig, error) {
	path := os.Getenv("ROUTER_CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = defaultRouterConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			cfg := &RouterConfig{}
			applyDefaults(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return ParseRouterConfig(data)
}

func ParseRouterConfig(data []byte) (*RouterConfig, error) {
	var cfg RouterConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *RouterConfig) {
	if cfg.Router.MaxRetries == 0 {
		cfg.Router.MaxRetries = 3
	}
	if cfg.Router.InitialDelay == 0 {
		cfg.Router.InitialDelay = 200 * time.Millisecond
	}
	if cfg.Router.MaxDelay == 0 {
		cfg.Router.MaxDelay = 10 * time.Second
	}
	if cfg.Router.CacheTTL == 0 {
		cfg.Router.CacheTTL = 10 * time.Minute
	}
}

func (c *RouterConfig) Validate() error {
	seen := make(map[string]bool, len(c.ModelList))

	for i, alias := range c.ModelList {
		if alias.ModelName == "" {
			return fmt.Errorf("model_list[%d]: missing model_name", i)
		}
		if seen[alias.ModelName] {
			return fmt.Errorf("duplicate model_name %q", alias.ModelName)
		}
		seen[alias.ModelName] = true

		if alias.Params.Model == "" {
			return fmt.Errorf("model %q: missing params.model", alias.ModelName)
		}
		if _, err := llm.ParseModel(alias.Params.Model); err != nil {
			return fmt.Errorf("model %q: %w", alias.ModelName, err)
		}
		if alias.Params.MaxTokens < 0 {
			return fmt.Errorf("model %q: negative max_tokens", alias.ModelName)
		}
		if t := alias.Params.Temperature; t != nil && (*t < 0.0 || *t > 2.0) {
			return fmt.Errorf("model %q: invalid temperature %f", alias.ModelName, *t)
		}
	}

	if c.Router.MaxRetries < 0 {
		return fmt.Errorf("router: negative max_retries")
	}
	if c.Router.MaxDelay < c.Router.InitialDelay {
		return fmt.Errorf("router: max_delay %s is below initial_delay %s", c.Router.MaxDelay, c.Router.InitialDelay)
	}

	return nil
}

func (c *RouterConfig) RetryPolicy() llm.RetryPolicy {
	if !c.Router.RetryEnabled() {
		return llm.RetryPolicy{}
	}
	return llm.RetryPolicy{
		MaxRetries:   c.Router.MaxRetries,
		InitialDelay: c.Router.InitialDelay,
		MaxDelay:     c.Router.MaxDelay,
	}
}
