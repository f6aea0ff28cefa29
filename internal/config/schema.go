package config

import "time"

// RouterConfig is the router file: model aliases plus retry and cache policy.
type RouterConfig struct {
	ModelList []ModelAlias   `yaml:"model_list"`
	Router    RouterSettings `yaml:"router"`
}

// ModelAlias maps a public model name to a provider-qualified model.
type ModelAlias struct {
	ModelName string      `yaml:"model_name"`
	Params    ModelParams `yaml:"params"`
}

type ModelParams struct {
	Model       string   `yaml:"model"`
	MaxTokens   int      `yaml:"max_tokens"`
	Temperature *float64 `yaml:"temperature"`
}

type RouterSettings struct {
	Retry        *bool         `yaml:"retry"`
	MaxRetries   int           `yaml:"max_retries"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
}

// RetryEnabled reports whether retries are on; unset means on.
func (s RouterSettings) RetryEnabled() bool {
	return s.Retry == nil || *s.Retry
}
