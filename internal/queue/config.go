package queue

const (
	DefaultJobStream    = "completion-jobs"
	DefaultResultStream = "completion-results"
	DefaultGroup        = "completion-workers"
)

type StreamConfig struct {
	JobStream    string
	ResultStream string
	Group        string
	ConsumerName string
}

func NewStreamConfig(jobStream string, resultStream string, group string, consumerName string) *StreamConfig {
	cfg := &StreamConfig{
		JobStream:    jobStream,
		ResultStream: resultStream,
		Group:        group,
		ConsumerName: consumerName,
	}
	if cfg.JobStream == "" {
		cfg.JobStream = DefaultJobStream
	}
	if cfg.ResultStream == "" {
		cfg.ResultStream = DefaultResultStream
	}
	if cfg.Group == "" {
		cfg.Group = DefaultGroup
	}
	if cfg.ConsumerName == "" {
		cfg.ConsumerName = "worker-1"
	}
	return cfg
}
