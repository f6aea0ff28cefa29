package queue

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/router"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// streamClient is the subset of *redis.Client used by the worker.
type streamClient interface {
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

const writeTimeout = 5 * time.Second

type Consumer struct {
	client    streamClient
	cfg       StreamConfig
	completer router.Completer
	logger    *zerolog.Logger
}

func NewConsumer(client streamClient, cfg *StreamConfig, completer router.Completer, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:    client,
		cfg:       *cfg,
		completer: completer,
		logger:    logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.cfg.JobStream, c.cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.cfg.JobStream).
		Str("group", c.cfg.Group).
		Str("consumer", c.cfg.ConsumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.cfg.Group,
			Consumer: c.cfg.ConsumerName,
			Streams:  []string{c.cfg.JobStream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err()
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				c.process(ctx, msg)
			}
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Job received")

	// Shutdown cancels ctx mid-job; the result and ack must still land.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()
	defer c.ack(writeCtx, msg.ID)

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		return
	}

	var job models.CompletionJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode job")
		return
	}

	start := time.Now()
	result := models.CompletionResult{JobID: job.JobID}

	response, err := c.completer.Completion(ctx, job.Request)
	if err != nil {
		result.Error = err.Error()
	} else {
		result.Response = response
	}
	result.Duration = time.Since(start)

	if err := c.publishResult(writeCtx, result); err != nil {
		c.logger.Error().Err(err).Str("job_id", job.JobID).Msg("Failed to publish result")
		return
	}

	c.logger.Info().
		Str("id", msg.ID).
		Str("job_id", job.JobID).
		Bool("ok", result.Error == "").
		Dur("duration", result.Duration).
		Msg("Job complete")
}

func (c *Consumer) publishResult(ctx context.Context, result models.CompletionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.cfg.ResultStream,
		Values: map[string]any{"job_id": result.JobID, "payload": string(data)},
	}).Err()
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.cfg.JobStream, c.cfg.Group, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
