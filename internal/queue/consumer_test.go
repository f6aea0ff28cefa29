package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/router/mocks"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

type fakeStream struct {
	groupErr error
	reads    []*redis.XStreamSliceCmd
	onRead   func()
	acked    []string
	added    []*redis.XAddArgs
	addErr   error
	// ctxAware makes XAck and XAdd fail once their context is done.
	ctxAware bool
}

func (f *fakeStream) XGroupCreateMkStream(_ context.Context, _, _, _ string) *redis.StatusCmd {
	return redis.NewStatusResult("OK", f.groupErr)
}

func (f *fakeStream) XReadGroup(_ context.Context, _ *redis.XReadGroupArgs) *redis.XStreamSliceCmd {
	if f.onRead != nil {
		f.onRead()
	}
	if len(f.reads) == 0 {
		return redis.NewXStreamSliceCmdResult(nil, redis.Nil)
	}
	next := f.reads[0]
	f.reads = f.reads[1:]
	return next
}

func (f *fakeStream) XAck(ctx context.Context, _, _ string, ids ...string) *redis.IntCmd {
	if f.ctxAware && ctx.Err() != nil {
		return redis.NewIntResult(0, ctx.Err())
	}
	f.acked = append(f.acked, ids...)
	return redis.NewIntResult(int64(len(ids)), nil)
}

func (f *fakeStream) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	if f.ctxAware && ctx.Err() != nil {
		return redis.NewStringResult("", ctx.Err())
	}
	f.added = append(f.added, a)
	return redis.NewStringResult("1700000000000-0", f.addErr)
}

func jobMessage(t *testing.T, id string, job models.CompletionJob) redis.XMessage {
	t.Helper()
	data, err := json.Marshal(job)
	if err != nil {
		t.Fatalf("marshal job: %v", err)
	}
	return redis.XMessage{ID: id, Values: map[string]interface{}{"payload": string(data)}}
}

func decodeResult(t *testing.T, args *redis.XAddArgs) models.CompletionResult {
	t.Helper()
	values := args.Values.(map[string]any)
	var result models.CompletionResult
	if err := json.Unmarshal([]byte(values["payload"].(string)), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return result
}

func TestSetup_IgnoresExistingGroup(t *testing.T) {
	stream := &fakeStream{groupErr: errors.New("BUSYGROUP Consumer Group name already exists")}
	c := NewConsumer(stream, NewStreamConfig("", "", "", ""), nil, testLogger())

	if err := c.Setup(context.Background()); err != nil {
		t.Fatalf("Expected BUSYGROUP to be ignored, got %v", err)
	}

	stream.groupErr = errors.New("NOAUTH")
	if err := c.Setup(context.Background()); err == nil {
		t.Fatal("Expected other errors to be returned")
	}
}

func TestProcess_PublishesResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)

	stream := &fakeStream{}
	c := NewConsumer(stream, NewStreamConfig("", "", "", ""), completer, testLogger())

	req := models.UserPrompt("openai/gpt-4o-mini", "Hello from litellm")
	completer.EXPECT().Completion(gomock.Any(), req).Return(&models.CompletionResponse{
		ID:      "chatcmpl-1",
		Choices: []models.Choice{{Message: models.Message{Role: models.RoleAssistant, Content: "Hi"}}},
	}, nil)

	c.process(context.Background(), jobMessage(t, "1-0", models.CompletionJob{JobID: "job-1", Request: req}))

	if len(stream.acked) != 1 || stream.acked[0] != "1-0" {
		t.Errorf("Expected message 1-0 to be acked, got %v", stream.acked)
	}
	if len(stream.added) != 1 {
		t.Fatalf("Expected one result published, got %d", len(stream.added))
	}
	if stream.added[0].Stream != DefaultResultStream {
		t.Errorf("Expected result stream %s, got %s", DefaultResultStream, stream.added[0].Stream)
	}

	result := decodeResult(t, stream.added[0])
	if result.JobID != "job-1" || result.Error != "" || result.Response.Content() != "Hi" {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestProcess_PublishesError(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)

	stream := &fakeStream{}
	c := NewConsumer(stream, NewStreamConfig("", "", "", ""), completer, testLogger())

	completer.EXPECT().Completion(gomock.Any(), gomock.Any()).Return(nil, errors.New("unknown provider"))

	c.process(context.Background(), jobMessage(t, "2-0", models.CompletionJob{
		JobID:   "job-2",
		Request: models.UserPrompt("mistral/large", "hi"),
	}))

	result := decodeResult(t, stream.added[0])
	if result.Error != "unknown provider" || result.Response != nil {
		t.Errorf("Expected error result, got %+v", result)
	}
	if len(stream.acked) != 1 {
		t.Errorf("Expected message to be acked")
	}
}

func TestProcess_BadPayloadIsAckedAndSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)

	stream := &fakeStream{}
	c := NewConsumer(stream, NewStreamConfig("", "", "", ""), completer, testLogger())

	c.process(context.Background(), redis.XMessage{ID: "3-0", Values: map[string]interface{}{"other": "x"}})
	c.process(context.Background(), redis.XMessage{ID: "4-0", Values: map[string]interface{}{"payload": "{bad"}})

	if len(stream.acked) != 2 {
		t.Errorf("Expected both messages acked, got %v", stream.acked)
	}
	if len(stream.added) != 0 {
		t.Errorf("Expected no results published, got %d", len(stream.added))
	}
}

func TestProcess_AcksWhenCancelledMidJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := &fakeStream{ctxAware: true}
	c := NewConsumer(stream, NewStreamConfig("", "", "", ""), completer, testLogger())

	completer.EXPECT().
		Completion(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ models.CompletionRequest) (*models.CompletionResponse, error) {
			cancel()
			return nil, ctx.Err()
		})

	c.process(ctx, jobMessage(t, "6-0", models.CompletionJob{
		JobID:   "job-6",
		Request: models.UserPrompt("openai/gpt-4o-mini", "hi"),
	}))

	if len(stream.acked) != 1 || stream.acked[0] != "6-0" {
		t.Errorf("Expected 6-0 acked after shutdown, got %v", stream.acked)
	}
	if len(stream.added) != 1 {
		t.Fatalf("Expected one result published, got %d", len(stream.added))
	}
	if result := decodeResult(t, stream.added[0]); result.Error == "" {
		t.Errorf("Expected cancellation error in result, got %+v", result)
	}
}

func TestStart_ProcessesUntilCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := models.UserPrompt("openai/gpt-4o-mini", "hi")
	stream := &fakeStream{
		reads: []*redis.XStreamSliceCmd{
			redis.NewXStreamSliceCmdResult([]redis.XStream{
				{Stream: DefaultJobStream, Messages: []redis.XMessage{jobMessage(t, "5-0", models.CompletionJob{JobID: "job-5", Request: req})}},
			}, nil),
		},
	}
	reads := 0
	stream.onRead = func() {
		reads++
		if reads > 1 {
			cancel()
		}
	}

	completer.EXPECT().Completion(gomock.Any(), req).Return(&models.CompletionResponse{ID: "chatcmpl-5"}, nil)

	c := NewConsumer(stream, NewStreamConfig("", "", "", ""), completer, testLogger())
	err := c.Start(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if len(stream.acked) != 1 || stream.acked[0] != "5-0" {
		t.Errorf("Expected 5-0 acked, got %v", stream.acked)
	}
}

func TestPublish(t *testing.T) {
	stream := &fakeStream{}

	jobID, entryID, err := Publish(context.Background(), stream, DefaultJobStream, models.UserPrompt("openai/gpt-4o-mini", "hi"))
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if jobID == "" || entryID != "1700000000000-0" {
		t.Errorf("Unexpected ids job=%q entry=%q", jobID, entryID)
	}

	values := stream.added[0].Values.(map[string]any)
	var job models.CompletionJob
	if err := json.Unmarshal([]byte(values["payload"].(string)), &job); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if job.JobID != jobID || job.Request.Model != "openai/gpt-4o-mini" {
		t.Errorf("Unexpected job: %+v", job)
	}

	if _, _, err := Publish(context.Background(), stream, DefaultJobStream, models.UserPrompt("", "hi")); err == nil {
		t.Error("Expected invalid request to be rejected")
	}
}
