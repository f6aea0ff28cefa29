package bedrock

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/llm"
)

// InvokeModelAPI is the part of *bedrockruntime.Client the provider needs.
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type Client struct {
	Client           InvokeModelAPI
	DefaultMaxTokens int
	now              func() time.Time
}

var _ llm.Provider = (*Client)(nil)

func NewClient(ctx context.Context, region string) (*Client, error) {
	if region == "" {
		return nil, fmt.Errorf("AWS region is required")
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return NewFromAPI(bedrockruntime.NewFromConfig(cfg)), nil
}

func NewFromAPI(api InvokeModelAPI) *Client {
	return &Client{
		Client:           api,
		DefaultMaxTokens: 1024,
		now:              time.Now,
	}
}

func (c *Client) Name() string {
	return llm.ProviderBedrock
}
