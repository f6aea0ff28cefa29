package mcpadapter

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/router"
)

const ServerName = "llm-gateway"

func NewServer(completer router.Completer, defaultModel string, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Version: version,
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "chat_completion",
		Description: "Send a prompt to an OpenAI or Bedrock model through the router and return the completion",
	}, NewChatCompletionHandler(completer, defaultModel))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_models",
		Description: "List model aliases and providers the router can serve",
	}, NewListModelsHandler(completer))

	return server
}
