package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
)

const OpenAPIPath = "/v1/openapi.json"

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.GET("/models").
			To(handler.Models).
			Doc("List routable models").
			Metadata(restfulspec.KeyOpenAPITags, []string{"models"}).
			Writes(ModelList{}).
			Returns(200, "OK", ModelList{}))

	ws.
		Route(ws.POST("/chat/completions").
			To(handler.ChatCompletions).
			Doc("Create a chat completion").
			Metadata(restfulspec.KeyOpenAPITags, []string{"completions"}).
			Reads(models.CompletionRequest{}).
			Writes(models.CompletionResponse{}).
			Returns(200, "OK", models.CompletionResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}).
			Returns(502, "Bad Gateway", middleware.ErrorResponse{}).
			Returns(504, "Gateway Timeout", middleware.ErrorResponse{}))

	container.Add(ws)
}

// RegisterOpenAPI serves the OpenAPI document for every web service
// already added to container.
func RegisterOpenAPI(container *restful.Container) {
	config := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       OpenAPIPath,
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}

	container.Add(restfulspec.NewOpenAPIService(config))
}

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "LLM Gateway API",
			Description: "Completion router for OpenAI and Bedrock models",
			Version:     Version,
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "models", Description: "Model listing"}},
		{TagProps: spec.TagProps{Name: "completions", Description: "Chat completions"}},
	}
}
