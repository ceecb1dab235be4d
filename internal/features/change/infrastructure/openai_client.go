package infrastructure

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// openAIClient speaks the OpenAI chat completions protocol, which Ollama,
// vLLM and most local gateways also expose under /v1.
type openAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a ModelGateway for an OpenAI-compatible gateway.
// The API key may be empty for local gateways.
func NewOpenAIClient(baseURL, apiKey string) ModelGateway {
	cfg := openai.DefaultConfig(apiKey)
	baseURL = strings.TrimSuffix(baseURL, "/")
	if !strings.HasSuffix(baseURL, "/v1") {
		baseURL += "/v1"
	}
	cfg.BaseURL = baseURL
	cfg.HTTPClient = &http.Client{}
	return &openAIClient{client: openai.NewClientWithConfig(cfg)}
}

// Complete sends the prompt as a single user message.
func (c *openAIClient) Complete(ctx context.Context, req ModelRequest) (string, error) {
	ctx, cancel := withTimeout(ctx, req.Timeout)
	defer cancel()

	// go-openai drops a zero temperature from the payload, which lets the
	// server fall back to its own default.
	temperature := float32(req.Temperature)
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	chatReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: temperature,
		MaxTokens:   req.NumPredict,
	}
	if req.Format == "json" {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", classifyOpenAIError(ctx, req.Model, err)
	}
	if len(resp.Choices) == 0 {
		return "", &GatewayError{Kind: FailureDecode, Model: req.Model, Err: errors.New("no choices in response")}
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(ctx context.Context, model string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return classifyStatus(model, apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return classifyStatus(model, reqErr.HTTPStatusCode, reqErr.Error())
	}
	return classifyTransportError(ctx, model, err)
}
