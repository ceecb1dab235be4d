package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxResponseSize limits the gateway response body.
const maxResponseSize = 10 * 1024 * 1024

// generateRequest is the body of POST /api/generate.
type generateRequest struct {
	Model       string           `json:"model"`
	Prompt      string           `json:"prompt"`
	Stream      bool             `json:"stream"`
	Temperature float64          `json:"temperature"`
	Format      string           `json:"format,omitempty"`
	NumPredict  int              `json:"num_predict,omitempty"`
	Options     *generateOptions `json:"options,omitempty"`
}

// generateOptions repeats the sampling settings where Ollama reads them.
type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// generateClient calls an Ollama-style /api/generate endpoint.
type generateClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewGenerateClient creates a ModelGateway for the gateway at baseURL.
func NewGenerateClient(baseURL string) ModelGateway {
	return &generateClient{
		endpoint:   baseURL + "/api/generate",
		httpClient: &http.Client{},
	}
}

// Complete sends req with stream=false and returns the raw response text.
func (c *generateClient) Complete(ctx context.Context, req ModelRequest) (string, error) {
	ctx, cancel := withTimeout(ctx, req.Timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Model:       req.Model,
		Prompt:      req.Prompt,
		Stream:      false,
		Temperature: req.Temperature,
		Format:      req.Format,
		NumPredict:  req.NumPredict,
		Options: &generateOptions{
			Temperature: req.Temperature,
			NumPredict:  req.NumPredict,
		},
	})
	if err != nil {
		return "", &GatewayError{Kind: FailureRequest, Model: req.Model, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &GatewayError{Kind: FailureRequest, Model: req.Model, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", classifyTransportError(ctx, req.Model, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", classifyTransportError(ctx, req.Model, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr generateResponse
		detail := string(raw)
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			detail = apiErr.Error
		}
		return "", classifyStatus(req.Model, resp.StatusCode, detail)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &GatewayError{Kind: FailureDecode, Model: req.Model, Err: fmt.Errorf("failed to decode generate response: %w", err)}
	}
	return out.Response, nil
}
