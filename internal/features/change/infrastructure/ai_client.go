package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// ModelRequest is a single completion call to the model gateway.
type ModelRequest struct {
	Model       string
	Prompt      string
	Temperature float64
	// Format asks the gateway to constrain output, e.g. "json". Empty means free text.
	Format string
	// NumPredict caps generated tokens; 0 leaves the gateway default.
	NumPredict int
	// Timeout bounds the whole call; 0 means no timeout beyond ctx.
	Timeout time.Duration
}

// ModelGateway performs one synchronous completion. It never retries:
// choosing another model on failure is the caller's decision.
type ModelGateway interface {
	Complete(ctx context.Context, req ModelRequest) (string, error)
}

// FailureKind classifies why a gateway call failed.
type FailureKind string

const (
	// FailureUnavailable covers unreachable gateways and unknown models.
	FailureUnavailable FailureKind = "unavailable"
	FailureTimeout     FailureKind = "timeout"
	FailureStatus      FailureKind = "status"
	FailureDecode      FailureKind = "decode"
	FailureRequest     FailureKind = "request"
)

// GatewayError is returned by every ModelGateway implementation on failure.
type GatewayError struct {
	Kind       FailureKind
	Model      string
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("model %s: %s (status %d): %v", e.Model, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("model %s: %s: %v", e.Model, e.Kind, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind of err, or "" if err is not a GatewayError.
func KindOf(err error) FailureKind {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return ""
}

// IsUnavailable reports whether err means the model or gateway could not be reached.
func IsUnavailable(err error) bool {
	return KindOf(err) == FailureUnavailable
}

// IsTimeout reports whether err is a gateway timeout.
func IsTimeout(err error) bool {
	return KindOf(err) == FailureTimeout
}

// classifyTransportError maps a failed round trip to a GatewayError.
func classifyTransportError(ctx context.Context, model string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &GatewayError{Kind: FailureTimeout, Model: model, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &GatewayError{Kind: FailureTimeout, Model: model, Err: err}
	}
	return &GatewayError{Kind: FailureUnavailable, Model: model, Err: err}
}

// classifyStatus maps a non-200 response. 404 is how gateways report an
// unknown model, so it is treated like an unreachable one.
func classifyStatus(model string, status int, detail string) error {
	detail = strings.TrimSpace(detail)
	if detail == "" {
		detail = http.StatusText(status)
	}
	kind := FailureStatus
	if status == http.StatusNotFound {
		kind = FailureUnavailable
	}
	return &GatewayError{Kind: kind, Model: model, StatusCode: status, Err: errors.New(detail)}
}

// GatewayConfig selects and configures a ModelGateway implementation.
type GatewayConfig struct {
	API     string `json:"api"` // "generate" or "openai"
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key,omitempty"`
}

// NewModelGateway creates the gateway client named by cfg.API.
func NewModelGateway(cfg GatewayConfig) (ModelGateway, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("model gateway base URL is required")
	}
	switch strings.ToLower(cfg.API) {
	case "", "generate":
		return NewGenerateClient(cfg.BaseURL), nil
	case "openai":
		return NewOpenAIClient(cfg.BaseURL, cfg.APIKey), nil
	default:
		return nil, fmt.Errorf("unknown model gateway API %q", cfg.API)
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
