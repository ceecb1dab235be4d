package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"confbot/internal/features/docstore/domain"
)

// DefaultFetchTimeout bounds a single document fetch.
const DefaultFetchTimeout = 5 * time.Second

// maxDocumentSize caps how much of a document response is read.
const maxDocumentSize = 10 * 1024 * 1024

// DocumentFetcher retrieves a document from a remote document server.
type DocumentFetcher interface {
	Fetch(ctx context.Context, app string) (json.RawMessage, error)
}

// documentClient talks to one schema-server or values-server instance.
type documentClient struct {
	baseURL    string
	kind       domain.Kind
	timeout    time.Duration
	httpClient *http.Client
}

// NewDocumentClient creates a DocumentFetcher for the server at baseURL.
// A non-positive timeout selects DefaultFetchTimeout.
func NewDocumentClient(baseURL string, kind domain.Kind, timeout time.Duration) DocumentFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &documentClient{
		baseURL:    baseURL,
		kind:       kind,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// Fetch returns the document, domain.ErrDocumentNotFound on a 404, or a
// wrapped error for any other failure.
func (c *documentClient) Fetch(ctx context.Context, app string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/" + url.PathEscape(app)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", c.kind, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s for %s: %w", c.kind, app, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response for %s: %w", c.kind, app, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s for %s: %w", c.kind, app, domain.ErrDocumentNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%s server returned %s for %s: %s", c.kind, resp.Status, app, bytes.TrimSpace(body))
	}

	var doc json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s for %s: %w", c.kind, app, err)
	}
	return doc, nil
}
