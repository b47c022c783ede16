// Package client calls the generation endpoint of a DreamRender server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/achneerov/dreamrender/pkg/generate"
)

// DefaultBaseURL is the address of a locally running server.
const DefaultBaseURL = "http://localhost:3000"

const (
	generatePath = "/api/generate"
	maxErrorBody = 64 << 10
)

// Config configures a Client.
type Config struct {
	BaseURL string

	// HTTPClient overrides the default client. The default has no timeout;
	// only the caller's context can cancel a generation.
	HTTPClient *http.Client
}

// Client fetches generated pages.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
	}
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string `json:"error"`
	Details    string `json:"details"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Details != "" {
		return fmt.Sprintf("server returned %d: %s: %s", e.StatusCode, msg, e.Details)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, msg)
}

// Generate posts req and returns the fully assembled response body. The
// body is returned as received; callers sanitize it. A stream that ends
// early is reported as an error.
func (c *Client) Generate(ctx context.Context, req generate.Request) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/plain")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", decodeAPIError(resp)
	}

	var b strings.Builder
	if _, err := io.Copy(&b, resp.Body); err != nil {
		return "", fmt.Errorf("reading generated page after %d bytes: %w", b.Len(), err)
	}
	slog.Debug("client: page received", "session_id", req.SessionID, "bytes", b.Len())
	return b.String(), nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err := json.Unmarshal(body, apiErr); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}
