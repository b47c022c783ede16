// Package openai streams chat completions from any OpenAI-compatible
// endpoint. The defaults target Cerebras.
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/achneerov/dreamrender/pkg/llm"
)

const (
	// DefaultBaseURL is the Cerebras inference API.
	DefaultBaseURL = "https://api.cerebras.ai/v1"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "qwen-3-235b-a22b-instruct-2507"

	maxErrorBody   = 4096
	maxStreamLine  = 1024 * 1024
	initialLineBuf = 64 * 1024
	dataPrefix     = "data:"
	doneMarker     = "[DONE]"
)

// Config configures the client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	// HTTPClient overrides the default client. The default has no timeout:
	// a generation may legitimately stream for minutes.
	HTTPClient *http.Client
}

// Client implements llm.Completer for OpenAI-compatible APIs.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// New creates a new client, applying defaults for empty fields.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: cfg.HTTPClient,
	}
}

// Name identifies the provider and model.
func (c *Client) Name() string {
	return "openai:" + c.model
}

// ProviderError is returned when the API answers with a non-200 status or
// reports an error inside the stream.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return "provider error: " + e.Message
	}
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Message)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	Stream              bool          `json:"stream"`
	MaxCompletionTokens int           `json:"max_completion_tokens,omitempty"`
	Temperature         float64       `json:"temperature"`
	TopP                float64       `json:"top_p,omitempty"`
}

type chatChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Stream sends the request with streaming enabled and yields content deltas.
func (c *Client) Stream(ctx context.Context, req llm.Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		start := time.Now()

		body, err := c.open(ctx, req)
		if err != nil {
			yield("", err)
			return
		}
		defer func() { _ = body.Close() }()

		fragments, err := readEvents(body, yield)
		if err != nil {
			slog.Debug("openai: stream failed", "model", c.model, "fragments", fragments, "error", err)
			yield("", err)
			return
		}
		slog.Debug("openai: stream complete", "model", c.model, "fragments", fragments, "elapsed", time.Since(start))
	}
}

// open issues the HTTP request and returns the event stream body.
func (c *Client) open(ctx context.Context, req llm.Request) (io.ReadCloser, error) {
	if c.apiKey == "" {
		return nil, &ProviderError{Message: "API key not configured"}
	}

	payload := chatRequest{
		Model:               c.model,
		Messages:            make([]chatMessage, 0, len(req.Messages)),
		Stream:              true,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         req.Temperature,
		TopP:                req.TopP,
	}
	for _, m := range req.Messages {
		payload.Messages = append(payload.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}
	return resp.Body, nil
}

// readEvents scans server-sent events and yields every non-empty delta. It
// returns the number of fragments yielded. A body that ends before the done
// marker is reported as a ProviderError.
func readEvents(r io.Reader, yield func(string, error) bool) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialLineBuf), maxStreamLine)

	fragments := 0
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
		if data == "" {
			continue
		}
		if data == doneMarker {
			return fragments, nil
		}

		var chunk chatChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return fragments, fmt.Errorf("decoding stream chunk: %w", err)
		}
		if chunk.Error != nil {
			return fragments, &ProviderError{Message: chunk.Error.Message}
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		fragments++
		if !yield(chunk.Choices[0].Delta.Content, nil) {
			return fragments, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fragments, fmt.Errorf("reading stream: %w", err)
	}
	return fragments, &ProviderError{Message: "stream ended before " + doneMarker}
}

// Verify interface compliance.
var _ llm.Completer = (*Client)(nil)
