package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultPixabayURL is the Pixabay image API.
	DefaultPixabayURL = "https://pixabay.com/api/"

	// MinPerPage is the smallest page size Pixabay accepts.
	MinPerPage = 3

	defaultImageType = "photo"
	defaultTimeout   = 15 * time.Second
	maxResponseBody  = 4 << 20
	maxErrorBody     = 4096
)

// PixabayConfig configures a Pixabay client.
type PixabayConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Pixabay implements Searcher against the Pixabay API.
type Pixabay struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewPixabay creates a Pixabay client.
func NewPixabay(cfg PixabayConfig) *Pixabay {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultPixabayURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Pixabay{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
	}
}

// ProviderError reports a non-200 answer from Pixabay.
type ProviderError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ProviderError) Error() string {
	return "pixabay API error: " + e.Status
}

// values builds the query string, applying defaults. per_page is clamped to
// MinPerPage because Pixabay rejects smaller pages.
func (p *Pixabay) values(q Query) url.Values {
	v := url.Values{}
	v.Set("key", p.apiKey)
	v.Set("q", q.Q)

	imageType := q.ImageType
	if imageType == "" {
		imageType = defaultImageType
	}
	v.Set("image_type", imageType)
	v.Set("per_page", strconv.Itoa(max(MinPerPage, q.PerPage)))
	v.Set("page", strconv.Itoa(max(1, q.Page)))
	v.Set("safesearch", "true")

	if q.Orientation != "" {
		v.Set("orientation", q.Orientation)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	return v
}

// Search runs q against Pixabay.
func (p *Pixabay) Search(ctx context.Context, q Query) (*Result, error) {
	if strings.TrimSpace(q.Q) == "" {
		return nil, ErrMissingQuery
	}

	v := p.values(q)
	reqURL := p.baseURL + "?" + v.Encode()

	// The key is never logged.
	v.Del("key")
	slog.Debug("images: pixabay request", "query", v.Encode(), "key_present", p.apiKey != "")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", redact(err, p.apiKey))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		slog.Warn("images: pixabay error response", "status", resp.StatusCode, "body", string(body))
		return nil, &ProviderError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode), Body: string(body)}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	res.Raw = raw
	return &res, nil
}

// redact strips the API key from transport errors, which embed the URL.
func redact(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), key, "API_KEY_HIDDEN"), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

// Verify interface compliance.
var _ Searcher = (*Pixabay)(nil)
