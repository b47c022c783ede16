package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/achneerov/dreamrender/pkg/generate"
)

func TestNewDefaults(t *testing.T) {
	c := New(Config{})
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Zero(t, c.httpClient.Timeout)

	c = New(Config{BaseURL: "http://example.test/"})
	assert.Equal(t, "http://example.test", c.baseURL)
}

func TestGenerate(t *testing.T) {
	var got generate.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "text/plain")
		f := w.(http.Flusher)
		for _, chunk := range []string{"```html\n", "<html>", "</html>"} {
			_, _ = w.Write([]byte(chunk))
			f.Flush()
		}
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	req := generate.Request{Prompt: "about", SessionID: "s1", CurrentContext: "<p>", CachedPages: []string{"Home"}}
	body, err := c.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "```html\n<html></html>", body)
	assert.Equal(t, req, got)
}

func TestGenerateInitialOmitsContext(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL}).Generate(context.Background(), generate.Request{Prompt: generate.DefaultPrompt, SessionID: "s"})
	require.NoError(t, err)
	assert.NotContains(t, raw, "currentContext")
	assert.Equal(t, "s", raw["sessionId"])
}

func TestGenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to generate content","details":"quota exceeded"}`))
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL}).Generate(context.Background(), generate.Request{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Failed to generate content", apiErr.Message)
	assert.Equal(t, "quota exceeded", apiErr.Details)
	assert.Equal(t, "server returned 500: Failed to generate content: quota exceeded", err.Error())
}

func TestGenerateNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL}).Generate(context.Background(), generate.Request{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "bad gateway", apiErr.Message)
}

func TestGenerateTruncatedStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>partial"))
		w.(http.Flusher).Flush()
		panic(http.ErrAbortHandler)
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL}).Generate(context.Background(), generate.Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading generated page")
}

func TestGenerateContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{BaseURL: "http://127.0.0.1:1"}).Generate(ctx, generate.Request{})
	assert.True(t, errors.Is(err, context.Canceled))
}
