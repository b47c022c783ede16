// Package images searches a stock-photo provider for the keywords carried by
// generated image placeholders.
package images

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrMissingQuery is returned when a search has no query text.
var ErrMissingQuery = errors.New("search query (q) is required")

// Query describes an image search.
type Query struct {
	Q           string
	ImageType   string
	PerPage     int
	Page        int
	Orientation string
	Category    string
}

// Result is a provider response. Raw holds the provider's JSON unchanged so
// it can be relayed to clients as is.
type Result struct {
	Total     int   `json:"total"`
	TotalHits int   `json:"totalHits"`
	Hits      []Hit `json:"hits"`

	Raw json.RawMessage `json:"-"`
}

// Hit is a single image.
type Hit struct {
	ID            int    `json:"id"`
	Tags          string `json:"tags"`
	PreviewURL    string `json:"previewURL"`
	WebformatURL  string `json:"webformatURL"`
	LargeImageURL string `json:"largeImageURL"`
	ImageWidth    int    `json:"imageWidth"`
	ImageHeight   int    `json:"imageHeight"`
}

// Searcher finds images.
type Searcher interface {
	Search(ctx context.Context, q Query) (*Result, error)
}
