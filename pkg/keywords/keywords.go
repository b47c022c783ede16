// Package keywords supplies the theme words used to seed initial page
// generation.
package keywords

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"
)

//go:embed keywords.json
var defaultList []byte

// Source picks a theme keyword.
type Source interface {
	Random() string
}

// file is the on-disk format of a keyword list.
type file struct {
	Keywords []string `json:"keywords"`
}

// List is a fixed set of keywords with a random picker. It is safe for
// concurrent use.
type List struct {
	words []string

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a List from words. A nil rng uses a randomly seeded source.
func New(words []string, rng *rand.Rand) (*List, error) {
	if len(words) == 0 {
		return nil, errors.New("keyword list is empty")
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // theme selection is not security sensitive
	}
	return &List{words: append([]string(nil), words...), rng: rng}, nil
}

// Default returns the embedded keyword list.
func Default() (*List, error) {
	return parse(defaultList)
}

// Load reads a {"keywords": [...]} file.
func Load(path string) (*List, error) {
	// #nosec G304 -- path is from configuration, controlled by admin
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keywords file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*List, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing keywords: %w", err)
	}
	return New(f.Keywords, nil)
}

// Len returns the number of keywords.
func (l *List) Len() int {
	return len(l.words)
}

// Random returns one keyword chosen uniformly.
func (l *List) Random() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.words[l.rng.IntN(len(l.words))]
}

// Verify interface compliance.
var _ Source = (*List)(nil)
