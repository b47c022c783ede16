// Package pagecache memoizes generated pages on the client side.
//
// A Cache layers a volatile Storage in front of an optional persistent one.
// Every entry is stored under a common prefix so that a new session can purge
// exactly the pages it owns without touching unrelated keys.
package pagecache

import "context"

// Storage is a flat string key/value store.
type Storage interface {
	// Get returns the value for key. A missing key is not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists every stored key.
	Keys(ctx context.Context) ([]string, error)
}
