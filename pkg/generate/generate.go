// Package generate turns a page request into a streamed model completion.
//
// The Orchestrator resolves the prompt (a themed first page or the next page
// of an existing site), records the session's generation context, and relays
// every model fragment to the caller as it arrives. The relayed text is not
// sanitized; clients clean the fully assembled body.
package generate

import (
	"errors"
	"fmt"
)

const (
	// KindInitial is the first page of a session.
	KindInitial = "initial"

	// KindNavigation is a page reached from a previous page.
	KindNavigation = "navigation"
)

// DefaultPrompt is the request prompt clients send for the first page.
const DefaultPrompt = "Create a random, creative website"

// Default sampling parameters.
const (
	DefaultTemperature = 0.7
	DefaultTopP        = 0.8
	DefaultMaxTokens   = 20000
)

// Request is the body of a generation request.
type Request struct {
	// Prompt is the action taken. It is ignored for initial generations.
	Prompt string `json:"prompt"`

	// SessionID is the client-minted session identifier.
	SessionID string `json:"sessionId"`

	// CurrentContext is the markup of the page the action was taken on.
	// An empty value requests an initial generation.
	CurrentContext string `json:"currentContext,omitempty"`

	// CachedPages lists the page keys the client already holds.
	CachedPages []string `json:"cachedPages,omitempty"`
}

// Kind reports whether r is an initial or a navigation generation.
func (r Request) Kind() string {
	if r.CurrentContext == "" {
		return KindInitial
	}
	return KindNavigation
}

// Result summarizes a completed generation.
type Result struct {
	Kind      string
	Keyword   string
	Fragments int
	Chars     int
}

// Params are the sampling parameters sent to the model.
type Params struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// DefaultParams returns the default sampling parameters.
func DefaultParams() Params {
	return Params{
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
		MaxTokens:   DefaultMaxTokens,
	}
}

// Error reports a failed generation. It wraps the collaborator error.
type Error struct {
	Kind string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsError reports whether err is or wraps a generation failure.
func IsError(err error) bool {
	var ge *Error
	return errors.As(err, &ge)
}
