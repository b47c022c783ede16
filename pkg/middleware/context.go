// Package middleware provides the HTTP middleware chain for the API server.
package middleware

import (
	"context"
	"time"
)

// contextKey is a private type for context keys.
type contextKey int

const (
	requestContextKey contextKey = iota
)

// RequestContext holds per-request metadata shared by the middleware and
// the handlers behind it.
type RequestContext struct {
	RequestID string
	StartTime time.Time
	Method    string
	Path      string
	Remote    string
}

// NewRequestContext creates a new request context.
func NewRequestContext(requestID string) *RequestContext {
	return &RequestContext{
		RequestID: requestID,
		StartTime: time.Now(),
	}
}

// WithRequestContext adds request context to the context.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey, rc)
}

// GetRequestContext retrieves request context from the context.
func GetRequestContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(requestContextKey).(*RequestContext); ok {
		return rc
	}
	return nil
}

// RequestID returns the request ID carried by ctx, or "".
func RequestID(ctx context.Context) string {
	if rc := GetRequestContext(ctx); rc != nil {
		return rc.RequestID
	}
	return ""
}
