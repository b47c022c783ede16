package middleware

import "net/http"

// Middleware wraps a handler with additional logic.
type Middleware func(http.Handler) http.Handler

// Chain holds an ordered list of middleware.
type Chain struct {
	middlewares []Middleware
}

// NewChain creates a new middleware chain.
func NewChain(mws ...Middleware) *Chain {
	c := &Chain{middlewares: make([]Middleware, 0, len(mws))}
	for _, mw := range mws {
		c.Use(mw)
	}
	return c
}

// Use appends middleware. The first added runs outermost.
func (c *Chain) Use(mw Middleware) {
	c.middlewares = append(c.middlewares, mw)
}

// Wrap wraps a handler with the middleware chain.
func (c *Chain) Wrap(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		wrapped = c.middlewares[i](wrapped)
	}
	return wrapped
}

// Default returns the chain used by the API server: request identification,
// panic recovery, then access logging.
func Default() *Chain {
	return NewChain(RequestIDMiddleware(), Recover(), Logging())
}
