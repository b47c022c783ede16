// Package health provides readiness state tracking and HTTP health check
// handlers for the generation server.
package health

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
)

// State constants for the readiness state machine.
const (
	stateStarting int32 = iota
	stateReady
	stateDraining
)

// Gauge reports a live count included in readiness responses, such as the
// number of tracked session contexts.
type Gauge func() int

// Checker tracks the readiness state of the server.
// It is safe for concurrent use.
type Checker struct {
	state atomic.Int32

	mu     sync.RWMutex
	gauges map[string]Gauge
}

// NewChecker creates a Checker in the Starting state.
func NewChecker() *Checker {
	return &Checker{gauges: make(map[string]Gauge)}
}

// SetReady transitions to the Ready state.
func (c *Checker) SetReady() {
	c.state.Store(stateReady)
}

// SetDraining transitions to the Draining state.
func (c *Checker) SetDraining() {
	c.state.Store(stateDraining)
}

// IsReady returns true when the state is Ready.
func (c *Checker) IsReady() bool {
	return c.state.Load() == stateReady
}

// State returns the current state as a human-readable string.
func (c *Checker) State() string {
	switch c.state.Load() {
	case stateReady:
		return "ready"
	case stateDraining:
		return "draining"
	default:
		return "starting"
	}
}

// AddGauge registers a named count reported by the readiness handler.
// Registering the same name again replaces the gauge.
func (c *Checker) AddGauge(name string, g Gauge) {
	if g == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gauges[name] = g
}

// Gauges samples every registered gauge.
func (c *Checker) Gauges() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.gauges) == 0 {
		return nil
	}
	out := make(map[string]int, len(c.gauges))
	for name, g := range c.gauges {
		out[name] = g()
	}
	return out
}

// healthResponse is the JSON body returned by health endpoints.
type healthResponse struct {
	Status string         `json:"status"`
	Gauges map[string]int `json:"gauges,omitempty"`
}

// LivenessHandler returns an http.HandlerFunc that always responds 200 OK.
// Use this for K8s livenessProbe (/healthz).
func (*Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}

// ReadinessHandler returns an http.HandlerFunc that responds 200 when ready
// and 503 when starting or draining. The body carries the sampled gauges.
// Use this for K8s readinessProbe (/readyz).
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := healthResponse{Status: c.State(), Gauges: c.Gauges()}
		if c.IsReady() {
			writeJSON(w, http.StatusOK, resp)
			return
		}
		writeJSON(w, http.StatusServiceUnavailable, resp)
	}
}

func writeJSON(w http.ResponseWriter, code int, v healthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
