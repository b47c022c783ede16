package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestIDMiddleware(t *testing.T) {
	var rc *RequestContext
	handler := RequestIDMiddleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		rc = GetRequestContext(r.Context())
	}))

	t.Run("generates id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate", http.NoBody))

		if rc == nil {
			t.Fatal("request context not set")
		}
		if len(rc.RequestID) != 36 {
			t.Errorf("RequestID = %q, want a UUID", rc.RequestID)
		}
		if rc.Method != http.MethodPost || rc.Path != "/api/generate" {
			t.Errorf("Method/Path = %s %s", rc.Method, rc.Path)
		}
		if rec.Header().Get(RequestIDHeader) != rc.RequestID {
			t.Error("response header does not echo request id")
		}
	})

	t.Run("reuses client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		req.Header.Set(RequestIDHeader, "client-1")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if rc.RequestID != "client-1" {
			t.Errorf("RequestID = %q, want %q", rc.RequestID, "client-1")
		}
	})

	t.Run("rejects oversized client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if len(rc.RequestID) != 36 {
			t.Errorf("RequestID = %q, want a generated UUID", rc.RequestID)
		}
	})
}
