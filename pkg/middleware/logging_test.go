package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLogging(t *testing.T) {
	t.Run("records status and keeps flusher", func(t *testing.T) {
		var flushed bool
		handler := Logging()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("chunk"))
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
				flushed = true
			}
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

		if rec.Code != http.StatusTeapot {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
		}
		if !flushed || !rec.Flushed {
			t.Error("expected flush to reach the underlying writer")
		}
	})

	t.Run("implicit 200", func(t *testing.T) {
		r := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
		_, _ = r.Write([]byte("abc"))
		if r.status != http.StatusOK {
			t.Errorf("status = %d, want %d", r.status, http.StatusOK)
		}
		if r.bytes != 3 {
			t.Errorf("bytes = %d, want 3", r.bytes)
		}
		if r.Unwrap() == nil {
			t.Error("Unwrap() returned nil")
		}
	})
}
