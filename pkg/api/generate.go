package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/achneerov/dreamrender/pkg/generate"
	"github.com/achneerov/dreamrender/pkg/middleware"
)

// maxRequestBody bounds a generation request. It carries a full page of
// markup as context.
const maxRequestBody = 10 << 20

// generate handles POST /api/generate.
//
// @Summary      Generate a page
// @Description  Streams a generated HTML page as plain text. An empty currentContext requests the first page of a session; otherwise the next page reached by the action in prompt. The body is relayed unsanitized. A failure after streaming began aborts the connection.
// @Tags         Generation
// @Accept       json
// @Produce      plain
// @Param        request  body      generate.Request  true  "Generation request"
// @Success      200      {string}  string            "Raw page markup"
// @Failure      400      {object}  errorResponse
// @Failure      500      {object}  errorResponse
// @Router       /api/generate [post]
func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req generate.Request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	sw := newStreamWriter(w)
	res, err := h.deps.Generator.Generate(r.Context(), req, sw.write)
	if err != nil {
		slog.Error("api: generation failed",
			"request_id", middleware.RequestID(r.Context()),
			"session_id", req.SessionID,
			"kind", req.Kind(),
			"fragments", res.Fragments,
			"error", err,
		)
		if !sw.started {
			writeError(w, http.StatusInternalServerError, "Failed to generate content", errorDetails(err))
			return
		}
		// The status line is already sent; abort so the client sees a
		// truncated body.
		panic(http.ErrAbortHandler)
	}
	sw.start()

	slog.Info("api: generation complete",
		"request_id", middleware.RequestID(r.Context()),
		"session_id", req.SessionID,
		"kind", res.Kind,
		"fragments", res.Fragments,
		"chars", res.Chars,
	)
}

// errorDetails prefers the collaborator's message over the wrapper's.
func errorDetails(err error) string {
	var ge *generate.Error
	if errors.As(err, &ge) && ge.Err != nil {
		return ge.Err.Error()
	}
	return err.Error()
}

// streamWriter writes fragments as chunks, flushing after each one.
type streamWriter struct {
	w       http.ResponseWriter
	rc      *http.ResponseController
	started bool
}

func newStreamWriter(w http.ResponseWriter) *streamWriter {
	return &streamWriter{w: w, rc: http.NewResponseController(w)}
}

func (s *streamWriter) start() {
	if s.started {
		return
	}
	s.started = true
	s.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	s.w.Header().Set("Cache-Control", "no-cache")
	s.w.Header().Set("X-Content-Type-Options", "nosniff")
	s.w.WriteHeader(http.StatusOK)
}

func (s *streamWriter) write(fragment string) error {
	s.start()
	if _, err := io.WriteString(s.w, fragment); err != nil {
		return err //nolint:wrapcheck // reported by the orchestrator
	}
	if err := s.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err //nolint:wrapcheck // reported by the orchestrator
	}
	return nil
}
