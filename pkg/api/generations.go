package api

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/achneerov/dreamrender/pkg/audit"
)

const (
	defaultGenerationLimit = 50
	maxGenerationLimit     = 1000
)

// generationListResponse wraps a page of generation log events.
type generationListResponse struct {
	Data   []audit.Event `json:"data"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// listGenerations handles GET /api/v1/generations.
//
// @Summary      List generations
// @Description  Returns recorded generations, newest first.
// @Tags         Generation
// @Produce      json
// @Param        session_id  query  string   false  "Filter by session ID"
// @Param        kind        query  string   false  "initial or navigation"
// @Param        success     query  boolean  false  "Filter by outcome"
// @Param        start_time  query  string   false  "Events after this time (RFC 3339)"
// @Param        end_time    query  string   false  "Events before this time (RFC 3339)"
// @Param        limit       query  integer  false  "Maximum events (default: 50, max: 1000)"
// @Param        offset      query  integer  false  "Events to skip"
// @Success      200  {object}  generationListResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/generations [get]
func (h *Handler) listGenerations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := audit.QueryFilter{
		SessionID: q.Get("session_id"),
		Kind:      q.Get("kind"),
		StartTime: parseTimeParam(q, "start_time"),
		EndTime:   parseTimeParam(q, "end_time"),
		Limit:     atoiOr(q.Get("limit"), defaultGenerationLimit),
		Offset:    max(0, atoiOr(q.Get("offset"), 0)),
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultGenerationLimit
	}
	filter.Limit = min(filter.Limit, maxGenerationLimit)

	if v := q.Get("success"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.Success = &b
		}
	}

	events, err := h.deps.Audit.Query(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to query generations", err.Error())
		return
	}
	if events == nil {
		events = []audit.Event{}
	}

	writeJSON(w, http.StatusOK, generationListResponse{
		Data:   events,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// parseTimeParam parses an RFC3339 time from a query parameter.
func parseTimeParam(q url.Values, key string) *time.Time {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}
