package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/achneerov/dreamrender/pkg/images"
)

// searchImages handles GET /api/images/search.
//
// @Summary      Search images
// @Description  Relays a Pixabay image search. per_page is raised to at least 3; safesearch is always on.
// @Tags         Images
// @Produce      json
// @Param        q            query  string   true   "Search terms"
// @Param        image_type   query  string   false  "all, photo, illustration, vector (default: photo)"
// @Param        per_page     query  integer  false  "Results per page, minimum 3 (default: 3)"
// @Param        page         query  integer  false  "Page number (default: 1)"
// @Param        orientation  query  string   false  "horizontal or vertical"
// @Param        category     query  string   false  "Pixabay category"
// @Success      200  {object}  images.Result
// @Failure      400  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/images/search [get]
func (h *Handler) searchImages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := images.Query{
		Q:           q.Get("q"),
		ImageType:   q.Get("image_type"),
		PerPage:     atoiOr(q.Get("per_page"), images.MinPerPage),
		Page:        atoiOr(q.Get("page"), 1),
		Orientation: q.Get("orientation"),
		Category:    q.Get("category"),
	}
	if query.Q == "" {
		writeError(w, http.StatusBadRequest, "Search query (q) is required", "")
		return
	}

	res, err := h.deps.Images.Search(r.Context(), query)
	if errors.Is(err, images.ErrMissingQuery) {
		writeError(w, http.StatusBadRequest, "Search query (q) is required", "")
		return
	}
	if err != nil {
		slog.Error("api: image search failed", "query", query.Q, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch images", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Raw)
}

// atoiOr parses s, returning fallback when s is not an integer.
func atoiOr(s string, fallback int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return fallback
}
