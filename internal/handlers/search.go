package handlers

import (
	"net/http"

	"vectorvision/internal/contextutil"
	"vectorvision/internal/retrieval"
	"vectorvision/internal/service"
)

// TextSearchRequest is the payload of POST /api/search/text.
type TextSearchRequest struct {
	Text string `json:"text"`
}

// ImageSearchRequest is the payload of POST /api/search/image.
type ImageSearchRequest struct {
	ImagePath string `json:"image_path"`
}

// SearchResponse wraps a ranked query result.
type SearchResponse struct {
	Results retrieval.QueryResult `json:"results"`
}

// SearchHandler serves similarity queries.
type SearchHandler struct {
	retrieval retrieval.Service
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(retrieval retrieval.Service) *SearchHandler {
	return &SearchHandler{retrieval: retrieval}
}

// Text handles POST /api/search/text.
//
// An empty text or an empty index answers 200 with no results.
func (h *SearchHandler) Text(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req TextSearchRequest
	if err := decodeJSON(r, &req); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, r, http.StatusBadRequest, "invalid request body", service.CodeQueryInvalidInput)
		return
	}

	result, err := h.retrieval.QueryByText(ctx, req.Text)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, SearchResponse{Results: result})
}

// Image handles POST /api/search/image.
//
// A missing or unreadable image_path answers 400; an unreachable index 503.
func (h *SearchHandler) Image(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ImageSearchRequest
	if err := decodeJSON(r, &req); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, r, http.StatusBadRequest, "invalid request body", service.CodeQueryInvalidInput)
		return
	}

	result, err := h.retrieval.QueryByImage(ctx, req.ImagePath)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, SearchResponse{Results: result})
}
