package handlers

import (
	"net/http"

	"vectorvision/internal/contextutil"
	"vectorvision/internal/ingest"
	"vectorvision/internal/navigation"
	"vectorvision/internal/service"
)

// TreeRequest is the payload of POST /api/navigation/tree.
type TreeRequest struct {
	FolderID int64 `json:"folder_id"`
}

// NavigationHandler exposes the navigator to display clients.
type NavigationHandler struct {
	navigator *navigation.Navigator
	library   Library
}

// NewNavigationHandler creates a new NavigationHandler.
func NewNavigationHandler(navigator *navigation.Navigator, library Library) *NavigationHandler {
	return &NavigationHandler{navigator: navigator, library: library}
}

// State handles GET /api/navigation.
func (h *NavigationHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.navigator.State())
}

// Next handles POST /api/navigation/next.
func (h *NavigationHandler) Next(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.navigator.Next())
}

// Prev handles POST /api/navigation/prev.
func (h *NavigationHandler) Prev(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.navigator.Prev())
}

// Tree handles POST /api/navigation/tree. It switches to TREE mode over
// the image files of the requested folder.
func (h *NavigationHandler) Tree(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req TreeRequest
	if err := decodeJSON(r, &req); err != nil || req.FolderID <= 0 {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid tree request", "error", err)
		writeError(w, r, http.StatusBadRequest, "folder_id is required", service.CodeQueryInvalidInput)
		return
	}

	files, err := h.library.Files(ctx, req.FolderID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items := make([]navigation.Item, 0, len(files))
	for _, f := range files {
		if !ingest.IsImage(f.FullPath) {
			continue
		}
		items = append(items, navigation.Item{Path: f.FullPath, Rank: len(items), FileID: f.ID})
	}
	h.navigator.ShowTree(req.FolderID, items)
	writeJSON(w, r, http.StatusOK, h.navigator.State())
}
