package handlers

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_library.go -package=mocks vectorvision/internal/handlers Library

import (
	"context"
	"net/http"
	"time"

	"vectorvision/internal/contextutil"
	"vectorvision/internal/ingest"
	"vectorvision/internal/service"
	"vectorvision/internal/storage"
)

// Library is the folder registry as seen by the HTTP layer.
type Library interface {
	RegisterFolder(ctx context.Context, path string) (storage.FolderRecord, *ingest.Task, error)
	ListFolders(ctx context.Context) ([]storage.FolderRecord, error)
	Folder(ctx context.Context, id int64) (storage.FolderRecord, error)
	Files(ctx context.Context, folderID int64) ([]storage.FileRecord, error)
}

// FolderResponse is a registered folder.
type FolderResponse struct {
	ID        int64     `json:"id"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// FileResponse is one file record of a folder.
type FileResponse struct {
	ID       int64  `json:"id"`
	FolderID int64  `json:"folder_id"`
	Filename string `json:"filename"`
	FullPath string `json:"full_path"`
	IsImage  bool   `json:"is_image"`
}

// RegisterFolderRequest is the payload of POST /api/folders.
type RegisterFolderRequest struct {
	Path string `json:"path"`
}

// RegisterFolderResponse is returned when a folder is accepted for ingestion.
type RegisterFolderResponse struct {
	Folder FolderResponse `json:"folder"`
	TaskID string         `json:"task_id"`
}

// FolderHandler serves the folder registry endpoints.
type FolderHandler struct {
	library Library
}

// NewFolderHandler creates a new FolderHandler.
func NewFolderHandler(library Library) *FolderHandler {
	return &FolderHandler{library: library}
}

// List handles GET /api/folders.
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	folders, err := h.library.ListFolders(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := make([]FolderResponse, 0, len(folders))
	for _, f := range folders {
		resp = append(resp, toFolderResponse(f))
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// Register handles POST /api/folders. The folder is recorded synchronously
// and ingested in the background; the response carries the task id.
func (h *FolderHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req RegisterFolderRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, r, http.StatusBadRequest, "invalid request body", service.CodeQueryInvalidInput)
		return
	}

	folder, task, err := h.library.RegisterFolder(ctx, req.Path)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusAccepted, RegisterFolderResponse{
		Folder: toFolderResponse(folder),
		TaskID: task.ID,
	})
}

// Files handles GET /api/folders/{id}/files.
func (h *FolderHandler) Files(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	files, err := h.library.Files(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := make([]FileResponse, 0, len(files))
	for _, f := range files {
		resp = append(resp, FileResponse{
			ID:       f.ID,
			FolderID: f.FolderID,
			Filename: f.Filename,
			FullPath: f.FullPath,
			IsImage:  ingest.IsImage(f.FullPath),
		})
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func toFolderResponse(f storage.FolderRecord) FolderResponse {
	return FolderResponse{ID: f.ID, Path: f.Path, CreatedAt: f.CreatedAt}
}
