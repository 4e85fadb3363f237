package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"vectorvision/internal/contextutil"
	"vectorvision/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string       `json:"error"`
	Code  service.Code `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := contextutil.LoggerFromContext(r.Context())
		logger.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, code service.Code) {
	writeJSON(w, r, status, ErrorResponse{Error: message, Code: code})
}

// writeServiceError maps domain errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	code := service.CodeOf(err)
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, r, http.StatusBadRequest, validationErr.Error(), service.CodeQueryInvalidInput)
	case errors.Is(err, service.ErrInvalidQueryInput):
		writeError(w, r, http.StatusBadRequest, err.Error(), service.CodeQueryInvalidInput)
	case errors.Is(err, service.ErrFilesystemAccess):
		writeError(w, r, http.StatusBadRequest, err.Error(), service.CodeWalkAccess)
	case errors.Is(err, service.ErrDuplicatePath):
		writeError(w, r, http.StatusConflict, err.Error(), service.CodeFolderDuplicate)
	case errors.Is(err, service.ErrIngestBusy):
		writeError(w, r, http.StatusConflict, err.Error(), service.CodeIngestBusy)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found", service.CodeResourceNotFound)
	case errors.Is(err, service.ErrIndexUnavailable):
		logger.ErrorContext(ctx, "vector index unavailable", "error", err)
		writeError(w, r, http.StatusServiceUnavailable, "vector index unavailable", service.CodeIndexUnavailable)
	case errors.Is(err, service.ErrEmbeddingService):
		logger.ErrorContext(ctx, "embedding service failed", "error", err)
		writeError(w, r, http.StatusBadGateway, "embedding service failed", service.CodeEmbeddingFailure)
	default:
		logger.ErrorContext(ctx, "request failed", "error", err, "code", code)
		writeError(w, r, http.StatusInternalServerError, "internal server error", service.CodeInternalFailure)
	}
}

func decodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &service.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return id, nil
}
