package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vectorvision/internal/ingest"
	"vectorvision/internal/service"
)

// TaskSource lists ingestion tasks.
type TaskSource interface {
	List() []*ingest.Task
	Get(id string) (*ingest.Task, bool)
}

// TaskHandler serves ingestion task status.
type TaskHandler struct {
	tasks TaskSource
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks TaskSource) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// List handles GET /api/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks := h.tasks.List()
	resp := make([]ingest.Snapshot, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, t.Snapshot())
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, ok := h.tasks.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "task not found", service.CodeResourceNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, task.Snapshot())
}
