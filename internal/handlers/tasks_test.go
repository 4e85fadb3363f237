package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"vectorvision/internal/ingest"
	"vectorvision/internal/storage"
)

type fakeTasks struct {
	tasks []*ingest.Task
}

func (f *fakeTasks) List() []*ingest.Task {
	return f.tasks
}

func (f *fakeTasks) Get(id string) (*ingest.Task, bool) {
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

func TestTaskHandler(t *testing.T) {
	source := &fakeTasks{tasks: []*ingest.Task{
		{ID: "t-1", Folder: storage.FolderRecord{ID: 1, Path: "/photos"}},
		{ID: "t-2", Folder: storage.FolderRecord{ID: 2, Path: "/scans"}},
	}}
	h := NewTaskHandler(source)

	r := chi.NewRouter()
	r.Get("/api/tasks", h.List)
	r.Get("/api/tasks/{id}", h.Get)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var list []ingest.Snapshot
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[1].FolderPath != "/scans" {
		t.Errorf("list = %+v", list)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks/t-1", nil))
	var one ingest.Snapshot
	if err := json.NewDecoder(w.Body).Decode(&one); err != nil {
		t.Fatal(err)
	}
	if one.ID != "t-1" || one.FolderID != 1 {
		t.Errorf("task = %+v", one)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("missing task status = %d, want 404", w.Code)
	}
}
