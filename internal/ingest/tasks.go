package ingest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"vectorvision/internal/contextutil"
	"vectorvision/internal/service"
	"vectorvision/internal/storage"
)

// Status is the lifecycle state of an ingestion task.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Task is one background ingestion of a folder.
type Task struct {
	ID        string
	Folder    storage.FolderRecord
	StartedAt time.Time

	done chan struct{}

	mu         sync.Mutex
	status     Status
	report     Report
	err        error
	finishedAt time.Time
}

// Snapshot is a point-in-time copy of a task's state.
type Snapshot struct {
	ID         string     `json:"id"`
	FolderID   int64      `json:"folder_id"`
	FolderPath string     `json:"folder_path"`
	Status     Status     `json:"status"`
	Report     Report     `json:"report"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Done is closed when the task finishes.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) (Report, error) {
	select {
	case <-t.done:
		return t.Result()
	case <-ctx.Done():
		return Report{}, ctx.Err()
	}
}

// Result returns the report and error recorded so far.
func (t *Task) Result() (Report, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.report, t.err
}

// Status returns the current status.
func (t *Task) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Snapshot returns a copy of the task state.
func (t *Task) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Snapshot{
		ID:         t.ID,
		FolderID:   t.Folder.ID,
		FolderPath: t.Folder.Path,
		Status:     t.status,
		Report:     t.report,
		StartedAt:  t.StartedAt,
	}
	if t.err != nil {
		s.Error = t.err.Error()
	}
	if !t.finishedAt.IsZero() {
		finished := t.finishedAt
		s.FinishedAt = &finished
	}
	return s
}

func (t *Task) finish(report Report, err error) {
	t.mu.Lock()
	t.report = report
	t.err = err
	t.finishedAt = time.Now()
	if err != nil {
		t.status = StatusFailed
	} else {
		t.status = StatusCompleted
	}
	t.mu.Unlock()
	close(t.done)
}

// Tracker runs ingestion tasks in the background and keeps their history.
// At most one task per folder runs at a time.
type Tracker struct {
	pipeline *Pipeline

	mu      sync.Mutex
	tasks   map[string]*Task
	running map[int64]*Task
	wg      sync.WaitGroup
}

// NewTracker creates a tracker that runs tasks with pipeline.
func NewTracker(pipeline *Pipeline) *Tracker {
	return &Tracker{
		pipeline: pipeline,
		tasks:    make(map[string]*Task),
		running:  make(map[int64]*Task),
	}
}

// Start launches ingestion of folder on its own goroutine. The task keeps
// running after ctx is canceled; only the logger is taken from it.
func (tr *Tracker) Start(ctx context.Context, folder storage.FolderRecord) (*Task, error) {
	tr.mu.Lock()
	if existing, ok := tr.running[folder.ID]; ok {
		tr.mu.Unlock()
		return nil, service.Wrap(service.ErrIngestBusy, service.CodeIngestBusy, "start ingestion",
			"folder", folder.Path, "task_id", existing.ID)
	}

	task := &Task{
		ID:        uuid.New().String(),
		Folder:    folder,
		StartedAt: time.Now(),
		done:      make(chan struct{}),
		status:    StatusRunning,
	}
	tr.tasks[task.ID] = task
	tr.running[folder.ID] = task
	tr.wg.Add(1)
	tr.mu.Unlock()

	taskCtx := contextutil.Detach(ctx)
	logger := contextutil.LoggerFromContext(taskCtx).With("task_id", task.ID, "folder", folder.Path)
	taskCtx = contextutil.WithLogger(taskCtx, logger)

	go func() {
		defer tr.wg.Done()

		logger.InfoContext(taskCtx, "ingestion started")
		report, err := tr.pipeline.IngestFolder(taskCtx, folder)
		if err != nil {
			logger.ErrorContext(taskCtx, "ingestion failed", "error", err)
		} else {
			logger.InfoContext(taskCtx, "ingestion completed", "files", report.Files, "indexed", report.Indexed)
		}

		tr.mu.Lock()
		delete(tr.running, folder.ID)
		tr.mu.Unlock()
		task.finish(report, err)
	}()

	return task, nil
}

// Get returns the task with id.
func (tr *Tracker) Get(id string) (*Task, bool) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	task, ok := tr.tasks[id]
	return task, ok
}

// List returns all tasks, oldest first.
func (tr *Tracker) List() []*Task {
	tr.mu.Lock()
	tasks := make([]*Task, 0, len(tr.tasks))
	for _, task := range tr.tasks {
		tasks = append(tasks, task)
	}
	tr.mu.Unlock()

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].StartedAt.Equal(tasks[j].StartedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].StartedAt.Before(tasks[j].StartedAt)
	})
	return tasks
}

// Wait blocks until every started task has finished.
func (tr *Tracker) Wait() {
	tr.wg.Wait()
}
