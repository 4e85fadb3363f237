package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"vectorvision/internal/contextutil"
	"vectorvision/internal/ingest"
	"vectorvision/internal/service"
	"vectorvision/internal/storage"
)

// Manager owns the set of registered folders and starts their ingestion.
type Manager struct {
	folders storage.FolderStore
	files   storage.FileStore
	tracker *ingest.Tracker
}

// NewManager creates a new library manager.
func NewManager(folders storage.FolderStore, files storage.FileStore, tracker *ingest.Tracker) *Manager {
	return &Manager{
		folders: folders,
		files:   files,
		tracker: tracker,
	}
}

// NormalizePath returns the absolute, cleaned form of path.
func NormalizePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", &service.ValidationError{Field: "path", Message: "cannot be empty"}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return filepath.Clean(abs), nil
}

// ResolveFolder turns path into the folder's identity in the registry: the
// normalized path with symlinks resolved. The path must be an existing
// directory.
func ResolveFolder(path string) (string, error) {
	normalized, err := NormalizePath(path)
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(normalized)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &service.ValidationError{Field: "path", Message: normalized + " does not exist"}
	}
	if err != nil {
		return "", service.FilesystemAccess(err, normalized)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", service.FilesystemAccess(err, resolved)
	}
	if !info.IsDir() {
		return "", &service.ValidationError{Field: "path", Message: normalized + " is not a directory"}
	}
	return resolved, nil
}

// RegisterFolder records path and starts ingesting it in the background.
// The path must be an existing directory. A path that is already registered
// fails with service.ErrDuplicatePath and nothing is written or started.
func (m *Manager) RegisterFolder(ctx context.Context, path string) (storage.FolderRecord, *ingest.Task, error) {
	logger := contextutil.LoggerFromContext(ctx)

	resolved, err := ResolveFolder(path)
	if err != nil {
		return storage.FolderRecord{}, nil, err
	}

	folder, err := m.folders.Register(ctx, resolved)
	if err != nil {
		return storage.FolderRecord{}, nil, err
	}
	logger.InfoContext(ctx, "folder registered", "folder_id", folder.ID, "path", folder.Path)

	task, err := m.tracker.Start(ctx, folder)
	if err != nil {
		return folder, nil, err
	}
	return folder, task, nil
}

// ResumeAll starts one ingestion task for every registered folder.
// Folders already being ingested are skipped.
func (m *Manager) ResumeAll(ctx context.Context) ([]*ingest.Task, error) {
	logger := contextutil.LoggerFromContext(ctx)

	folders, err := m.folders.ListAll(ctx)
	if err != nil {
		return nil, service.Wrap(err, service.CodeRegistryFailure, "list folders")
	}

	tasks := make([]*ingest.Task, 0, len(folders))
	for _, folder := range folders {
		task, err := m.tracker.Start(ctx, folder)
		if errors.Is(err, service.ErrIngestBusy) {
			logger.InfoContext(ctx, "folder already ingesting", "path", folder.Path)
			continue
		}
		if err != nil {
			return tasks, err
		}
		tasks = append(tasks, task)
	}

	logger.InfoContext(ctx, "resumed ingestion", "folders", len(folders), "started", len(tasks))
	return tasks, nil
}

// ListFolders returns every registered folder in registration order.
func (m *Manager) ListFolders(ctx context.Context) ([]storage.FolderRecord, error) {
	return m.folders.ListAll(ctx)
}

// Folder returns the folder with id. Returns storage.ErrNotFound if unknown.
func (m *Manager) Folder(ctx context.Context, id int64) (storage.FolderRecord, error) {
	return m.folders.GetByID(ctx, id)
}

// Files returns the file records of a folder ordered by path.
func (m *Manager) Files(ctx context.Context, folderID int64) ([]storage.FileRecord, error) {
	if _, err := m.folders.GetByID(ctx, folderID); err != nil {
		return nil, err
	}
	return m.files.ListByFolder(ctx, folderID)
}
