package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_folder_store.go -package=mocks vectorvision/internal/storage FolderStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vectorvision/internal/service"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = service.ErrNotFound
)

// FolderStore defines the interface for folder registry operations.
type FolderStore interface {
	// Register persists a new folder. Returns an error matching
	// service.ErrDuplicatePath if the path is already registered.
	Register(ctx context.Context, path string) (FolderRecord, error)
	// GetByID gets a folder by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id int64) (FolderRecord, error)
	// ListAll returns all registered folders ordered by ID.
	ListAll(ctx context.Context) ([]FolderRecord, error)
}

// FolderRepo provides methods for folder operations.
// It implements the FolderStore interface.
type FolderRepo struct {
	db *sql.DB
}

// NewFolderRepo creates a new FolderRepo.
func NewFolderRepo(db *sql.DB) *FolderRepo {
	return &FolderRepo{db: db}
}

// Register inserts a folder. The UNIQUE constraint on paths.path makes
// concurrent registrations of the same path resolve to a single success.
func (r *FolderRepo) Register(ctx context.Context, path string) (FolderRecord, error) {
	result, err := r.db.ExecContext(ctx, "INSERT INTO paths (path) VALUES (?)", path)
	if err != nil {
		if isUniqueViolation(err) {
			return FolderRecord{}, service.DuplicatePath(path)
		}
		return FolderRecord{}, fmt.Errorf("failed to insert folder: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return FolderRecord{}, fmt.Errorf("failed to get folder id: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID gets a folder by its ID.
func (r *FolderRepo) GetByID(ctx context.Context, id int64) (FolderRecord, error) {
	var folder FolderRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT id, path, created_at FROM paths WHERE id = ?",
		id,
	).Scan(&folder.ID, &folder.Path, &folder.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return FolderRecord{}, ErrNotFound
	}
	if err != nil {
		return FolderRecord{}, fmt.Errorf("failed to query folder: %w", err)
	}
	return folder, nil
}

// ListAll returns all folders ordered by ID (registration order).
func (r *FolderRepo) ListAll(ctx context.Context) ([]FolderRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, path, created_at FROM paths ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var folders []FolderRecord
	for rows.Next() {
		var folder FolderRecord
		if err := rows.Scan(&folder.ID, &folder.Path, &folder.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate folders: %w", err)
	}

	return folders, nil
}
