package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_file_store.go -package=mocks vectorvision/internal/storage FileStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// FileStore defines the interface for file registry operations.
type FileStore interface {
	// Register always inserts a new record and assigns a fresh ID.
	Register(ctx context.Context, folderID int64, filename, fullPath string) (FileRecord, error)
	// GetOrRegister returns the folder's existing record for fullPath, or inserts one.
	GetOrRegister(ctx context.Context, folderID int64, filename, fullPath string) (FileRecord, error)
	// GetByID gets a file by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id int64) (FileRecord, error)
	// ListByFolder returns the files of a folder ordered by full path.
	ListByFolder(ctx context.Context, folderID int64) ([]FileRecord, error)
}

// FileRepo provides methods for file operations.
// It implements the FileStore interface.
type FileRepo struct {
	db *sql.DB
}

// NewFileRepo creates a new FileRepo.
func NewFileRepo(db *sql.DB) *FileRepo {
	return &FileRepo{db: db}
}

// Register inserts a file record. There is no uniqueness constraint on files.
func (r *FileRepo) Register(ctx context.Context, folderID int64, filename, fullPath string) (FileRecord, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO uploaded_files (folder_id, filename, full_path) VALUES (?, ?, ?)",
		folderID, filename, fullPath,
	)
	if err != nil {
		return FileRecord{}, fmt.Errorf("failed to insert file: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return FileRecord{}, fmt.Errorf("failed to get file id: %w", err)
	}

	return FileRecord{
		ID:       id,
		FolderID: folderID,
		Filename: filename,
		FullPath: fullPath,
	}, nil
}

// GetOrRegister looks up the folder's oldest record for fullPath and returns
// it, inserting a new record only when none exists. Lookup and insert run in
// one immediate transaction so two walks of the same file cannot both insert.
// The same path under two registered folders (a nested registration) gets
// one record per folder.
func (r *FileRepo) GetOrRegister(ctx context.Context, folderID int64, filename, fullPath string) (FileRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return FileRecord{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var file FileRecord
	err = tx.QueryRowContext(ctx,
		"SELECT id, folder_id, filename, full_path FROM uploaded_files WHERE folder_id = ? AND full_path = ? ORDER BY id LIMIT 1",
		folderID, fullPath,
	).Scan(&file.ID, &file.FolderID, &file.Filename, &file.FullPath)
	if err == nil {
		return file, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return FileRecord{}, fmt.Errorf("failed to query file: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		"INSERT INTO uploaded_files (folder_id, filename, full_path) VALUES (?, ?, ?)",
		folderID, filename, fullPath,
	)
	if err != nil {
		return FileRecord{}, fmt.Errorf("failed to insert file: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return FileRecord{}, fmt.Errorf("failed to get file id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return FileRecord{}, fmt.Errorf("failed to commit file: %w", err)
	}

	return FileRecord{
		ID:       id,
		FolderID: folderID,
		Filename: filename,
		FullPath: fullPath,
	}, nil
}

// GetByID gets a file by its ID.
func (r *FileRepo) GetByID(ctx context.Context, id int64) (FileRecord, error) {
	var file FileRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT id, folder_id, filename, full_path FROM uploaded_files WHERE id = ?",
		id,
	).Scan(&file.ID, &file.FolderID, &file.Filename, &file.FullPath)
	if errors.Is(err, sql.ErrNoRows) {
		return FileRecord{}, ErrNotFound
	}
	if err != nil {
		return FileRecord{}, fmt.Errorf("failed to query file: %w", err)
	}
	return file, nil
}

// ListByFolder returns all file records of a folder ordered by full path, then ID.
func (r *FileRepo) ListByFolder(ctx context.Context, folderID int64) ([]FileRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, folder_id, filename, full_path FROM uploaded_files WHERE folder_id = ? ORDER BY full_path, id",
		folderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var files []FileRecord
	for rows.Next() {
		var file FileRecord
		if err := rows.Scan(&file.ID, &file.FolderID, &file.Filename, &file.FullPath); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate files: %w", err)
	}

	return files, nil
}
