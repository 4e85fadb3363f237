package storage

import "time"

// FolderRecord is a registered root folder.
type FolderRecord struct {
	ID        int64
	Path      string // Normalized absolute path, unique
	CreatedAt time.Time
}

// FileRecord is a file discovered while walking a registered folder.
// Its ID is the key used for the file's embedding in the vector index.
type FileRecord struct {
	ID       int64
	FolderID int64  // Foreign key to paths.id
	Filename string // Base name, e.g. "a.png"
	FullPath string // Absolute path of the file
}
