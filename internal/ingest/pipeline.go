package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"vectorvision/internal/collection"
	"vectorvision/internal/contextutil"
	"vectorvision/internal/service"
	"vectorvision/internal/storage"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// IsImage reports whether path has an indexable image extension.
func IsImage(path string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Indexer is the part of the vector collection the pipeline writes to.
type Indexer interface {
	Upsert(ctx context.Context, ids, uris []string, metas []collection.Metadata) (collection.UpsertReport, error)
}

// Report summarizes one ingestion run.
type Report struct {
	Folder     storage.FolderRecord `json:"folder"`
	Files      int                  `json:"files"`
	Images     int                  `json:"images"`
	Indexed    int                  `json:"indexed"`
	Skipped    int                  `json:"skipped"`
	WalkErrors int                  `json:"walk_errors"`
}

// Pipeline walks a registered folder, records every file in the registry
// and indexes the images.
type Pipeline struct {
	files storage.FileStore
	index Indexer
	dedup bool
}

// NewPipeline creates a new ingestion pipeline. With dedup set, a file
// already recorded under the same full path keeps its id across runs.
func NewPipeline(files storage.FileStore, index Indexer, dedup bool) *Pipeline {
	return &Pipeline{
		files: files,
		index: index,
		dedup: dedup,
	}
}

// IngestFolder walks folder depth first, registers every regular file and
// upserts the images in one batch. Subtrees that cannot be listed are logged
// and skipped. Work done before a failure is not rolled back.
func (p *Pipeline) IngestFolder(ctx context.Context, folder storage.FolderRecord) (Report, error) {
	logger := contextutil.LoggerFromContext(ctx)
	report := Report{Folder: folder}

	var (
		ids   []string
		uris  []string
		metas []collection.Metadata
	)

	err := filepath.WalkDir(folder.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == folder.Path {
				return service.FilesystemAccess(err, path)
			}
			report.WalkErrors++
			logger.WarnContext(ctx, "skipping unreadable path", "error", service.FilesystemAccess(err, path))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		// Directories are descended into; symlinks and other non-regular
		// entries are neither followed nor recorded.
		if !d.Type().IsRegular() {
			return nil
		}

		file, err := p.register(ctx, folder.ID, d.Name(), path)
		if err != nil {
			return service.Wrap(err, service.CodeRegistryFailure, "register file", "path", path)
		}
		report.Files++

		if !IsImage(path) {
			return nil
		}
		report.Images++
		ids = append(ids, strconv.FormatInt(file.ID, 10))
		uris = append(uris, path)
		metas = append(metas, collection.Metadata{
			Path:     path,
			FolderID: folder.ID,
			Filename: file.Filename,
		})
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("failed to walk %s: %w", folder.Path, err)
	}

	logger.InfoContext(ctx, "walk completed", "files", report.Files, "images", report.Images, "walk_errors", report.WalkErrors)

	if len(ids) == 0 {
		return report, nil
	}

	upsert, err := p.index.Upsert(ctx, ids, uris, metas)
	report.Indexed = upsert.Indexed
	report.Skipped = len(upsert.Skipped)
	if err != nil {
		return report, err
	}

	logger.InfoContext(ctx, "folder indexed", "indexed", report.Indexed, "skipped", report.Skipped)
	return report, nil
}

func (p *Pipeline) register(ctx context.Context, folderID int64, filename, fullPath string) (storage.FileRecord, error) {
	if p.dedup {
		return p.files.GetOrRegister(ctx, folderID, filename, fullPath)
	}
	return p.files.Register(ctx, folderID, filename, fullPath)
}
