package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"vectorvision/internal/collection"
	"vectorvision/internal/embedding"
	"vectorvision/internal/storage"
	"vectorvision/internal/vectorstore"
)

const testCollection = "images"

// colorEmbedder maps file contents to fixed vectors so rankings are deterministic.
type colorEmbedder struct {
	vectors map[string][]float32
}

func (e *colorEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	return e.lookup(texts)
}

func (e *colorEmbedder) EmbedImages(_ context.Context, images []embedding.Image) ([][]float32, error) {
	keys := make([]string, len(images))
	for i, img := range images {
		keys[i] = string(img.Bytes)
	}
	return e.lookup(keys)
}

func (e *colorEmbedder) lookup(keys []string) ([][]float32, error) {
	out := make([][]float32, len(keys))
	for i, k := range keys {
		v, ok := e.vectors[k]
		if !ok {
			return nil, errors.New("cannot embed " + k)
		}
		out[i] = v
	}
	return out, nil
}

func newColorEmbedder() *colorEmbedder {
	return &colorEmbedder{vectors: map[string][]float32{
		"red":    {1, 0},
		"orange": {0.8, 0.6},
		"blue":   {0, 1},
	}}
}

type fixture struct {
	folders *storage.FolderRepo
	files   *storage.FileRepo
	store   *vectorstore.MemoryStore
	coll    *collection.Collection
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := storage.New(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, storage.Migrate(db))

	store := vectorstore.NewMemoryStore()
	require.NoError(t, store.EnsureCollection(t.Context(), testCollection, 2))

	return &fixture{
		folders: storage.NewFolderRepo(db),
		files:   storage.NewFileRepo(db),
		store:   store,
		coll:    collection.New(store, newColorEmbedder(), testCollection),
	}
}

func (f *fixture) fileRecords(t *testing.T, folderID int64) []storage.FileRecord {
	t.Helper()
	files, err := f.files.ListByFolder(t.Context(), folderID)
	require.NoError(t, err)
	return files
}

// writeTree creates files relative to root with the given contents.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// photosTree is the folder layout used across the ingestion tests.
func photosTree(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "photos")
	writeTree(t, root, map[string]string{
		"a.png":     "red",
		"b.txt":     "not an image",
		"sub/c.jpg": "orange",
	})
	return root
}
