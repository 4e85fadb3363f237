package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteVec(t *testing.T, size int) *SQLiteVecStore {
	t.Helper()
	store, err := NewSQLiteVecStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.EnsureCollection(context.Background(), "images", size))
	return store
}

func TestSQLiteVecStore_UpsertAndSearch(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteVec(t, 3)

	require.NoError(t, store.Upsert(ctx, "images", []Point{
		{ID: "1", Vec: []float32{1, 0, 0}, Meta: map[string]any{"path": "/a.png"}},
		{ID: "2", Vec: []float32{0, 1, 0}, Meta: map[string]any{"path": "/b.png"}},
		{ID: "3", Vec: []float32{0.9, 0.1, 0}, Meta: map[string]any{"path": "/c.png"}},
	}))

	results, err := store.Search(ctx, "images", []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "1", results[0].PointID) // exact match should be first
	assert.InDelta(t, 0, results[0].Distance, 1e-5)
	assert.Equal(t, "3", results[1].PointID)
	assert.Equal(t, "/a.png", results[0].Meta["path"])
}

func TestSQLiteVecStore_CosineIgnoresMagnitude(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteVec(t, 2)

	require.NoError(t, store.Upsert(ctx, "images", []Point{
		{ID: "near-direction", Vec: []float32{10, 10}},
		{ID: "near-l2", Vec: []float32{1, 0}},
	}))

	results, err := store.Search(ctx, "images", []float32{0.5, 0.5}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "near-direction", results[0].PointID)
}

func TestSQLiteVecStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteVec(t, 3)

	require.NoError(t, store.Upsert(ctx, "images", []Point{{ID: "1", Vec: []float32{1, 0, 0}, Meta: map[string]any{"version": float64(1)}}}))
	require.NoError(t, store.Upsert(ctx, "images", []Point{{ID: "1", Vec: []float32{0, 1, 0}, Meta: map[string]any{"version": float64(2)}}}))

	count, err := store.Count(ctx, "images")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := store.Search(ctx, "images", []float32{0, 1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].PointID)
	assert.Equal(t, float64(2), results[0].Meta["version"])
}

func TestSQLiteVecStore_ReopenKeepsVectors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewSQLiteVecStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.EnsureCollection(ctx, "images", 2))
	require.NoError(t, store.Upsert(ctx, "images", []Point{{ID: "7", Vec: []float32{1, 0}, Meta: map[string]any{"path": "/a.png"}}}))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteVecStore(dir)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	require.NoError(t, reopened.EnsureCollection(ctx, "images", 2))
	assert.Error(t, reopened.EnsureCollection(ctx, "images", 3), "vector size mismatch must be reported")

	count, err := reopened.Count(ctx, "images")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLiteVecStore_InvalidCollectionName(t *testing.T) {
	store, err := NewSQLiteVecStore(t.TempDir())
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.Error(t, store.EnsureCollection(context.Background(), "images; DROP TABLE x", 3))
	_, err = store.Count(context.Background(), "1bad")
	assert.Error(t, err)
}
