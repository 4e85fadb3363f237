package vectorstore

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemory(t *testing.T, size int) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	require.NoError(t, store.EnsureCollection(context.Background(), "images", size))
	return store
}

func TestMemoryStore_UpsertAndSearch(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t, 3)

	require.NoError(t, store.Upsert(ctx, "images", []Point{
		{ID: "1", Vec: []float32{1, 0, 0}, Meta: map[string]any{"path": "/a.png"}},
		{ID: "2", Vec: []float32{0, 1, 0}, Meta: map[string]any{"path": "/b.png"}},
		{ID: "3", Vec: []float32{0.9, 0.1, 0}, Meta: map[string]any{"path": "/c.png"}},
	}))

	results, err := store.Search(ctx, "images", []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "1", results[0].PointID)
	assert.InDelta(t, 0, results[0].Distance, 1e-6)
	assert.Equal(t, "3", results[1].PointID)
	assert.Equal(t, "/a.png", results[0].Meta["path"])
}

func TestMemoryStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t, 2)

	require.NoError(t, store.Upsert(ctx, "images", []Point{{ID: "1", Vec: []float32{1, 0}, Meta: map[string]any{"v": 1}}}))
	require.NoError(t, store.Upsert(ctx, "images", []Point{{ID: "1", Vec: []float32{0, 1}, Meta: map[string]any{"v": 2}}}))

	count, err := store.Count(ctx, "images")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := store.Search(ctx, "images", []float32{0, 1}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Meta["v"])
	assert.InDelta(t, 0, results[0].Distance, 1e-6)
}

func TestMemoryStore_TiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t, 2)

	require.NoError(t, store.Upsert(ctx, "images", []Point{
		{ID: "b", Vec: []float32{1, 1}},
		{ID: "a", Vec: []float32{1, 1}},
		{ID: "c", Vec: []float32{1, 1}},
	}))

	for i := 0; i < 5; i++ {
		results, err := store.Search(ctx, "images", []float32{1, 1}, 3)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, []string{"b", "a", "c"}, []string{results[0].PointID, results[1].PointID, results[2].PointID})
	}
}

func TestMemoryStore_EmptyCollection(t *testing.T) {
	store := newMemory(t, 2)

	results, err := store.Search(context.Background(), "images", []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t, 2)

	_, err := store.Search(ctx, "missing", []float32{1, 0}, 1)
	assert.Error(t, err, "unknown collection")

	_, err = store.Search(ctx, "images", []float32{1, 0, 0}, 1)
	assert.Error(t, err, "wrong query size")

	_, err = store.Search(ctx, "images", []float32{1, 0}, 0)
	assert.Error(t, err, "k=0")

	err = store.Upsert(ctx, "images", []Point{{ID: "x", Vec: []float32{1}}})
	assert.Error(t, err, "wrong point size")

	assert.Error(t, store.EnsureCollection(ctx, "images", 3), "size mismatch")
	assert.NoError(t, store.EnsureCollection(ctx, "images", 2))
}

func TestMemoryStore_CosineRanking(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t, 2)

	// Magnitude must not affect the ranking, only direction.
	require.NoError(t, store.Upsert(ctx, "images", []Point{
		{ID: "far", Vec: []float32{0, 5}},
		{ID: "long", Vec: []float32{10, 1}},
		{ID: "short", Vec: []float32{0.8, 0.6}},
		{ID: "zero", Vec: []float32{0, 0}},
	}))

	results, err := store.Search(ctx, "images", []float32{3, 0}, 4)
	require.NoError(t, err)
	require.Len(t, results, 4)

	ids := []string{results[0].PointID, results[1].PointID, results[2].PointID, results[3].PointID}
	assert.Equal(t, []string{"long", "short", "far", "zero"}, ids)
	assert.InDelta(t, 1-10/math.Sqrt(101), results[0].Distance, 1e-5)
	assert.InDelta(t, 0.2, results[1].Distance, 1e-5)
	assert.InDelta(t, 1, results[2].Distance, 1e-5)
	assert.InDelta(t, 1, results[3].Distance, 1e-5)
}

func TestMemoryStore_ZeroQuery(t *testing.T) {
	store := newMemory(t, 2)
	require.NoError(t, store.Upsert(context.Background(), "images", []Point{{ID: "1", Vec: []float32{1, 0}}}))

	results, err := store.Search(context.Background(), "images", []float32{0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 1, results[0].Distance, 1e-6)
}

func TestMemoryStore_ConcurrentUpsertAndSearch(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t, 2)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.Upsert(ctx, "images", []Point{{ID: string(rune('a' + i)), Vec: []float32{float32(i), 1}}})
		}(i)
		go func() {
			defer wg.Done()
			_, err := store.Search(ctx, "images", []float32{1, 1}, 5)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := store.Count(ctx, "images")
	require.NoError(t, err)
	assert.Equal(t, 20, count)
}
