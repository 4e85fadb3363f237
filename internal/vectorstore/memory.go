package vectorstore

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/viant/vec/search"
)

// Compile-time interface check.
var _ VectorStore = (*MemoryStore)(nil)

// MemoryStore is an in-process brute-force VectorStore. Nothing is
// persisted; it backs tests and VECTOR_BACKEND=memory.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	size   int
	order  []string // insertion order, used to break distance ties
	points map[string]*memoryPoint
}

type memoryPoint struct {
	vec  search.Float32s
	meta map[string]any
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

func (m *MemoryStore) collection(name string) (*memoryCollection, error) {
	c, ok := m.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection %q does not exist", name)
	}
	return c, nil
}

// EnsureCollection creates the collection or validates its vector size.
func (m *MemoryStore) EnsureCollection(_ context.Context, collection string, vectorSize int) error {
	if vectorSize <= 0 {
		return fmt.Errorf("vector size must be greater than 0")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.collections[collection]; ok {
		if c.size != vectorSize {
			return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, c.size)
		}
		return nil
	}
	m.collections[collection] = &memoryCollection{
		size:   vectorSize,
		points: make(map[string]*memoryPoint),
	}
	return nil
}

// Upsert inserts or overwrites points. An overwritten point keeps its
// original position in the tie-break order.
func (m *MemoryStore) Upsert(_ context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.collection(collection)
	if err != nil {
		return err
	}
	for _, p := range points {
		if len(p.Vec) != c.size {
			return fmt.Errorf("point %s has size %d, expected %d", p.ID, len(p.Vec), c.size)
		}
	}
	for _, p := range points {
		vec := search.Float32s(append([]float32(nil), p.Vec...))
		if _, exists := c.points[p.ID]; !exists {
			c.order = append(c.order, p.ID)
		}
		c.points[p.ID] = &memoryPoint{
			vec:  vec,
			meta: maps.Clone(p.Meta),
		}
	}
	return nil
}

// Search ranks every point by cosine distance to query.
func (m *MemoryStore) Search(_ context.Context, collection string, query []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, err := m.collection(collection)
	if err != nil {
		return nil, err
	}
	if len(query) != c.size {
		return nil, fmt.Errorf("query has size %d, expected %d", len(query), c.size)
	}

	// A zero vector on either side yields distance 1.
	qvec := search.Float32s(query)

	results := make([]SearchResult, 0, len(c.order))
	for _, id := range c.order {
		p := c.points[id]
		results = append(results, SearchResult{
			PointID:  id,
			Distance: qvec.CosineDistance(p.vec),
			Meta:     maps.Clone(p.meta),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Count returns the number of points in the collection.
func (m *MemoryStore) Count(_ context.Context, collection string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, err := m.collection(collection)
	if err != nil {
		return 0, err
	}
	return len(c.points), nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
