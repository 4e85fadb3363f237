package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks vectorvision/internal/vectorstore VectorStore

import "context"

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	// Distance is the cosine distance to the query (0 = identical direction).
	Distance float32
	Meta     map[string]any
}

// VectorStore defines the interface for vector storage operations.
// Implementations rank by cosine distance and are safe for concurrent use.
type VectorStore interface {
	// EnsureCollection creates the collection on first use and validates
	// its vector size afterwards.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error

	// Upsert inserts or overwrites points by ID.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns up to k nearest points ordered by increasing distance.
	Search(ctx context.Context, collection string, query []float32, k int) ([]SearchResult, error)

	// Count returns the number of points in the collection.
	Count(ctx context.Context, collection string) (int, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
