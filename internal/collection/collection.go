package collection

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"vectorvision/internal/contextutil"
	"vectorvision/internal/embedding"
	"vectorvision/internal/service"
	"vectorvision/internal/vectorstore"
)

const defaultBatchSize = 16

// Metadata is stored with every indexed image.
type Metadata struct {
	Path     string
	FolderID int64
	Filename string
}

// Match is one ranked neighbor returned by a query.
type Match struct {
	ID       string
	Distance float32
	Metadata Metadata
}

// SkippedItem is an upsert input that could not be embedded.
type SkippedItem struct {
	ID  string
	URI string
	Err error
}

// UpsertReport summarizes an Upsert call.
type UpsertReport struct {
	Indexed int
	Skipped []SkippedItem
}

// Loader reads the content behind a URI.
type Loader func(ctx context.Context, uri string) (embedding.Image, error)

// FileLoader reads images from the local filesystem.
func FileLoader(_ context.Context, uri string) (embedding.Image, error) {
	data, err := os.ReadFile(uri)
	if err != nil {
		return embedding.Image{}, err
	}
	if len(data) == 0 {
		return embedding.Image{}, fmt.Errorf("%s is empty", uri)
	}
	return embedding.Image{Bytes: data}, nil
}

// Collection is the vector index as the rest of the system sees it: items
// go in as (id, uri, metadata) and the collection embeds them itself with
// the configured Embedder. Backend payloads never leave this package untyped.
type Collection struct {
	name      string
	store     vectorstore.VectorStore
	embedder  embedding.Embedder
	loader    Loader
	batchSize int
}

// Option configures a Collection.
type Option func(*Collection)

// WithLoader overrides how URIs are read.
func WithLoader(l Loader) Option {
	return func(c *Collection) { c.loader = l }
}

// WithBatchSize sets how many images are sent per embedding request.
func WithBatchSize(n int) Option {
	return func(c *Collection) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// New creates a Collection over an existing store collection.
func New(store vectorstore.VectorStore, embedder embedding.Embedder, name string, opts ...Option) *Collection {
	c := &Collection{
		name:      name,
		store:     store,
		embedder:  embedder,
		loader:    FileLoader,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upsert embeds the images behind uris and writes them under ids.
// Items that fail to load or embed are skipped and reported; the rest are
// written in a single store upsert. A store failure fails the whole call.
func (c *Collection) Upsert(ctx context.Context, ids, uris []string, metas []Metadata) (UpsertReport, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(ids) != len(uris) || len(ids) != len(metas) {
		return UpsertReport{}, fmt.Errorf("upsert length mismatch: %d ids, %d uris, %d metadatas", len(ids), len(uris), len(metas))
	}

	var report UpsertReport
	skip := func(i int, err error) {
		logger.WarnContext(ctx, "skipping item", "id", ids[i], "uri", uris[i], "error", err)
		report.Skipped = append(report.Skipped, SkippedItem{ID: ids[i], URI: uris[i], Err: err})
	}

	// Content is loaded one batch at a time so at most batchSize images
	// are held in memory.
	points := make([]vectorstore.Point, 0, len(ids))
	for start := 0; start < len(uris); start += c.batchSize {
		end := min(start+c.batchSize, len(uris))

		var (
			pending []int
			images  []embedding.Image
		)
		for i := start; i < end; i++ {
			img, err := c.loader(ctx, uris[i])
			if err != nil {
				skip(i, service.EmbeddingFailure(err, uris[i]))
				continue
			}
			pending = append(pending, i)
			images = append(images, img)
		}
		if len(images) == 0 {
			continue
		}

		vecs, errs := c.embedBatch(ctx, images)
		for j, idx := range pending {
			if errs[j] != nil {
				skip(idx, service.EmbeddingFailure(errs[j], uris[idx]))
				continue
			}
			points = append(points, vectorstore.Point{
				ID:   ids[idx],
				Vec:  vecs[j],
				Meta: metas[idx].toMap(),
			})
		}
	}

	if len(points) == 0 {
		return report, nil
	}

	if err := c.store.Upsert(ctx, c.name, points); err != nil {
		return report, service.IndexUnavailable(err, "upsert")
	}
	report.Indexed = len(points)
	return report, nil
}

// embedBatch embeds a batch in one request. If the request fails, each
// image is retried alone so one bad file does not sink its neighbors.
func (c *Collection) embedBatch(ctx context.Context, images []embedding.Image) ([][]float32, []error) {
	vecs := make([][]float32, len(images))
	errs := make([]error, len(images))

	batch, err := c.embedder.EmbedImages(ctx, images)
	if err == nil && len(batch) == len(images) {
		copy(vecs, batch)
		return vecs, errs
	}
	if len(images) == 1 {
		if err == nil {
			err = fmt.Errorf("expected 1 embedding, got %d", len(batch))
		}
		errs[0] = err
		return vecs, errs
	}

	for i, img := range images {
		one, err := c.embedder.EmbedImages(ctx, []embedding.Image{img})
		switch {
		case err != nil:
			errs[i] = err
		case len(one) != 1:
			errs[i] = fmt.Errorf("expected 1 embedding, got %d", len(one))
		default:
			vecs[i] = one[0]
		}
	}
	return vecs, errs
}

// QueryTexts returns the n nearest items for each text.
func (c *Collection) QueryTexts(ctx context.Context, texts []string, n int) ([][]Match, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vecs, err := c.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, service.EmbeddingFailure(err, "query text")
	}
	if len(vecs) != len(texts) {
		return nil, service.EmbeddingFailure(fmt.Errorf("expected %d embeddings, got %d", len(texts), len(vecs)), "query text")
	}
	return c.queryVectors(ctx, vecs, n)
}

// QueryURIs returns the n nearest items for each image URI. A URI that
// cannot be read fails with service.ErrInvalidQueryInput.
func (c *Collection) QueryURIs(ctx context.Context, uris []string, n int) ([][]Match, error) {
	if len(uris) == 0 {
		return nil, nil
	}
	images := make([]embedding.Image, len(uris))
	for i, uri := range uris {
		img, err := c.loader(ctx, uri)
		if err != nil {
			return nil, service.InvalidQueryInput(err, uri)
		}
		images[i] = img
	}

	vecs, err := c.embedder.EmbedImages(ctx, images)
	if err != nil {
		return nil, service.EmbeddingFailure(err, "query image")
	}
	if len(vecs) != len(uris) {
		return nil, service.EmbeddingFailure(fmt.Errorf("expected %d embeddings, got %d", len(uris), len(vecs)), "query image")
	}
	return c.queryVectors(ctx, vecs, n)
}

func (c *Collection) queryVectors(ctx context.Context, vecs [][]float32, n int) ([][]Match, error) {
	out := make([][]Match, len(vecs))
	for i, vec := range vecs {
		results, err := c.store.Search(ctx, c.name, vec, n)
		if err != nil {
			return nil, service.IndexUnavailable(err, "search")
		}
		matches := make([]Match, 0, len(results))
		for _, r := range results {
			matches = append(matches, Match{
				ID:       r.PointID,
				Distance: r.Distance,
				Metadata: metadataFromMap(r.Meta),
			})
		}
		out[i] = matches
	}
	return out, nil
}

// Count returns the number of indexed items.
func (c *Collection) Count(ctx context.Context) (int, error) {
	n, err := c.store.Count(ctx, c.name)
	if err != nil {
		return 0, service.IndexUnavailable(err, "count")
	}
	return n, nil
}

// Ping checks that the backing store is reachable.
func (c *Collection) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return service.IndexUnavailable(err, "ping")
	}
	return nil
}

func (m Metadata) toMap() map[string]any {
	meta := map[string]any{"path": m.Path}
	if m.FolderID != 0 {
		meta["folder_id"] = m.FolderID
	}
	if m.Filename != "" {
		meta["filename"] = m.Filename
	}
	return meta
}

// metadataFromMap reads the payload written by toMap. Numbers come back as
// int64 from Qdrant and float64 from JSON-backed stores.
func metadataFromMap(meta map[string]any) Metadata {
	var m Metadata
	if p, ok := meta["path"].(string); ok {
		m.Path = p
	}
	if f, ok := meta["filename"].(string); ok {
		m.Filename = f
	}
	switch v := meta["folder_id"].(type) {
	case int64:
		m.FolderID = v
	case int:
		m.FolderID = int64(v)
	case float64:
		m.FolderID = int64(v)
	case string:
		m.FolderID, _ = strconv.ParseInt(v, 10, 64)
	}
	return m
}
