package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	sqlite_vec.Auto()
}

// Compile-time interface check.
var _ VectorStore = (*SQLiteVecStore)(nil)

var collectionNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// SQLiteVecStore implements VectorStore with sqlite-vec in a local
// directory. Each collection is a vec0 virtual table using cosine distance
// plus a companion metadata table.
type SQLiteVecStore struct {
	db *sql.DB
}

// NewSQLiteVecStore opens (or creates) the vector database inside dir.
func NewSQLiteVecStore(dir string) (*SQLiteVecStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating vector directory: %w", err)
	}

	dbPath := filepath.Join(dir, "vectors.db")
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	const registryDDL = `
CREATE TABLE IF NOT EXISTS vector_collections (
	name        TEXT PRIMARY KEY,
	vector_size INTEGER NOT NULL
)`
	if _, err := db.Exec(registryDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating collection registry: %w", err)
	}

	return &SQLiteVecStore{db: db}, nil
}

func tableNames(collection string) (string, string, error) {
	if !collectionNamePattern.MatchString(collection) {
		return "", "", fmt.Errorf("invalid collection name %q", collection)
	}
	return "vec_" + collection, "meta_" + collection, nil
}

// EnsureCollection creates the collection tables on first use and validates
// the recorded vector size afterwards.
func (v *SQLiteVecStore) EnsureCollection(ctx context.Context, collection string, vectorSize int) error {
	vecTable, metaTable, err := tableNames(collection)
	if err != nil {
		return err
	}
	if vectorSize <= 0 {
		return fmt.Errorf("vector size must be greater than 0")
	}

	var existing int
	err = v.db.QueryRowContext(ctx, `SELECT vector_size FROM vector_collections WHERE name = ?`, collection).Scan(&existing)
	switch {
	case err == nil:
		if existing != vectorSize {
			return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, existing)
		}
		return nil
	case err != sql.ErrNoRows:
		return fmt.Errorf("reading collection registry: %w", err)
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	vecDDL := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS %s USING vec0(id TEXT PRIMARY KEY, embedding float[%d] distance_metric=cosine)`,
		vecTable, vectorSize,
	)
	if _, err := tx.ExecContext(ctx, vecDDL); err != nil {
		return fmt.Errorf("creating vectors virtual table: %w", err)
	}

	metaDDL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id       TEXT PRIMARY KEY,
	seq      INTEGER NOT NULL,
	metadata TEXT NOT NULL DEFAULT '{}'
)`, metaTable)
	if _, err := tx.ExecContext(ctx, metaDDL); err != nil {
		return fmt.Errorf("creating metadata table: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO vector_collections(name, vector_size) VALUES (?, ?)`, collection, vectorSize); err != nil {
		return fmt.Errorf("registering collection: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing collection: %w", err)
	}
	return nil
}

// Upsert inserts or replaces vectors and their metadata in one transaction.
// The insertion sequence of an ID is kept across overwrites so ties in
// distance keep a stable order.
func (v *SQLiteVecStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	vecTable, metaTable, err := tableNames(collection)
	if err != nil {
		return err
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, point := range points {
		blob, err := sqlite_vec.SerializeFloat32(point.Vec)
		if err != nil {
			return fmt.Errorf("serializing embedding %s: %w", point.ID, err)
		}

		metaJSON := []byte("{}")
		if len(point.Meta) > 0 {
			metaJSON, err = json.Marshal(point.Meta)
			if err != nil {
				return fmt.Errorf("marshalling metadata %s: %w", point.ID, err)
			}
		}

		// vec0 does not support ON CONFLICT; delete first for upsert.
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+vecTable+` WHERE id = ?`, point.ID); err != nil {
			return fmt.Errorf("deleting existing vector %s: %w", point.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO `+vecTable+`(id, embedding) VALUES (?, ?)`, point.ID, blob); err != nil {
			return fmt.Errorf("inserting vector %s: %w", point.ID, err)
		}

		metaQ := `INSERT INTO ` + metaTable + `(id, seq, metadata)
VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM ` + metaTable + `), ?)
ON CONFLICT(id) DO UPDATE SET metadata = excluded.metadata`
		if _, err := tx.ExecContext(ctx, metaQ, point.ID, string(metaJSON)); err != nil {
			return fmt.Errorf("upserting vector metadata %s: %w", point.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing vector upsert: %w", err)
	}
	return nil
}

// Search performs a k-nearest-neighbor search using cosine distance.
func (v *SQLiteVecStore) Search(ctx context.Context, collection string, query []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}
	vecTable, metaTable, err := tableNames(collection)
	if err != nil {
		return nil, err
	}

	blob, err := sqlite_vec.SerializeFloat32(query)
	if err != nil {
		return nil, fmt.Errorf("serializing query vector: %w", err)
	}

	q := `SELECT v.id, v.distance, COALESCE(m.metadata, '{}')
FROM ` + vecTable + ` v
LEFT JOIN ` + metaTable + ` m ON m.id = v.id
WHERE v.embedding MATCH ? AND k = ?
ORDER BY v.distance, m.seq`

	rows, err := v.db.QueryContext(ctx, q, blob, k)
	if err != nil {
		return nil, fmt.Errorf("searching vectors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var distance float64
		var metaStr string

		if err := rows.Scan(&r.PointID, &distance, &metaStr); err != nil {
			return nil, fmt.Errorf("scanning vector result: %w", err)
		}
		r.Distance = float32(distance)
		r.Meta = map[string]any{}
		if metaStr != "" && metaStr != "{}" {
			if err := json.Unmarshal([]byte(metaStr), &r.Meta); err != nil {
				return nil, fmt.Errorf("unmarshalling vector metadata: %w", err)
			}
		}

		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vector results: %w", err)
	}

	return results, nil
}

// Count returns the number of vectors in the collection.
func (v *SQLiteVecStore) Count(ctx context.Context, collection string) (int, error) {
	_, metaTable, err := tableNames(collection)
	if err != nil {
		return 0, err
	}
	var count int
	if err := v.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+metaTable).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting vectors: %w", err)
	}
	return count, nil
}

// Ping checks the database connection.
func (v *SQLiteVecStore) Ping(ctx context.Context) error {
	return v.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (v *SQLiteVecStore) Close() error {
	return v.db.Close()
}
