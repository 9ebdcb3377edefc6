// Package sqlitevec provides a SQLite-backed vector store using sqlite-vec.
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/namematch/pkg/vector"
)

// DBFileName is the database file created when the configured path is a
// directory.
const DBFileName = "namematch.db"

// fileParams makes writers from other connections or processes wait for the
// lock instead of failing with "database is locked". Transactions take the
// write lock at BEGIN since Add reads before it writes.
const fileParams = "?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"

// Store implements vector.Store using SQLite with sqlite-vec.
// Each collection gets its own vec0 virtual table sized to the configured
// embedding dimensions.
type Store struct {
	db         *sql.DB
	dimensions uint
	logger     *slog.Logger
}

// Config holds configuration for the SQLite vec store.
type Config struct {
	// DBPath is the path to the SQLite database file, or a directory in which
	// DBFileName is created. Use ":memory:" for an in-memory database.
	DBPath string

	// Dimensions is the number of dimensions for the embedding vectors.
	Dimensions uint
}

// NewStore opens (creating if needed) a sqlite-vec backed store.
func NewStore(c Config, logger *slog.Logger) (*Store, error) {
	// enable connection to have sqlite-vec extension
	sqlite_vec.Auto()

	if c.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if c.Dimensions == 0 {
		return nil, fmt.Errorf("sqlite-vec embedding dimensions cannot be 0, must be configured")
	}

	dbPath, err := resolveDBPath(c.DBPath)
	if err != nil {
		return nil, err
	}

	dsn := dbPath
	if dbPath != ":memory:" {
		dsn += fileParams
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", vector.ErrConnection, err)
	}

	// vec0 tables and ":memory:" databases are per-connection
	db.SetMaxOpenConns(1)

	// Verify sqlite-vec is loaded
	var vecVersion string
	if err := db.QueryRow("SELECT vec_version()").Scan(&vecVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite-vec not available: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS collections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			dimensions INTEGER NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating collections table: %w", err)
	}

	// vec0 virtual tables use integer rowids, so documents maps string
	// document IDs to integer rowids.
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			collection_id INTEGER NOT NULL REFERENCES collections(id),
			doc_id TEXT NOT NULL,
			text TEXT NOT NULL DEFAULT '',
			UNIQUE(collection_id, doc_id)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating documents table: %w", err)
	}

	logger.Info("sqlite-vec vector store initialized",
		"db_path", dbPath,
		"dimensions", c.Dimensions,
		"vec_version", vecVersion,
	)

	return &Store{
		db:         db,
		dimensions: c.Dimensions,
		logger:     logger,
	}, nil
}

// resolveDBPath maps a directory to the database file inside it and makes
// sure the parent directory exists.
func resolveDBPath(p string) (string, error) {
	if p == ":memory:" {
		return p, nil
	}

	info, err := os.Stat(p)
	if err == nil && info.IsDir() {
		return filepath.Join(p, DBFileName), nil
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("creating database directory: %w", err)
	}
	return p, nil
}

// Open returns a driver for the named collection, creating it if needed.
func (s *Store) Open(ctx context.Context, name string) (vector.Driver, error) {
	if name == "" {
		return nil, fmt.Errorf("collection name is required")
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO collections(name, dimensions) VALUES (?, ?)`,
		name, s.dimensions,
	); err != nil {
		return nil, fmt.Errorf("creating collection %q: %w", name, err)
	}

	var (
		id   int64
		dims uint
	)
	if err := s.db.QueryRowContext(ctx,
		`SELECT id, dimensions FROM collections WHERE name = ?`, name,
	).Scan(&id, &dims); err != nil {
		return nil, fmt.Errorf("loading collection %q: %w", name, err)
	}

	if dims != s.dimensions {
		return nil, fmt.Errorf("collection %q stores %d-dimensional embeddings, configured for %d", name, dims, s.dimensions)
	}

	c := &collection{
		db:     s.db,
		id:     id,
		name:   name,
		table:  vecTable(id),
		logger: s.logger,
	}

	createVec := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS %s USING vec0(embedding float[%d] distance_metric=cosine)`,
		c.table, dims,
	)
	if _, err := s.db.ExecContext(ctx, createVec); err != nil {
		return nil, fmt.Errorf("creating vec0 table: %w", err)
	}

	s.logger.Debug("opened sqlite-vec collection",
		"collection", name,
		"collection_id", id,
	)

	return c, nil
}

// DeleteCollection drops the named collection, its documents and its vec0 table.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM collections WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", vector.ErrCollectionNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("looking up collection %q: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, vecTable(id))); err != nil {
		return fmt.Errorf("dropping vec0 table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE collection_id = ?`, id); err != nil {
		return fmt.Errorf("deleting documents: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Debug("deleted sqlite-vec collection", "collection", name)
	return nil
}

// Close releases resources held by the store.
func (s *Store) Close() error {
	return s.db.Close()
}

func vecTable(collectionID int64) string {
	return fmt.Sprintf("vec_embeddings_%d", collectionID)
}

// serializeFloat32 converts a float32 slice to a little-endian byte slice
// suitable for sqlite-vec BLOB format.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

var _ vector.Store = (*Store)(nil)
