// Package store persists album records.
//
// A Store owns one *sql.DB for its whole lifetime and serializes every
// operation on it, so a batch transaction never interleaves with another
// writer through the same store. Callers open a store, defer Close, and pass
// the store explicitly to whatever needs it.
//
// Three backends are registered: Postgres (pgx), SQLite and MySQL. The backend
// is chosen from the database URL scheme; see schema.ParseDSN.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/JonMunkholm/albums/internal/album"
	"github.com/JonMunkholm/albums/internal/logging"
	"github.com/JonMunkholm/albums/internal/schema"
)

// Options configure a Store.
type Options struct {
	// Columns maps record fields to source headers. Nil uses album.DefaultColumnMap.
	Columns album.ColumnMap

	// Pool settings, ignored for SQLite which always uses one connection.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Store is the single point of persistence for album records.
type Store struct {
	db        *sql.DB
	dialect   schema.Dialect
	mapper    *album.Mapper
	insertSQL string

	mu     sync.Mutex
	closed bool
}

// Open connects to the database at url and verifies the connection.
func Open(ctx context.Context, url string, opts Options) (*Store, error) {
	dsn, err := schema.ParseDSN(url)
	if err != nil {
		return nil, err
	}

	if dsn.Dialect == schema.SQLite {
		if err := ensureDir(dsn.DataSource); err != nil {
			return nil, &PersistenceError{Op: "connect", Err: err}
		}
	}

	db, err := sql.Open(dsn.Driver(), dsn.DataSource)
	if err != nil {
		return nil, &PersistenceError{Op: "connect", Err: err}
	}

	if dsn.Dialect == schema.SQLite {
		db.SetMaxOpenConns(1)
	} else {
		if opts.MaxOpenConns > 0 {
			db.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			db.SetMaxIdleConns(opts.MaxIdleConns)
		}
		if opts.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(opts.ConnMaxLifetime)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &PersistenceError{Op: "connect", Err: err}
	}

	logging.FromContext(ctx).Debug("database connected", "dialect", dsn.Dialect)
	return New(db, dsn.Dialect, opts), nil
}

// New wraps an open database handle. The store takes ownership of db and
// closes it on Close.
func New(db *sql.DB, dialect schema.Dialect, opts Options) *Store {
	return &Store{
		db:        db,
		dialect:   dialect,
		mapper:    album.NewMapper(opts.Columns),
		insertSQL: schema.InsertSQL(dialect),
	}
}

// Dialect returns the backend dialect.
func (s *Store) Dialect() schema.Dialect {
	return s.dialect
}

// Close releases the database handle. Calling Close more than once is safe.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// CreateSchema creates the albums table if it does not exist.
func (s *Store) CreateSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := schema.CreateSchema(ctx, s.db, s.dialect); err != nil {
		return &PersistenceError{Op: "create schema", Err: err}
	}
	logging.FromContext(ctx).Info("schema created", "table", schema.TableName, "dialect", s.dialect)
	return nil
}

// DropSchema drops the albums table and every record in it.
func (s *Store) DropSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := schema.DropSchema(ctx, s.db, s.dialect); err != nil {
		return &PersistenceError{Op: "drop schema", Err: err}
	}
	logging.FromContext(ctx).Info("schema dropped", "table", schema.TableName, "dialect", s.dialect)
	return nil
}

// AddAlbum builds one record from field-name keyed values and inserts it.
// Keys are album field names such as "artist", "album" and "score".
func (s *Store) AddAlbum(ctx context.Context, fields map[string]string) error {
	rec, err := album.FromFields(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := s.insert(ctx, s.db, rec); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("album added", "artist", rec.Artist, "album", rec.Title)
	return nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, schema.CountSQL(s.dialect)).Scan(&n); err != nil {
		return 0, &PersistenceError{Op: "count", Err: err}
	}
	return n, nil
}

// Albums returns every stored record ordered by identity.
func (s *Store) Albums(ctx context.Context) ([]album.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, schema.SelectSQL(s.dialect))
	if err != nil {
		return nil, &PersistenceError{Op: "select", Err: err}
	}
	defer rows.Close()

	var out []album.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, &PersistenceError{Op: "scan", Err: err}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "select", Err: err}
	}
	return out, nil
}

func (s *Store) insert(ctx context.Context, db schema.DBTX, rec album.Record) error {
	if _, err := db.ExecContext(ctx, s.insertSQL, rec.Values()...); err != nil {
		return &PersistenceError{Op: "insert", Err: err}
	}
	return nil
}

// ensureDir creates the parent directory of a SQLite database file.
func ensureDir(dataSource string) error {
	path, _, _ := strings.Cut(dataSource, "?")
	path = strings.TrimPrefix(path, "file:")
	if path == "" || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create database directory %s: %w", dir, err)
	}
	return nil
}
