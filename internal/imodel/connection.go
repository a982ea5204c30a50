// Package imodel opens iModel snapshot files and answers queries against them.
//
// A snapshot is a SQLite database laid out with the BIS schema. Queries are
// plain SQL over the snapshot tables; results are streamed as Row values whose
// keys are the lower-cased column names.
package imodel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotIModel reports a SQLite file without the BIS element tables.
	ErrNotIModel = errors.New("file is not an iModel snapshot")
	// ErrClosed reports use of a connection after Close.
	ErrClosed = errors.New("connection closed")
)

// Connection is an open, read-only snapshot.
type Connection struct {
	key  string
	path string

	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// OpenSnapshot opens the snapshot at path read-only and verifies it carries
// the BIS tables the browser queries.
func OpenSnapshot(ctx context.Context, path string) (*Connection, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("open snapshot: empty path")
	}
	dsn, err := snapshotDSN(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	conn := NewConnection(db, path)
	if err := conn.verify(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	return conn, nil
}

// snapshotDSN builds a read-only file URI. The path is made absolute first: a
// relative path would otherwise be read as the URI authority.
func snapshotDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: "mode=ro"}
	return u.String(), nil
}

// NewConnection wraps an existing database handle.
func NewConnection(db *sql.DB, path string) *Connection {
	return &Connection{key: uuid.NewString(), path: path, db: db}
}

func (c *Connection) verify(ctx context.Context) error {
	var count int
	row := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('bis_Element', 'bis_Model', 'ec_Class')`)
	if err := row.Scan(&count); err != nil {
		return err
	}
	if count < 3 {
		return ErrNotIModel
	}
	return nil
}

// Key uniquely identifies this connection for the lifetime of the process.
func (c *Connection) Key() string {
	if c == nil {
		return ""
	}
	return c.key
}

// Path returns the file the connection was opened from.
func (c *Connection) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// Close releases the database handle. Closing twice is harmless.
func (c *Connection) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Connection) handle() (*sql.DB, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClosed
	}
	return c.db, nil
}

// Query runs query and yields one Row per result row. A nil connection yields
// nothing. Iteration stops at the first error, which is yielded with a nil Row.
func (c *Connection) Query(ctx context.Context, query string, args ...any) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		if c == nil {
			return
		}
		db, err := c.handle()
		if err != nil {
			yield(nil, err)
			return
		}
		if db == nil {
			return
		}
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			yield(nil, fmt.Errorf("query: %w", err))
			return
		}
		defer rows.Close()
		cols, err := rows.Columns()
		if err != nil {
			yield(nil, fmt.Errorf("query columns: %w", err))
			return
		}
		keys := make([]string, len(cols))
		for i, col := range cols {
			keys[i] = strings.ToLower(col)
		}
		for rows.Next() {
			values := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range values {
				ptrs[i] = &values[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				yield(nil, fmt.Errorf("query scan: %w", err))
				return
			}
			row := make(Row, len(cols))
			for i, key := range keys {
				row[key] = normalizeValue(values[i])
			}
			if !yield(row, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("query rows: %w", err))
		}
	}
}

func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
