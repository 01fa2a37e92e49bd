package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/offsync/reconciler/internal/logger"
)

// schemaCatalog is the PostgreSQL-backed implementation of [SchemaCatalog].
// The first access per table issues one information_schema query; every
// later access is a pure cache read. There is no eviction and no TTL.
//
// Cache population is idempotent under concurrent first access: two
// requests racing on the same table both run the introspection query and
// store identical column lists, so the read-lock fast path needs no
// double-checked locking.
type schemaCatalog struct {
	db     *DB
	logger *logger.Logger

	mu      sync.RWMutex
	columns map[string][]string
}

// NewSchemaCatalog constructs a [SchemaCatalog] backed by the provided
// database connection.
func NewSchemaCatalog(db *DB, log *logger.Logger) SchemaCatalog {
	return &schemaCatalog{
		db:      db,
		logger:  log,
		columns: make(map[string][]string),
	}
}

// Columns returns the ordered column names of table, memoized for the life
// of the process. Introspection failures propagate to the caller and leave
// no cache entry.
func (c *schemaCatalog) Columns(ctx context.Context, table string) ([]string, error) {
	c.mu.RLock()
	cols, ok := c.columns[table]
	c.mu.RUnlock()
	if ok {
		return cols, nil
	}

	log := logger.FromContext(ctx)

	rows, err := c.db.QueryContext(ctx, introspectColumns, table)
	if err != nil {
		log.Err(err).
			Str("func", "schemaCatalog.Columns").
			Str("table", table).
			Msg("failed to execute schema introspection query")
		return nil, fmt.Errorf("%w: %w", ErrIntrospectingSchema, err)
	}
	defer rows.Close()

	cols = make([]string, 0, 16)
	for rows.Next() {
		var column string
		if scanErr := rows.Scan(&column); scanErr != nil {
			log.Err(scanErr).
				Str("func", "schemaCatalog.Columns").
				Str("table", table).
				Msg("failed to scan column name")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		cols = append(cols, column)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "schemaCatalog.Columns").
			Str("table", table).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrIntrospectingSchema, rowsErr)
	}

	if len(cols) == 0 {
		log.Error().
			Str("func", "schemaCatalog.Columns").
			Str("table", table).
			Msg("introspection returned no columns")
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	c.mu.Lock()
	c.columns[table] = cols
	c.mu.Unlock()

	log.Debug().
		Str("func", "schemaCatalog.Columns").
		Str("table", table).
		Int("columns", len(cols)).
		Msg("cached table schema")

	return cols, nil
}

// hasColumn reports whether name is among the discovered columns.
func hasColumn(cols []string, name string) bool {
	return slices.Contains(cols, name)
}
