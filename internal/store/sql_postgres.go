// Package store implements the persistence layer of the reconciliation
// engine: the PostgreSQL connection, the runtime schema catalog, the static
// table registry, and the identity-resolution / record-reconciliation /
// batch-coordination pipeline that merges client batches into the canonical
// store.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/offsync/reconciler/internal/config"
	"github.com/offsync/reconciler/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// defaultMaxOpenConns bounds the connection pool when the operator does not
// configure one. The pool size is also the maximum number of batches in
// flight at once: once exhausted, new requests block until a connection is
// released.
const defaultMaxOpenConns = 8

// DB wraps the shared *sql.DB handle used by every store component.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

// NewConnectPostgres opens and pings a PostgreSQL connection using the pgx
// stdlib driver. The pool is capped at cfg.MaxOpenConns connections.
func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	maxOpenConns := cfg.MaxOpenConns
	if maxOpenConns <= 0 {
		maxOpenConns = defaultMaxOpenConns
	}
	conn.SetMaxOpenConns(maxOpenConns)
	conn.SetMaxIdleConns(maxOpenConns)

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Info().Str("func", "NewConnectPostgres").Int("max_open_conns", maxOpenConns).Msg("connected to database successfully")

	return &DB{
		DB:     conn,
		logger: log,
	}, nil
}
