package store

import (
	"context"
	"database/sql"

	"github.com/offsync/reconciler/models"
)

// SchemaCatalog discovers and memoizes, per table, the column set exposed
// by the store. Implementations cache entries for the life of the process;
// the external schema is assumed stable while the server runs.
type SchemaCatalog interface {
	Columns(ctx context.Context, table string) ([]string, error)
}

// BatchReconciler applies a whole client batch against the canonical store
// inside one atomic unit of work and returns one mapping result per record,
// in input order.
type BatchReconciler interface {
	ReconcileBatch(ctx context.Context, tenantID int64, table string, records []models.SyncRecord) ([]models.MappingResult, error)
}

// querier is the read subset of database handles shared by *sql.DB and
// *sql.Tx. The identity resolver and the reconciler run on whichever handle
// the coordinator gives them, so resolution and writes share the batch
// transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// executor extends querier with write access.
type executor interface {
	querier
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
