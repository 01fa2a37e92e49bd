package store

import (
	"context"

	"github.com/offsync/reconciler/internal/config"
	"github.com/offsync/reconciler/internal/logger"
)

// Storages aggregates the persistence components handed to the service
// layer and the startup workers.
type Storages struct {
	DB         *DB
	Catalog    SchemaCatalog
	Reconciler BatchReconciler
}

// NewStorages connects to the store and wires the schema catalog and the
// batch coordinator on top of the shared connection pool.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	catalog := NewSchemaCatalog(db, log)

	return &Storages{
		DB:         db,
		Catalog:    catalog,
		Reconciler: NewBatchCoordinator(db, catalog, log),
	}, nil
}
