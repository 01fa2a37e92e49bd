package workers

import (
	"context"

	"github.com/offsync/reconciler/internal/logger"
	"github.com/offsync/reconciler/internal/store"
)

// catalogWarmup primes the schema catalog for every syncable table so the
// first sync request of each table does not pay the introspection round trip.
//
// Warmup failures are logged and ignored: a table whose columns could not be
// introspected at boot is retried lazily on its first request.
type catalogWarmup struct {
	catalog store.SchemaCatalog
	logger  *logger.Logger
}

func newCatalogWarmup(catalog store.SchemaCatalog, logger *logger.Logger) *catalogWarmup {
	return &catalogWarmup{catalog: catalog, logger: logger}
}

func (w *catalogWarmup) Run() {
	go func() {
		log := w.logger.With().Str("func", "catalogWarmup.Run").Logger()

		for _, table := range store.SyncableTables() {
			if _, err := w.catalog.Columns(context.Background(), table); err != nil {
				log.Warn().Err(err).Str("table", table).Msg("schema catalog warmup failed")
				continue
			}
			log.Debug().Str("table", table).Msg("schema catalog warmed")
		}
	}()
}
