package workers

import (
	"github.com/offsync/reconciler/internal/logger"
	"github.com/offsync/reconciler/internal/store"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles the background workers started at application boot.
func NewWorkers(storages *store.Storages, logger *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{
			newCatalogWarmup(storages.Catalog, logger),
		},
	}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
