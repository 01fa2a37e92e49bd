package service

import (
	"context"

	"github.com/offsync/reconciler/models"
)

// SyncService validates an inbound batch and delegates it to the store's
// batch coordinator.
type SyncService interface {
	ReconcileBatch(ctx context.Context, table string, req models.SyncRequest) ([]models.MappingResult, error)
}

// AppInfoService exposes build metadata for the version endpoint.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
