package service

import (
	"github.com/offsync/reconciler/internal/config"
	"github.com/offsync/reconciler/internal/logger"
	"github.com/offsync/reconciler/internal/store"
)

type Services struct {
	SyncService    SyncService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, cfg *config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		SyncService:    NewSyncService(storages.Reconciler, logger),
		AppInfoService: appInfoService,
	}, nil
}
