package service

import (
	"context"
	"fmt"

	"github.com/offsync/reconciler/internal/logger"
	"github.com/offsync/reconciler/internal/store"
	"github.com/offsync/reconciler/internal/utils"
	"github.com/offsync/reconciler/models"
)

// syncService fronts the batch coordinator with request validation. The
// allow-list is checked both here and inside the coordinator: the inbound
// layer is not trusted to pre-validate, and the store does not trust the
// service either.
type syncService struct {
	reconciler store.BatchReconciler

	logger *logger.Logger
}

// NewSyncService constructs a SyncService delegating to reconciler.
func NewSyncService(reconciler store.BatchReconciler, logger *logger.Logger) SyncService {
	return &syncService{
		reconciler: reconciler,
		logger:     logger,
	}
}

// ReconcileBatch validates the request shape and runs the batch. Validation
// failures are precondition failures: nothing is written and no partial
// result list is produced.
func (s *syncService) ReconcileBatch(ctx context.Context, table string, req models.SyncRequest) ([]models.MappingResult, error) {
	log := logger.FromContext(ctx)

	if err := validateSyncRequest(table, req); err != nil {
		log.Warn().
			Str("func", "syncService.ReconcileBatch").
			Str("table", table).
			Int64("tenant_id", req.TenantID).
			Str("cause", err.Error()).
			Msg("rejecting malformed sync request")
		return nil, err
	}

	return s.reconciler.ReconcileBatch(ctx, req.TenantID, table, req.Records)
}

// validateSyncRequest checks the request-level preconditions: a syncable
// table, a tenant, at least one record, a consistent declared length, and
// syntactically valid client uuids.
func validateSyncRequest(table string, req models.SyncRequest) error {
	if table == "" {
		return ErrValidationNoTable
	}

	if !store.IsSyncable(table) {
		return fmt.Errorf("%w: %s", ErrValidationTableNotSyncable, table)
	}

	if req.TenantID <= 0 {
		return ErrValidationNoTenantID
	}

	if len(req.Records) == 0 {
		return ErrValidationNoRecordsProvided
	}

	if req.Length != 0 && req.Length != len(req.Records) {
		return fmt.Errorf("%w: declared %d, got %d", ErrValidationLengthMismatch, req.Length, len(req.Records))
	}

	for idx, rec := range req.Records {
		clientUUID, ok := rec.ClientUUID()
		if ok && !utils.IsValidUUID(clientUUID) {
			return fmt.Errorf("%w: record %d", ErrValidationInvalidClientUUID, idx)
		}
	}

	return nil
}
