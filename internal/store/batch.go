package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/offsync/reconciler/internal/logger"
	"github.com/offsync/reconciler/models"
)

// batchCoordinator applies a reconciler decision for every record of a
// submitted batch inside one transaction. Records are processed strictly in
// input order; each one is fenced by a savepoint so a failing record rolls
// back alone while the rest of the batch survives. Only precondition and
// infrastructure failures abort the whole request.
type batchCoordinator struct {
	db         *DB
	catalog    SchemaCatalog
	reconciler *recordReconciler
	logger     *logger.Logger
}

// NewBatchCoordinator constructs the [BatchReconciler] wired to the given
// connection and schema catalog.
func NewBatchCoordinator(db *DB, catalog SchemaCatalog, log *logger.Logger) BatchReconciler {
	resolver := NewIdentityResolver(log)

	return &batchCoordinator{
		db:         db,
		catalog:    catalog,
		reconciler: NewRecordReconciler(resolver, log),
		logger:     log,
	}
}

// ReconcileBatch merges records into table on behalf of tenantID and
// returns exactly one mapping result per record, in input order.
//
// Preconditions checked before any write: table must be on the syncable
// allow-list and its discovered schema must expose the tenant column. A
// precondition or infrastructure failure returns a nil result list; the
// caller never sees a partial list next to a request-level error.
func (b *batchCoordinator) ReconcileBatch(ctx context.Context, tenantID int64, table string, records []models.SyncRecord) ([]models.MappingResult, error) {
	log := logger.FromContext(ctx)

	if !IsSyncable(table) {
		return nil, fmt.Errorf("%w: %s", ErrTableNotSyncable, table)
	}

	cols, err := b.catalog.Columns(ctx, table)
	if err != nil {
		return nil, err
	}

	if !hasColumn(cols, tenantColumn) {
		log.Error().
			Str("func", "batchCoordinator.ReconcileBatch").
			Str("table", table).
			Msg("table schema has no tenant column")
		return nil, fmt.Errorf("%w: %s", ErrTenantColumnMissing, table)
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "batchCoordinator.ReconcileBatch").
			Str("table", table).
			Msg("failed to begin transaction")
		return nil, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() {
		// rollback failure must not mask the error that caused it
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			log.Err(rollbackErr).
				Str("func", "batchCoordinator.ReconcileBatch").
				Str("table", table).
				Msg("failed to roll back batch transaction")
		}
	}()

	results := make([]models.MappingResult, 0, len(records))

	for idx, rec := range records {
		savepoint := fmt.Sprintf("record_%d", idx)

		if _, execErr := tx.ExecContext(ctx, "SAVEPOINT "+savepoint); execErr != nil {
			log.Err(execErr).
				Str("func", "batchCoordinator.ReconcileBatch").
				Str("table", table).
				Int("record", idx).
				Msg("failed to create savepoint")
			return nil, fmt.Errorf("%w: %w", ErrManagingSavepoint, execErr)
		}

		result, recErr := b.reconciler.Reconcile(ctx, tx, tenantID, table, cols, rec)
		if recErr != nil {
			if IsInfrastructureError(recErr) {
				log.Err(recErr).
					Str("func", "batchCoordinator.ReconcileBatch").
					Str("table", table).
					Int("record", idx).
					Msg("infrastructure failure, aborting batch")
				return nil, recErr
			}

			if _, execErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepoint); execErr != nil {
				log.Err(execErr).
					Str("func", "batchCoordinator.ReconcileBatch").
					Str("table", table).
					Int("record", idx).
					Msg("failed to roll back to savepoint")
				return nil, fmt.Errorf("%w: %w", ErrManagingSavepoint, execErr)
			}

			log.Warn().
				Str("func", "batchCoordinator.ReconcileBatch").
				Str("table", table).
				Int("record", idx).
				Str("cause", recErr.Error()).
				Msg("record failed, continuing batch")

			result.Status = models.StatusError
			result.ServerID = nil
			result.ServerVersion = nil
			result.Message = DescribeRecordError(recErr)
		} else {
			if _, execErr := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepoint); execErr != nil {
				log.Err(execErr).
					Str("func", "batchCoordinator.ReconcileBatch").
					Str("table", table).
					Int("record", idx).
					Msg("failed to release savepoint")
				return nil, fmt.Errorf("%w: %w", ErrManagingSavepoint, execErr)
			}
		}

		results = append(results, result)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "batchCoordinator.ReconcileBatch").
			Str("table", table).
			Int("records", len(records)).
			Msg("failed to commit batch transaction")
		return nil, fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Info().
		Str("func", "batchCoordinator.ReconcileBatch").
		Str("table", table).
		Int64("tenant_id", tenantID).
		Int("records", len(records)).
		Msg("batch reconciled")

	return results, nil
}
