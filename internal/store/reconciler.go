package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/offsync/reconciler/internal/logger"
	"github.com/offsync/reconciler/models"
)

// recordReconciler is the per-record decision function of the engine. Each
// record is processed exactly once to one terminal outcome: inserted,
// updated, deleted, skipped, or noop. Store failures bubble up to the batch
// coordinator, which converts them to error outcomes at the record boundary.
type recordReconciler struct {
	resolver *identityResolver
	logger   *logger.Logger
}

// NewRecordReconciler constructs a recordReconciler using resolver for
// existing-identity lookups.
func NewRecordReconciler(resolver *identityResolver, log *logger.Logger) *recordReconciler {
	return &recordReconciler{
		resolver: resolver,
		logger:   log,
	}
}

// Reconcile decides and executes the write for one record on the batch
// transaction tx. cols is the table's discovered column set.
func (rc *recordReconciler) Reconcile(ctx context.Context, tx executor, tenantID int64, table string, cols []string, rec models.SyncRecord) (models.MappingResult, error) {
	if rec.IsDelete() {
		return rc.reconcileDelete(ctx, tx, tenantID, table, cols, rec)
	}

	return rc.reconcileUpsert(ctx, tx, tenantID, table, cols, rec)
}

// reconcileDelete removes the row matched by the record's strongest
// available identity. Deletion by uuid takes precedence; deletion by the
// echoed server identity is attempted only when the table lacks uuid
// support or the record carries no uuid. With neither identity usable the
// record is skipped.
func (rc *recordReconciler) reconcileDelete(ctx context.Context, tx executor, tenantID int64, table string, cols []string, rec models.SyncRecord) (models.MappingResult, error) {
	result := models.NewMappingResult(rec)

	identityColumn, hasIdentity := IdentityColumn(table)
	clientUUID, hasUUID := rec.ClientUUID()
	clientID, hasClientID := rec.ClientIDInt64()

	var where sq.Eq
	switch {
	case hasUUID && hasColumn(cols, clientUUIDColumn):
		where = sq.Eq{tenantColumn: tenantID, clientUUIDColumn: clientUUID}
	case hasClientID && hasIdentity:
		where = sq.Eq{tenantColumn: tenantID, identityColumn: clientID}
	default:
		result.Status = models.StatusSkipped
		return result, nil
	}

	deletedID, err := rc.executeDelete(ctx, tx, table, where, identityColumn)
	if err != nil {
		return result, err
	}

	result.Status = models.StatusDeleted
	result.ServerID = deletedID

	logger.FromContext(ctx).Debug().
		Str("func", "recordReconciler.reconcileDelete").
		Str("table", table).
		Int64("tenant_id", tenantID).
		Msg("deleted record")

	return result, nil
}

// executeDelete runs the delete and reports the deleted row's identity when
// the table has a known identity column, nil otherwise (including when no
// row matched).
func (rc *recordReconciler) executeDelete(ctx context.Context, tx executor, table string, where sq.Eq, identityColumn string) (*int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteQuery(table, where, identityColumn)
	if err != nil {
		return nil, err
	}

	if identityColumn == "" {
		if _, execErr := tx.ExecContext(ctx, query, args...); execErr != nil {
			log.Err(execErr).
				Str("func", "recordReconciler.executeDelete").
				Str("table", table).
				Msg("failed to execute delete query")
			return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, execErr)
		}
		return nil, nil
	}

	var deletedID int64
	err = tx.QueryRowContext(ctx, query, args...).Scan(&deletedID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		log.Err(err).
			Str("func", "recordReconciler.executeDelete").
			Str("table", table).
			Msg("failed to execute delete query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return &deletedID, nil
}

// reconcileUpsert resolves the record's identity and routes to update or
// insert.
func (rc *recordReconciler) reconcileUpsert(ctx context.Context, tx executor, tenantID int64, table string, cols []string, rec models.SyncRecord) (models.MappingResult, error) {
	result := models.NewMappingResult(rec)

	serverID, found, err := rc.resolver.Resolve(ctx, tx, tenantID, table, cols, rec)
	if err != nil {
		return result, err
	}

	identityColumn, hasIdentity := IdentityColumn(table)
	names, values := buildWriteSet(cols, rec, identityColumn)

	if found {
		return rc.reconcileUpdate(ctx, tx, tenantID, table, cols, rec, result, serverID, hasIdentity, identityColumn, names, values)
	}

	return rc.reconcileInsert(ctx, tx, tenantID, table, cols, rec, result, hasIdentity, identityColumn, names, values)
}

// reconcileUpdate overwrites changed writable fields on the matched row.
// Candidate fields equal to the stored values are dropped first; when
// nothing remains to write the existing identity is echoed back as a noop.
func (rc *recordReconciler) reconcileUpdate(ctx context.Context, tx executor, tenantID int64, table string, cols []string, rec models.SyncRecord, result models.MappingResult, serverID int64, hasIdentity bool, identityColumn string, names []string, values map[string]any) (models.MappingResult, error) {
	log := logger.FromContext(ctx)

	if hasIdentity {
		result.ServerID = &serverID
	}

	// rows on identity-less tables are addressed by their uuid
	where := sq.Eq{tenantColumn: tenantID}
	if hasIdentity {
		where[identityColumn] = serverID
	} else {
		clientUUID, _ := rec.ClientUUID()
		where[clientUUIDColumn] = clientUUID
	}

	// a row matched through its echoed server identity may not carry the
	// client uuid yet; admit it as a candidate so the linkage is persisted
	// and later uuid-scoped lookups find the row
	if clientUUID, ok := rec.ClientUUID(); ok && hasIdentity && hasColumn(cols, clientUUIDColumn) {
		names = append(names, clientUUIDColumn)
		values[clientUUIDColumn] = clientUUID
	}

	hasVersion := hasColumn(cols, versionColumn)

	changed, err := rc.diffAgainstRow(ctx, tx, table, where, names, values)
	if err != nil {
		return result, err
	}

	if len(changed) == 0 {
		if hasVersion {
			currentVersion, versionErr := rc.currentVersion(ctx, tx, table, where)
			if versionErr != nil {
				return result, versionErr
			}
			result.ServerVersion = currentVersion
		}

		result.Status = models.StatusNoop
		return result, nil
	}

	// tenant is forced into the write set so a forged or omitted value can
	// never move a row across tenants
	values[tenantColumn] = tenantID
	changed = append(changed, tenantColumn)

	query, args, err := buildUpdateQuery(table, changed, values, where, hasVersion)
	if err != nil {
		return result, err
	}

	if hasVersion {
		var newVersion int64
		if scanErr := tx.QueryRowContext(ctx, query, args...).Scan(&newVersion); scanErr != nil {
			log.Err(scanErr).
				Str("func", "recordReconciler.reconcileUpdate").
				Str("table", table).
				Msg("failed to execute update query")
			return result, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
		}
		result.ServerVersion = &newVersion
	} else {
		if _, execErr := tx.ExecContext(ctx, query, args...); execErr != nil {
			log.Err(execErr).
				Str("func", "recordReconciler.reconcileUpdate").
				Str("table", table).
				Msg("failed to execute update query")
			return result, fmt.Errorf("%w: %w", ErrExecutingQuery, execErr)
		}
	}

	result.Status = models.StatusUpdated

	log.Debug().
		Str("func", "recordReconciler.reconcileUpdate").
		Str("table", table).
		Int64("tenant_id", tenantID).
		Int("changed_fields", len(changed)).
		Msg("updated record")

	return result, nil
}

// reconcileInsert creates a new row from the admitted fields plus the
// forced server-side columns. The store-assigned identity becomes the new
// server id; the row revision starts at 1.
func (rc *recordReconciler) reconcileInsert(ctx context.Context, tx executor, tenantID int64, table string, cols []string, rec models.SyncRecord, result models.MappingResult, hasIdentity bool, identityColumn string, names []string, values map[string]any) (models.MappingResult, error) {
	log := logger.FromContext(ctx)

	names = append(names, tenantColumn)
	values[tenantColumn] = tenantID

	if clientUUID, ok := rec.ClientUUID(); ok && hasColumn(cols, clientUUIDColumn) {
		names = append(names, clientUUIDColumn)
		values[clientUUIDColumn] = clientUUID
	}

	hasVersion := hasColumn(cols, versionColumn)
	if hasVersion {
		names = append(names, versionColumn)
		values[versionColumn] = int64(1)
	}

	returningColumn := ""
	if hasIdentity {
		returningColumn = identityColumn
	}

	query, args, err := buildInsertQuery(table, names, values, returningColumn)
	if err != nil {
		return result, err
	}

	if hasIdentity {
		var newID int64
		if scanErr := tx.QueryRowContext(ctx, query, args...).Scan(&newID); scanErr != nil {
			log.Err(scanErr).
				Str("func", "recordReconciler.reconcileInsert").
				Str("table", table).
				Msg("failed to execute insert query")
			return result, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
		}
		result.ServerID = &newID
	} else {
		if _, execErr := tx.ExecContext(ctx, query, args...); execErr != nil {
			log.Err(execErr).
				Str("func", "recordReconciler.reconcileInsert").
				Str("table", table).
				Msg("failed to execute insert query")
			return result, fmt.Errorf("%w: %w", ErrExecutingQuery, execErr)
		}
	}

	if hasVersion {
		one := int64(1)
		result.ServerVersion = &one
	}

	result.Status = models.StatusInserted

	log.Debug().
		Str("func", "recordReconciler.reconcileInsert").
		Str("table", table).
		Int64("tenant_id", tenantID).
		Msg("inserted record")

	return result, nil
}

// diffAgainstRow reads the current values of the candidate columns and
// returns the subset whose incoming value differs, preserving order. An
// identical resubmit therefore reconciles to a noop instead of a write.
func (rc *recordReconciler) diffAgainstRow(ctx context.Context, tx executor, table string, where sq.Eq, names []string, values map[string]any) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	log := logger.FromContext(ctx)

	query, args, err := buildSelectQuery(table, names, where)
	if err != nil {
		return nil, err
	}

	current := make([]any, len(names))
	dest := make([]any, len(names))
	for i := range current {
		dest[i] = &current[i]
	}

	if scanErr := tx.QueryRowContext(ctx, query, args...).Scan(dest...); scanErr != nil {
		log.Err(scanErr).
			Str("func", "recordReconciler.diffAgainstRow").
			Str("table", table).
			Msg("failed to read current row for field diff")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	changed := make([]string, 0, len(names))
	for i, name := range names {
		if !valuesEqual(current[i], values[name]) {
			changed = append(changed, name)
		}
	}

	return changed, nil
}

// currentVersion reads the row's server_version for noop results.
func (rc *recordReconciler) currentVersion(ctx context.Context, tx executor, table string, where sq.Eq) (*int64, error) {
	query, args, err := buildSelectQuery(table, []string{versionColumn}, where)
	if err != nil {
		return nil, err
	}

	var version int64
	if scanErr := tx.QueryRowContext(ctx, query, args...).Scan(&version); scanErr != nil {
		logger.FromContext(ctx).Err(scanErr).
			Str("func", "recordReconciler.currentVersion").
			Str("table", table).
			Msg("failed to read current row version")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	return &version, nil
}

// valuesEqual compares a stored value against an incoming JSON value. Both
// sides are normalized to strings because the driver and the JSON decoder
// produce different Go types for the same logical value (int64 vs float64,
// []byte vs string).
func valuesEqual(stored, incoming any) bool {
	return normalizeValue(stored) == normalizeValue(incoming)
}

func normalizeValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(value)
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case time.Time:
		return value.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(value)
	}
}
