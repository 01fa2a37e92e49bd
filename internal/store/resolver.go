package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/offsync/reconciler/internal/logger"
	"github.com/offsync/reconciler/models"
)

// identityResolver decides whether a client record already has a matching
// server row, using the dual-identity lookup strategy: the durable client
// uuid first, then the echoed server identity carried in client_id.
type identityResolver struct {
	logger *logger.Logger
}

// NewIdentityResolver constructs an identityResolver.
func NewIdentityResolver(log *logger.Logger) *identityResolver {
	return &identityResolver{logger: log}
}

// Resolve looks up an existing server identity for rec within tenantID,
// running on q so it shares the batch transaction.
//
// Tiers, first match wins:
//  1. the table carries a client_uuid column and the record supplies one:
//     match by tenant + client_uuid;
//  2. the table has a known identity column and the record supplies a
//     client_id: match by tenant + identity = client_id (valid once the
//     record has been synced before and the client echoes the server id).
//
// A uuid match on a table without a known identity column reports found
// with a zero id; the reconciler then addresses the row by uuid.
func (r *identityResolver) Resolve(ctx context.Context, q querier, tenantID int64, table string, cols []string, rec models.SyncRecord) (int64, bool, error) {
	identityColumn, hasIdentity := IdentityColumn(table)

	if clientUUID, ok := rec.ClientUUID(); ok && hasColumn(cols, clientUUIDColumn) {
		serverID, found, err := r.lookup(ctx, q, table, identityColumn, sq.Eq{
			tenantColumn:     tenantID,
			clientUUIDColumn: clientUUID,
		})
		if err != nil || found {
			return serverID, found, err
		}
		// No row carries this uuid yet; fall through to the echoed
		// server identity before treating the record as new.
	}

	if clientID, ok := rec.ClientIDInt64(); ok && hasIdentity {
		return r.lookup(ctx, q, table, identityColumn, sq.Eq{
			tenantColumn:   tenantID,
			identityColumn: clientID,
		})
	}

	return 0, false, nil
}

// lookup runs a single-row identity probe. When the table has no identity
// column it selects a constant instead, so existence is still detectable.
func (r *identityResolver) lookup(ctx context.Context, q querier, table, identityColumn string, where sq.Eq) (int64, bool, error) {
	log := logger.FromContext(ctx)

	selectColumn := identityColumn
	if selectColumn == "" {
		selectColumn = "1"
	}

	query, args, err := buildSelectQuery(table, []string{selectColumn}, where)
	if err != nil {
		log.Err(err).
			Str("func", "identityResolver.lookup").
			Str("table", table).
			Msg("failed to build identity lookup query")
		return 0, false, err
	}

	var value int64
	err = q.QueryRowContext(ctx, query, args...).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, false, nil
	case err != nil:
		log.Err(err).
			Str("func", "identityResolver.lookup").
			Str("table", table).
			Msg("failed to execute identity lookup query")
		return 0, false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if identityColumn == "" {
		return 0, true, nil
	}

	return value, true, nil
}
