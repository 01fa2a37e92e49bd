package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/offsync/reconciler/models"
)

// introspectColumns discovers a table's column set at runtime. Ordered by
// ordinal position so write sets and scans stay deterministic.
const introspectColumns = `SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position;`

// psql builds every dynamic statement with PostgreSQL $n placeholders.
// Table and column identifiers fed into it come exclusively from the static
// registry and the schema catalog, never from client input.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// protectedFields holds client bookkeeping that must never be persisted
// server-side, plus the sync metadata keys that are not business fields.
var protectedFields = map[string]struct{}{
	models.FieldServerID:       {},
	models.FieldLocalVersion:   {},
	models.FieldLocalUpdatedAt: {},
	models.FieldClientID:       {},
	models.FieldSyncStatus:     {},
}

// buildWriteSet selects the record fields eligible for persistence: a field
// is writable iff its name is a known column of the table and it is not
// protected client bookkeeping. The tenant, identity, client_uuid, and
// server_version columns are managed by the reconciler itself and are
// excluded here. Returned in catalog column order, so generated SQL is
// deterministic.
func buildWriteSet(cols []string, rec models.SyncRecord, identityColumn string) ([]string, map[string]any) {
	names := make([]string, 0, len(cols))
	values := make(map[string]any, len(cols))

	for _, col := range cols {
		if col == tenantColumn || col == versionColumn || col == clientUUIDColumn || col == identityColumn {
			continue
		}
		if _, protected := protectedFields[col]; protected {
			continue
		}

		value, present := rec[col]
		if !present {
			continue
		}

		names = append(names, col)
		values[col] = value
	}

	return names, values
}

// buildInsertQuery assembles the INSERT for a new row: admitted fields in
// catalog order, then the forced server-side columns. When the table has a
// known identity column the new key is returned via RETURNING.
func buildInsertQuery(table string, names []string, values map[string]any, identityColumn string) (string, []any, error) {
	columns := make([]string, 0, len(names)+3)
	args := make([]any, 0, len(names)+3)
	for _, name := range names {
		columns = append(columns, name)
		args = append(args, values[name])
	}

	builder := psql.Insert(table).Columns(columns...).Values(args...)
	if identityColumn != "" {
		builder = builder.Suffix("RETURNING " + identityColumn)
	}

	query, queryArgs, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, queryArgs, nil
}

// buildUpdateQuery assembles the UPDATE for changed fields, bumping
// server_version when the table carries one and returning the new value.
func buildUpdateQuery(table string, names []string, values map[string]any, where sq.Eq, hasVersion bool) (string, []any, error) {
	builder := psql.Update(table)
	for _, name := range names {
		builder = builder.Set(name, values[name])
	}
	if hasVersion {
		builder = builder.Set(versionColumn, sq.Expr(versionColumn+" + 1")).
			Suffix("RETURNING " + versionColumn)
	}

	query, args, err := builder.Where(where).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildDeleteQuery assembles the DELETE scoped by where; when the table has
// a known identity column the deleted key is returned via RETURNING.
func buildDeleteQuery(table string, where sq.Eq, identityColumn string) (string, []any, error) {
	builder := psql.Delete(table).Where(where)
	if identityColumn != "" {
		builder = builder.Suffix("RETURNING " + identityColumn)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildSelectQuery assembles the SELECT used by the update branch to read
// the current values of candidate columns for the changed-field diff.
func buildSelectQuery(table string, columns []string, where sq.Eq) (string, []any, error) {
	query, args, err := psql.Select(columns...).From(table).Where(where).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
