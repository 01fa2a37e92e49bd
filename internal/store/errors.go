package store

import "errors"

// Sentinel errors returned by store components to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrTableNotSyncable is returned when a batch targets a table outside
	// the static allow-list of syncable entity types.
	ErrTableNotSyncable = errors.New("table is not syncable")

	// ErrTenantColumnMissing is returned when a syncable table's discovered
	// schema does not expose a tenant column. Reconciling against such a
	// table would break tenant isolation, so the whole request is rejected
	// before any write.
	ErrTenantColumnMissing = errors.New("table has no tenant column")

	// ErrUnknownTable is returned when schema introspection finds no
	// columns for the requested table.
	ErrUnknownTable = errors.New("unknown table")

	// ErrIntrospectingSchema is returned when the schema-introspection
	// query itself fails. No cache entry is created in that case.
	ErrIntrospectingSchema = errors.New("error introspecting table schema")
)

// Low-level database operation errors. These are returned (or wrapped) by
// store methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a result
	// row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start the batch transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing the batch
	// transaction fails. The batch is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrManagingSavepoint is returned when creating, releasing, or rolling
	// back to a per-record savepoint fails. Savepoint machinery failures
	// abort the whole batch.
	ErrManagingSavepoint = errors.New("failed to manage savepoint")
)
