package store

import "sort"

// Column names every syncable table is expected to carry. These names, the
// registry maps below, and the schema catalog are the only sources of
// identifiers interpolated into SQL text; client input never is.
const (
	tenantColumn     = "tenant_id"
	clientUUIDColumn = "client_uuid"
	versionColumn    = "server_version"
)

// syncableTables is the static allow-list of entity types clients may sync.
// Loaded once at process start, never mutated at runtime.
var syncableTables = map[string]struct{}{
	"customer":     {},
	"product":      {},
	"invoice":      {},
	"invoice_item": {},
	"payment":      {},
	"note":         {},
}

// identityColumns maps each syncable table to its server-side primary key
// column. Tables absent from this map (e.g. "note") have no known identity
// column and can only be matched by client uuid.
var identityColumns = map[string]string{
	"customer":     "customer_id",
	"product":      "product_id",
	"invoice":      "invoice_id",
	"invoice_item": "item_id",
	"payment":      "payment_id",
}

// IsSyncable reports whether table is on the allow-list of syncable entity
// types.
func IsSyncable(table string) bool {
	_, ok := syncableTables[table]
	return ok
}

// IdentityColumn returns the server-side primary key column of table, and
// whether one is known.
func IdentityColumn(table string) (string, bool) {
	column, ok := identityColumns[table]
	return column, ok
}

// SyncableTables returns the allow-list as a sorted slice, for callers that
// iterate it (catalog warm-up, tests).
func SyncableTables() []string {
	tables := make([]string, 0, len(syncableTables))
	for table := range syncableTables {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	return tables
}
