package models

// Terminal outcomes of reconciling a single record.
const (
	StatusInserted = "inserted"
	StatusUpdated  = "updated"
	StatusDeleted  = "deleted"
	StatusSkipped  = "skipped"
	StatusNoop     = "noop"
	StatusError    = "error"
)

// MappingResult links the client-side identity of one submitted record to
// its server-side identity and outcome. Exactly one MappingResult is
// produced per input record, in input order.
type MappingResult struct {
	// ClientUUID echoes the record's client-generated identifier,
	// nil when the client did not send one.
	ClientUUID *string `json:"client_uuid"`

	// ClientID echoes the record's client-local identifier as received,
	// nil when the client did not send one.
	ClientID any `json:"client_id"`

	// ServerID is the server-assigned identity of the affected row:
	// the new primary key on insert, the matched key on update/noop,
	// the deleted key on delete. Nil when no row was touched or the
	// table has no known identity column.
	ServerID *int64 `json:"server_id"`

	// Status is one of the Status* constants above.
	Status string `json:"status"`

	// ServerVersion is the row revision after the operation: 1 on insert,
	// bumped on update, current value on noop. Omitted for deletes, skips
	// and tables without a server_version column.
	ServerVersion *int64 `json:"server_version,omitempty"`

	// Message carries a diagnostic for StatusError results.
	Message string `json:"message,omitempty"`
}

// NewMappingResult seeds a result with the client-side identity of rec so
// every outcome branch only has to fill in the server side.
func NewMappingResult(rec SyncRecord) MappingResult {
	result := MappingResult{}

	if clientUUID, ok := rec.ClientUUID(); ok {
		result.ClientUUID = &clientUUID
	}
	if clientID, ok := rec.ClientID(); ok {
		result.ClientID = clientID
	}

	return result
}
