package models

import (
	"encoding/json"
	"strconv"
)

// Metadata keys that clients send inside a record next to the business
// fields. They are consumed by the reconciliation engine and are never
// persisted as columns.
const (
	FieldClientUUID     = "client_uuid"
	FieldClientID       = "client_id"
	FieldSyncStatus     = "sync_status"
	FieldServerID       = "server_id"
	FieldLocalVersion   = "local_version"
	FieldLocalUpdatedAt = "local_updated_at"
)

// SyncStatusDelete is the sync_status value that marks a record for
// deletion. Every other value (including an absent one) means upsert.
const SyncStatusDelete int64 = 3

// SyncRecord is one client-submitted record: an arbitrary mapping of field
// name to value as decoded from JSON, with the sync metadata keys above
// mixed in. Business fields are admitted against the schema catalog before
// any write; metadata keys are read through the accessors below.
type SyncRecord map[string]any

// ClientUUID returns the record's client-generated identifier.
// A present key with an empty or non-string value counts as not supplied.
func (r SyncRecord) ClientUUID() (string, bool) {
	v, ok := r[FieldClientUUID]
	if !ok {
		return "", false
	}

	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}

	return s, true
}

// ClientID returns the raw client-local identifier and whether the client
// explicitly sent one. Presence is keyed on the map entry existing, not on
// the value being truthy: a zero or empty client id is still a client id.
func (r SyncRecord) ClientID() (any, bool) {
	v, ok := r[FieldClientID]
	return v, ok
}

// ClientIDInt64 returns the client id coerced to int64 for identity-column
// matching. The second return is false when no client id was sent or the
// value cannot be read as an integer.
func (r SyncRecord) ClientIDInt64() (int64, bool) {
	v, ok := r[FieldClientID]
	if !ok {
		return 0, false
	}

	return coerceInt64(v)
}

// SyncStatus returns the record's sync_status coerced to a number.
// An absent or unreadable value defaults to 0 (upsert), never to delete.
func (r SyncRecord) SyncStatus() int64 {
	v, ok := r[FieldSyncStatus]
	if !ok {
		return 0
	}

	status, ok := coerceInt64(v)
	if !ok {
		return 0
	}

	return status
}

// IsDelete reports whether the record asks for deletion.
func (r SyncRecord) IsDelete() bool {
	return r.SyncStatus() == SyncStatusDelete
}

// coerceInt64 converts the loosely-typed values produced by JSON decoding
// (float64, json.Number, numeric strings) into an int64.
func coerceInt64(v any) (int64, bool) {
	switch value := v.(type) {
	case int64:
		return value, true
	case int:
		return int64(value), true
	case float64:
		return int64(value), true
	case json.Number:
		n, err := value.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case string:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
