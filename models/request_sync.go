package models

// SyncRequest is the body of a batch reconciliation call. The target table
// travels in the URL, the tenant and records in the body.
type SyncRequest struct {
	// TenantID scopes every read and write of the batch to one tenant.
	TenantID int64 `json:"tenant_id"`

	// Records is the ordered list of client-originated records to
	// reconcile against the canonical store.
	Records []SyncRecord `json:"records"`

	// Length is the number of entries in Records. Provided by clients for
	// cheap integrity checking; a mismatch rejects the request.
	Length int `json:"length"`
}
