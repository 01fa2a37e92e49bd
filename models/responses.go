package models

// SyncResponse carries the full ordered outcome of one reconciled batch:
// exactly one MappingResult per submitted record, in submission order.
type SyncResponse struct {
	Results []MappingResult `json:"results"`

	// Length is the number of entries in Results, provided so clients can
	// validate the response without iterating the slice.
	Length int `json:"length"`
}

// ErrorResponse is the single diagnostic object returned for request-level
// failures. Callers receive either a full SyncResponse or this, never a
// partial result list mixed with a top-level error.
type ErrorResponse struct {
	Error string `json:"error"`
}
