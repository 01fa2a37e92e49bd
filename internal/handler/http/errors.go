package http

import "errors"

var (
	// ErrEmptyAPIKeyHeader is returned when the X-Api-Key header is absent.
	ErrEmptyAPIKeyHeader = errors.New("empty api key header")

	// ErrWrongAPIKey is returned when the provided API key does not match
	// the configured one.
	ErrWrongAPIKey = errors.New("wrong api key")
)
