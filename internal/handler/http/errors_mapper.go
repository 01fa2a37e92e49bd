package http

import (
	"errors"
	"net/http"

	"github.com/offsync/reconciler/internal/service"
	"github.com/offsync/reconciler/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrValidationNoTable:           http.StatusBadRequest,
	service.ErrValidationTableNotSyncable:  http.StatusBadRequest,
	service.ErrValidationNoTenantID:        http.StatusBadRequest,
	service.ErrValidationNoRecordsProvided: http.StatusBadRequest,
	service.ErrValidationLengthMismatch:    http.StatusBadRequest,
	service.ErrValidationInvalidClientUUID: http.StatusBadRequest,

	store.ErrTableNotSyncable:    http.StatusBadRequest,
	store.ErrTenantColumnMissing: http.StatusInternalServerError,
	store.ErrUnknownTable:        http.StatusInternalServerError,
	store.ErrIntrospectingSchema: http.StatusInternalServerError,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusServiceUnavailable,
	store.ErrCommitingTransaction: http.StatusServiceUnavailable,
	store.ErrManagingSavepoint:    http.StatusServiceUnavailable,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
