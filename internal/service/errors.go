package service

import "errors"

var (
	ErrValidationNoTable           = errors.New("no table was given")
	ErrValidationTableNotSyncable  = errors.New("table is not in the syncable allow-list")
	ErrValidationNoTenantID        = errors.New("no tenant ID was given")
	ErrValidationNoRecordsProvided = errors.New("no records provided")
	ErrValidationLengthMismatch    = errors.New("declared length does not match records count")
	ErrValidationInvalidClientUUID = errors.New("record carries a malformed client uuid")

	ErrVersionIsNotSpecified = errors.New("application version is not specified")
)
