package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsInfrastructureError decides the batch error policy for a failed record
// operation: infrastructure failures (the store itself is unhealthy) roll
// back and abort the whole batch, while anything else (constraint
// violations, bad field data) is contained at the record boundary.
//
// Infrastructure conditions:
//   - a lost or unusable driver connection;
//   - request cancellation / deadline expiry;
//   - PostgreSQL class 08 (connection exception), class 53 (insufficient
//     resources), 57P01-57P03 (server shutdown / cannot connect), and
//     deadlock or serialization rollbacks (class 40), which poison the
//     batch transaction beyond savepoint recovery.
func IsInfrastructureError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch {
	case strings.HasPrefix(pgErr.Code, "08"): // connection exceptions
		return true
	case strings.HasPrefix(pgErr.Code, "53"): // insufficient resources
		return true
	case strings.HasPrefix(pgErr.Code, "40"): // transaction rollback
		return true
	}

	switch pgErr.Code {
	case pgerrcode.AdminShutdown,
		pgerrcode.CrashShutdown,
		pgerrcode.CannotConnectNow:
		return true
	}

	return false
}

// DescribeRecordError produces the human-readable message carried in an
// error mapping result. Well-known PostgreSQL constraint and data errors
// get stable, client-friendly wording; everything else falls back to the
// raw error text.
//
// See https://www.postgresql.org/docs/current/errcodes-appendix.html for
// the full list of PostgreSQL error codes.
func DescribeRecordError(err error) string {
	if err == nil {
		return ""
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err.Error()
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return "duplicate value violates a unique constraint"
	case pgerrcode.NotNullViolation:
		return "null value in a column that does not allow nulls"
	case pgerrcode.ForeignKeyViolation:
		return "row references a missing parent row"
	case pgerrcode.CheckViolation:
		return "value violates a check constraint"
	case pgerrcode.StringDataRightTruncationDataException:
		return "value is too long for its column"
	case pgerrcode.InvalidTextRepresentation,
		pgerrcode.NumericValueOutOfRange,
		pgerrcode.InvalidDatetimeFormat:
		return "value has an invalid representation for its column type"
	case pgerrcode.UndefinedColumn:
		return "record references an unknown column"
	}

	return pgErr.Message
}
