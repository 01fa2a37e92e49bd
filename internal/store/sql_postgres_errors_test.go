package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
)

func TestIsInfrastructureError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bad connection", driver.ErrBadConn, true},
		{"context canceled", context.Canceled, true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"wrapped bad connection", fmt.Errorf("%w: %w", ErrExecutingQuery, driver.ErrBadConn), true},
		{"pg connection failure", pgError(pgerrcode.ConnectionFailure), true},
		{"pg too many connections", pgError(pgerrcode.TooManyConnections), true},
		{"pg deadlock", pgError(pgerrcode.DeadlockDetected), true},
		{"pg serialization failure", pgError(pgerrcode.SerializationFailure), true},
		{"pg admin shutdown", pgError(pgerrcode.AdminShutdown), true},
		{"pg unique violation", pgError(pgerrcode.UniqueViolation), false},
		{"pg not null violation", pgError(pgerrcode.NotNullViolation), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInfrastructureError(tt.err); got != tt.want {
				t.Errorf("IsInfrastructureError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDescribeRecordError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unique violation", pgError(pgerrcode.UniqueViolation), "duplicate value violates a unique constraint"},
		{"not null violation", pgError(pgerrcode.NotNullViolation), "null value in a column that does not allow nulls"},
		{"foreign key violation", pgError(pgerrcode.ForeignKeyViolation), "row references a missing parent row"},
		{"check violation", pgError(pgerrcode.CheckViolation), "value violates a check constraint"},
		{"bad representation", pgError(pgerrcode.InvalidTextRepresentation), "value has an invalid representation for its column type"},
		{"non-pg error", errors.New("plain failure"), "plain failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescribeRecordError(tt.err); got != tt.want {
				t.Errorf("DescribeRecordError(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestDescribeRecordError_WrappedPgErrorStillMatches(t *testing.T) {
	wrapped := fmt.Errorf("%w: %w", ErrExecutingQuery, pgError(pgerrcode.UniqueViolation))

	if got := DescribeRecordError(wrapped); got != "duplicate value violates a unique constraint" {
		t.Errorf("unexpected message: %q", got)
	}
}
