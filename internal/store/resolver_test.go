package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/offsync/reconciler/internal/logger"
	"github.com/offsync/reconciler/models"
)

func newTestResolver(t *testing.T) (*identityResolver, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return NewIdentityResolver(logger.Nop()), mock, db
}

func TestResolve_UUIDMatch(t *testing.T) {
	resolver, mock, db := newTestResolver(t)
	defer db.Close()

	rec := models.SyncRecord{"client_uuid": "11111111-1111-1111-1111-111111111111"}

	mock.ExpectQuery("SELECT customer_id FROM customer").
		WithArgs("11111111-1111-1111-1111-111111111111", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"customer_id"}).AddRow(42))

	serverID, found, err := resolver.Resolve(context.Background(), db, 7, "customer", customerColumns, rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected record to be found")
	}
	if serverID != 42 {
		t.Errorf("expected serverID=42, got %d", serverID)
	}
}

func TestResolve_UUIDMissFallsThroughToClientID(t *testing.T) {
	resolver, mock, db := newTestResolver(t)
	defer db.Close()

	rec := models.SyncRecord{
		"client_uuid":        "11111111-1111-1111-1111-111111111111",
		models.FieldClientID: float64(42), // JSON decodes numbers to float64
	}

	mock.ExpectQuery("SELECT customer_id FROM customer").
		WithArgs("11111111-1111-1111-1111-111111111111", int64(7)).
		WillReturnError(sql.ErrNoRows)

	mock.ExpectQuery("SELECT customer_id FROM customer").
		WithArgs(int64(42), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"customer_id"}).AddRow(42))

	serverID, found, err := resolver.Resolve(context.Background(), db, 7, "customer", customerColumns, rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found || serverID != 42 {
		t.Fatalf("expected found=true serverID=42, got found=%v serverID=%d", found, serverID)
	}
}

func TestResolve_NoIdentitiesSupplied(t *testing.T) {
	resolver, mock, db := newTestResolver(t)
	defer db.Close()

	rec := models.SyncRecord{"name": "ACME"}

	serverID, found, err := resolver.Resolve(context.Background(), db, 7, "customer", customerColumns, rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found || serverID != 0 {
		t.Fatalf("expected not found, got found=%v serverID=%d", found, serverID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no query should have run: %v", err)
	}
}

func TestResolve_UUIDOnlyTableReportsFoundWithZeroID(t *testing.T) {
	resolver, mock, db := newTestResolver(t)
	defer db.Close()

	noteColumns := []string{"tenant_id", "client_uuid", "server_version", "subject", "body"}
	rec := models.SyncRecord{"client_uuid": "22222222-2222-2222-2222-222222222222"}

	mock.ExpectQuery("SELECT 1 FROM note").
		WithArgs("22222222-2222-2222-2222-222222222222", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	serverID, found, err := resolver.Resolve(context.Background(), db, 7, "note", noteColumns, rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected record to be found")
	}
	if serverID != 0 {
		t.Errorf("expected zero serverID for identity-less table, got %d", serverID)
	}
}

func TestResolve_ClientIDOnlyTable(t *testing.T) {
	resolver, mock, db := newTestResolver(t)
	defer db.Close()

	paymentColumns := []string{"payment_id", "tenant_id", "server_version", "invoice_id", "amount"}
	rec := models.SyncRecord{
		"client_uuid":        "33333333-3333-3333-3333-333333333333", // ignored, no uuid column
		models.FieldClientID: float64(9),
	}

	mock.ExpectQuery("SELECT payment_id FROM payment").
		WithArgs(int64(9), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"payment_id"}).AddRow(9))

	serverID, found, err := resolver.Resolve(context.Background(), db, 7, "payment", paymentColumns, rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found || serverID != 9 {
		t.Fatalf("expected found=true serverID=9, got found=%v serverID=%d", found, serverID)
	}
}

func TestResolve_QueryFailure(t *testing.T) {
	resolver, mock, db := newTestResolver(t)
	defer db.Close()

	rec := models.SyncRecord{"client_uuid": "11111111-1111-1111-1111-111111111111"}

	mock.ExpectQuery("SELECT customer_id FROM customer").
		WillReturnError(errors.New("socket closed"))

	_, _, err := resolver.Resolve(context.Background(), db, 7, "customer", customerColumns, rec)
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
}
