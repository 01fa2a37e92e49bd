package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/offsync/reconciler/internal/logger"
	"github.com/offsync/reconciler/internal/service"
	"github.com/offsync/reconciler/internal/store"
	"github.com/offsync/reconciler/models"
)

type mockSyncService struct {
	reconcileBatchFn func(ctx context.Context, table string, req models.SyncRequest) ([]models.MappingResult, error)
}

func (m *mockSyncService) ReconcileBatch(ctx context.Context, table string, req models.SyncRequest) ([]models.MappingResult, error) {
	return m.reconcileBatchFn(ctx, table, req)
}

type mockAppInfoService struct {
	version string
}

func (m *mockAppInfoService) GetAppVersion(_ context.Context) string {
	return m.version
}

func newHandlerWithSyncService(svc service.SyncService) *Handler {
	return &Handler{
		services: &service.Services{SyncService: svc},
		logger:   logger.Nop(),
	}
}

// newSyncRequest builds a POST request routed as /api/sync/{table} so
// chi.URLParam resolves when the handler method is invoked directly.
func newSyncRequest(t *testing.T, table string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	switch payload := body.(type) {
	case string:
		buf.WriteString(payload)
	default:
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/sync/"+table, &buf)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("table", table)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestReconcileBatch_Success(t *testing.T) {
	insertedID := int64(101)
	version := int64(1)
	uuid := "11111111-1111-1111-1111-111111111111"

	mockSvc := &mockSyncService{
		reconcileBatchFn: func(ctx context.Context, table string, req models.SyncRequest) ([]models.MappingResult, error) {
			if table != "customer" {
				t.Errorf("expected table customer, got %s", table)
			}
			if req.TenantID != 7 {
				t.Errorf("expected tenant 7, got %d", req.TenantID)
			}
			return []models.MappingResult{
				{
					ClientUUID:    &uuid,
					Status:        models.StatusInserted,
					ServerID:      &insertedID,
					ServerVersion: &version,
				},
			}, nil
		},
	}

	h := newHandlerWithSyncService(mockSvc)

	body := models.SyncRequest{
		TenantID: 7,
		Records:  []models.SyncRecord{{"client_uuid": uuid, "name": "ACME"}},
	}

	rr := httptest.NewRecorder()
	h.reconcileBatch(rr, newSyncRequest(t, "customer", body))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp models.SyncResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Length != 1 || len(resp.Results) != 1 {
		t.Fatalf("expected one result, got length=%d results=%d", resp.Length, len(resp.Results))
	}
	if resp.Results[0].Status != models.StatusInserted {
		t.Errorf("expected status inserted, got %q", resp.Results[0].Status)
	}
	if resp.Results[0].ServerID == nil || *resp.Results[0].ServerID != 101 {
		t.Errorf("unexpected server id: %v", resp.Results[0].ServerID)
	}
}

func TestReconcileBatch_InvalidJSON(t *testing.T) {
	mockSvc := &mockSyncService{
		reconcileBatchFn: func(ctx context.Context, table string, req models.SyncRequest) ([]models.MappingResult, error) {
			t.Fatal("service must not be reached on a malformed body")
			return nil, nil
		},
	}

	h := newHandlerWithSyncService(mockSvc)

	rr := httptest.NewRecorder()
	h.reconcileBatch(rr, newSyncRequest(t, "customer", "{not json"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Error == "" {
		t.Error("expected a non-empty error message")
	}
}

func TestReconcileBatch_ValidationErrorMapsToBadRequest(t *testing.T) {
	mockSvc := &mockSyncService{
		reconcileBatchFn: func(ctx context.Context, table string, req models.SyncRequest) ([]models.MappingResult, error) {
			return nil, service.ErrValidationNoRecordsProvided
		},
	}

	h := newHandlerWithSyncService(mockSvc)

	rr := httptest.NewRecorder()
	h.reconcileBatch(rr, newSyncRequest(t, "customer", models.SyncRequest{TenantID: 7}))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestReconcileBatch_UnknownTableMapsToBadRequest(t *testing.T) {
	mockSvc := &mockSyncService{
		reconcileBatchFn: func(ctx context.Context, table string, req models.SyncRequest) ([]models.MappingResult, error) {
			return nil, fmt.Errorf("%w: users", service.ErrValidationTableNotSyncable)
		},
	}

	h := newHandlerWithSyncService(mockSvc)

	rr := httptest.NewRecorder()
	h.reconcileBatch(rr, newSyncRequest(t, "users", models.SyncRequest{TenantID: 7, Records: []models.SyncRecord{{"a": "b"}}}))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestReconcileBatch_InfrastructureErrorMapsToServiceUnavailable(t *testing.T) {
	mockSvc := &mockSyncService{
		reconcileBatchFn: func(ctx context.Context, table string, req models.SyncRequest) ([]models.MappingResult, error) {
			return nil, fmt.Errorf("%w: connection reset", store.ErrBeginningTransaction)
		},
	}

	h := newHandlerWithSyncService(mockSvc)

	rr := httptest.NewRecorder()
	h.reconcileBatch(rr, newSyncRequest(t, "customer", models.SyncRequest{TenantID: 7, Records: []models.SyncRecord{{"a": "b"}}}))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestReconcileBatch_UnmappedErrorIsInternal(t *testing.T) {
	mockSvc := &mockSyncService{
		reconcileBatchFn: func(ctx context.Context, table string, req models.SyncRequest) ([]models.MappingResult, error) {
			return nil, fmt.Errorf("something unforeseen")
		},
	}

	h := newHandlerWithSyncService(mockSvc)

	rr := httptest.NewRecorder()
	h.reconcileBatch(rr, newSyncRequest(t, "customer", models.SyncRequest{TenantID: 7, Records: []models.SyncRecord{{"a": "b"}}}))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func TestReconcileBatch_ResponseIsJSON(t *testing.T) {
	mockSvc := &mockSyncService{
		reconcileBatchFn: func(ctx context.Context, table string, req models.SyncRequest) ([]models.MappingResult, error) {
			return []models.MappingResult{}, nil
		},
	}

	h := newHandlerWithSyncService(mockSvc)

	rr := httptest.NewRecorder()
	h.reconcileBatch(rr, newSyncRequest(t, "customer", models.SyncRequest{TenantID: 7, Records: []models.SyncRecord{{"a": "b"}}}))

	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("expected application/json content type, got %q", ct)
	}
}
