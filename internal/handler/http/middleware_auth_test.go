package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/offsync/reconciler/internal/logger"
)

func newAuthTestHandler(apiKey string) *Handler {
	return &Handler{
		apiKey: apiKey,
		logger: logger.Nop(),
	}
}

func runAuthMiddleware(h *Handler, headerValue string, setHeader bool) (*httptest.ResponseRecorder, *bool) {
	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/sync/customer", nil)
	if setHeader {
		req.Header.Set(apiKeyHeader, headerValue)
	}

	rr := httptest.NewRecorder()
	h.auth(next).ServeHTTP(rr, req)

	return rr, &nextCalled
}

func TestAuth_ValidKey(t *testing.T) {
	h := newAuthTestHandler("secret-key")

	rr, nextCalled := runAuthMiddleware(h, "secret-key", true)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !*nextCalled {
		t.Error("expected downstream handler to be reached")
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	h := newAuthTestHandler("secret-key")

	rr, nextCalled := runAuthMiddleware(h, "", false)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if *nextCalled {
		t.Error("downstream handler must not be reached")
	}
}

func TestAuth_WrongKey(t *testing.T) {
	h := newAuthTestHandler("secret-key")

	rr, nextCalled := runAuthMiddleware(h, "other-key", true)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if *nextCalled {
		t.Error("downstream handler must not be reached")
	}
}

func TestAuth_NoKeyConfiguredRefusesAllTraffic(t *testing.T) {
	h := newAuthTestHandler("")

	// even an empty provided key must not match an empty configured key
	rr, nextCalled := runAuthMiddleware(h, "", true)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if *nextCalled {
		t.Error("downstream handler must not be reached")
	}
}
