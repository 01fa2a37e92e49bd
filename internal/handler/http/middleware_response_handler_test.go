package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseWriter_CapturesStatusAndSize(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}

	w.WriteHeader(http.StatusCreated)
	n, err := w.Write([]byte("hello"))
	if err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	if n != 5 || w.size != 5 {
		t.Errorf("expected size 5, got n=%d size=%d", n, w.size)
	}
	if w.status != http.StatusCreated {
		t.Errorf("expected status 201, got %d", w.status)
	}
	if rr.Code != http.StatusCreated {
		t.Errorf("expected underlying status 201, got %d", rr.Code)
	}
}

func TestResponseWriter_ImplicitOKOnFirstWrite(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}

	w.Write([]byte("body"))

	if w.status != http.StatusOK {
		t.Errorf("expected implicit 200, got %d", w.status)
	}
}

func TestResponseWriter_SecondWriteHeaderIsIgnored(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}

	w.WriteHeader(http.StatusAccepted)
	w.WriteHeader(http.StatusInternalServerError)

	if w.status != http.StatusAccepted {
		t.Errorf("expected first status to stick, got %d", w.status)
	}

	w.Write([]byte("a"))
	w.Write([]byte("bc"))
	if w.size != 3 {
		t.Errorf("expected accumulated size 3, got %d", w.size)
	}
}
