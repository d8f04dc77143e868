package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/philatopia/pkg/metrics"
)

func TestCanonicalPath(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"/api/collections", "/api/collections"},
		{"/api/collections/", "/api/collections"},
		{"/api/collections/0b7c6f9e-3a52-4f0e-9d1e-2f1c3b1a9e44", "/api/collections/:id"},
		{"/uploads/ab/cd.png", "/uploads"},
		{"/app/collection", "/app/collection"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := metrics.CanonicalPath(tt.raw); got != tt.want {
				t.Errorf("CanonicalPath(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestInstrument(t *testing.T) {
	m := metrics.New()

	h := m.Instrument(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/collections/0b7c6f9e-3a52-4f0e-9d1e-2f1c3b1a9e44", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := w.Body.String()
	want := `philatopia_http_requests_total{method="GET",path="/api/collections/:id",status="404"} 1`
	if !strings.Contains(body, want) {
		t.Errorf("metrics output missing %q", want)
	}
	if strings.Contains(body, `path="/metrics"`) {
		t.Error("metrics endpoint should not be instrumented")
	}
}

func TestRecordMutation(t *testing.T) {
	m := metrics.New()

	m.RecordMutation("create", nil)
	m.RecordMutation("create", nil)
	m.RecordMutation("delete", errors.New("boom"))
	m.RecordBlob("store", nil)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()

	for _, want := range []string{
		`philatopia_stamps_mutations_total{operation="create",result="success"} 2`,
		`philatopia_stamps_mutations_total{operation="delete",result="error"} 1`,
		`philatopia_storage_blob_operations_total{operation="store",result="success"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
