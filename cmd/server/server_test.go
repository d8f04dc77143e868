package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/philatopia/internal/config"
	"github.com/JaimeStill/philatopia/internal/images"
	"github.com/JaimeStill/philatopia/internal/infrastructure"
	"github.com/JaimeStill/philatopia/pkg/lifecycle"
	"github.com/JaimeStill/philatopia/pkg/metrics"
	"github.com/JaimeStill/philatopia/pkg/storage"
)

func testRouter(t *testing.T) (http.Handler, *infrastructure.Infrastructure, storage.System) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	store, err := storage.NewFilesystem(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("NewFilesystem() error = %v", err)
	}

	m := metrics.New()
	infra := &infrastructure.Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Storage:   store,
		Metrics:   m,
		Images:    images.New(nil, store, storage.NamingContent, "/uploads", logger, m),
	}

	cfg := &config.Config{}
	cfg.Storage.PublicPrefix = "/uploads"

	return buildRouter(infra, cfg), infra, store
}

func serve(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	router, _, _ := testRouter(t)

	rec := serve(router, "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("healthz = %d %q, want 200 OK", rec.Code, rec.Body.String())
	}
}

func TestReadyz(t *testing.T) {
	router, infra, _ := testRouter(t)

	if rec := serve(router, "/readyz"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz before startup = %d, want 503", rec.Code)
	}

	infra.Lifecycle.WaitForStartup()

	if rec := serve(router, "/readyz"); rec.Code != http.StatusOK {
		t.Errorf("readyz after startup = %d, want 200", rec.Code)
	}
}

func TestUploads(t *testing.T) {
	router, _, store := testRouter(t)

	if err := store.Store(context.Background(), "abc.png", []byte("\x89PNG\r\n\x1a\n")); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	rec := serve(router, "/uploads/abc.png")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}

	if rec := serve(router, "/uploads/missing.png"); rec.Code != http.StatusNotFound {
		t.Errorf("missing upload status = %d, want 404", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _, _ := testRouter(t)

	serve(router, "/healthz")

	rec := serve(router, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Error("request counter missing from exposition")
	}
}

func TestRootRedirect(t *testing.T) {
	router, _, _ := testRouter(t)

	rec := serve(router, "/")
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/app/" {
		t.Errorf("Location = %q, want /app/", loc)
	}
}
