package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/permitdesk/permitdesk/api"
	"github.com/permitdesk/permitdesk/internal/db"
)

func TestHealthHandler(t *testing.T) {
	ctx := context.Background()
	d, err := db.New(ctx, "file:api_health?mode=memory&cache=shared", nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	h := api.NewSystemHandler(d)

	rr := httptest.NewRecorder()
	h.HealthHandler(rr, httptest.NewRequest("GET", "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	status := decodeBody[struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}](t, rr)
	if status.Status != "ok" || status.Service != "permitdesk" {
		t.Fatalf("unexpected health body: %+v", status)
	}

	// with the database gone, health degrades
	d.Close()
	rr = httptest.NewRecorder()
	h.HealthHandler(rr, httptest.NewRequest("GET", "/health", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 after close, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestVersionHandler(t *testing.T) {
	h := api.NewSystemHandler(nil)

	rr := httptest.NewRecorder()
	h.VersionHandler("1.2.3", "2026-09-01")(rr, httptest.NewRequest("GET", "/version", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	v := decodeBody[struct {
		Version   string `json:"version"`
		BuildTime string `json:"buildTime"`
	}](t, rr)
	if v.Version != "1.2.3" || v.BuildTime != "2026-09-01" {
		t.Fatalf("unexpected version body: %+v", v)
	}
}
