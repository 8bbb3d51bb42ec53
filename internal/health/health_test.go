package health_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/health"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func serve(handler http.HandlerFunc) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	return recorder
}

func TestHandler_AllHealthy(t *testing.T) {
	handler := health.NewHandler("test")
	handler.Register("storage", health.PingCheck("storage", func() error { return nil }))

	recorder := serve(handler.ServeHTTP)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	var resp health.Response
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Status != health.StatusHealthy {
		t.Fatalf("expected healthy, got %s", resp.Status)
	}
	if resp.Version != "test" {
		t.Fatalf("expected version test, got %s", resp.Version)
	}
}

func TestHandler_UnhealthyComponent(t *testing.T) {
	handler := health.NewHandler("test")
	handler.Register("storage", health.PingCheck("storage", func() error {
		return errors.New("connection refused")
	}))

	recorder := serve(handler.ServeHTTP)
	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", recorder.Code)
	}

	ready := serve(handler.ReadinessHandler)
	if ready.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected readiness 503, got %d", ready.Code)
	}
}

func TestHandler_DegradedKeepsReady(t *testing.T) {
	handler := health.NewHandler("test")
	handler.Register("outbox", func() health.Check {
		return health.Check{Name: "outbox", Status: health.StatusDegraded}
	})

	recorder := serve(handler.ServeHTTP)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 for degraded, got %d", recorder.Code)
	}

	var resp health.Response
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Status != health.StatusDegraded {
		t.Fatalf("expected degraded, got %s", resp.Status)
	}

	ready := serve(handler.ReadinessHandler)
	if ready.Code != http.StatusOK {
		t.Fatalf("expected readiness 200, got %d", ready.Code)
	}
}

func TestOutboxCheck(t *testing.T) {
	repo := memory.NewOutboxRepository()

	check := health.OutboxCheck(repo, time.Minute)
	if result := check(); result.Status != health.StatusHealthy {
		t.Fatalf("expected healthy on empty outbox, got %s", result.Status)
	}

	if _, err := repo.Enqueue(domain.OutboxMessage{EventType: domain.EventTypeOrderConfirmed}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if result := check(); result.Status != health.StatusHealthy {
		t.Fatalf("expected healthy for fresh backlog, got %s", result.Status)
	}

	// Со стареющим backlog проверка деградирует.
	aged := health.OutboxCheck(repo, -time.Second)
	if result := aged(); result.Status != health.StatusDegraded {
		t.Fatalf("expected degraded for stale backlog, got %s", result.Status)
	}
}
