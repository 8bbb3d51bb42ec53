package health

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Status — состояние компонента.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Check — результат одной проверки.
type Check struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Response — полный ответ /health.
type Response struct {
	Status        Status           `json:"status"`
	Timestamp     time.Time        `json:"timestamp"`
	Checks        map[string]Check `json:"checks,omitempty"`
	Version       string           `json:"version,omitempty"`
	UptimeSeconds int64            `json:"uptime_seconds"`
}

// CheckFunc превращает функцию в проверку здоровья компонента.
type CheckFunc func() Check

// Handler агрегирует проверки компонентов и отдаёт /health и /ready.
type Handler struct {
	mu        sync.RWMutex
	checks    map[string]CheckFunc
	version   string
	startTime time.Time
}

// NewHandler создаёт health handler.
func NewHandler(version string) *Handler {
	return &Handler{
		checks:    make(map[string]CheckFunc),
		version:   version,
		startTime: time.Now(),
	}
}

// Register добавляет проверку компонента под заданным именем.
func (h *Handler) Register(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

func (h *Handler) runChecks() (map[string]Check, Status) {
	h.mu.RLock()
	checks := make(map[string]CheckFunc, len(h.checks))
	for name, check := range h.checks {
		checks[name] = check
	}
	h.mu.RUnlock()

	results := make(map[string]Check, len(checks))
	overall := StatusHealthy
	for name, check := range checks {
		result := check()
		results[name] = result

		switch result.Status {
		case StatusUnhealthy:
			overall = StatusUnhealthy
		case StatusDegraded:
			if overall == StatusHealthy {
				overall = StatusDegraded
			}
		}
	}
	return results, overall
}

// ServeHTTP отдаёт агрегированный статус всех компонентов.
func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	checks, overall := h.runChecks()

	statusCode := http.StatusOK
	if overall == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(Response{
		Status:        overall,
		Timestamp:     time.Now(),
		Checks:        checks,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	})
}

// LivenessHandler — простой liveness probe, всегда 200.
func LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// ReadinessHandler возвращает 503, пока хотя бы один компонент unhealthy.
func (h *Handler) ReadinessHandler(w http.ResponseWriter, _ *http.Request) {
	if _, overall := h.runChecks(); overall == StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// PingCheck оборачивает функцию вида Ping() error.
func PingCheck(name string, ping func() error) CheckFunc {
	return func() Check {
		start := time.Now()
		err := ping()
		duration := time.Since(start).Milliseconds()

		if err != nil {
			return Check{Name: name, Status: StatusUnhealthy, Message: err.Error(), DurationMs: duration}
		}
		return Check{Name: name, Status: StatusHealthy, DurationMs: duration}
	}
}

// OutboxCheck следит за backlog transactional outbox: когда самое старое
// pending-сообщение старше maxAge, компонент считается degraded.
func OutboxCheck(repo domain.OutboxRepository, maxAge time.Duration) CheckFunc {
	return func() Check {
		start := time.Now()
		stats, err := repo.Stats()
		duration := time.Since(start).Milliseconds()

		if err != nil {
			return Check{Name: "outbox", Status: StatusUnhealthy, Message: err.Error(), DurationMs: duration}
		}
		if stats.PendingCount > 0 && !stats.OldestPendingAt.IsZero() && time.Since(stats.OldestPendingAt) > maxAge {
			return Check{
				Name:       "outbox",
				Status:     StatusDegraded,
				Message:    "outbox backlog is not draining",
				DurationMs: duration,
			}
		}
		return Check{Name: "outbox", Status: StatusHealthy, DurationMs: duration}
	}
}
