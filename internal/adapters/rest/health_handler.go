package rest

import (
	"context"
	"net/http"
	"time"

	"catalog-service/internal/contextkeys"
)

// Pinger то, что умеет проверить связь с хранилищем (pgxpool.Pool)
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	timeout time.Duration
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second}
}

// Healthz обрабатывает GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		contextkeys.LoggerFromContext(r.Context()).Error("Health check failed", err, nil)
		WriteJSONError(w, http.StatusServiceUnavailable, "Database unavailable", err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
