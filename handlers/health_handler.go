package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger реализуется *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health godoc
// @Summary Проверка работоспособности
// @Tags health
// @Produce json
// @Success 200 {object} handlers.healthResponse
// @Failure 503 {object} handlers.healthResponse
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		slog.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
		respond(w, r, http.StatusServiceUnavailable, healthResponse{Status: "error", Message: "Database is unavailable"})
		return
	}
	respond(w, r, http.StatusOK, healthResponse{Status: "ok", Message: "Chess Statistics API is running"})
}
