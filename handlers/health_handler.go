package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger is satisfied by every repositories.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	pinger Pinger
}

func NewHealthHandler(pinger Pinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

// Healthz godoc
// @Summary Проверка доступности
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthz [get]
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			errorResponse(w, r, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
	}
	if err := writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
