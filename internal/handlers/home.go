package handlers

import (
	"net/http"

	"github.com/diewo77/go-cotizaciones/httpx"
	"github.com/diewo77/go-cotizaciones/internal/services"
	"gorm.io/gorm"
)

type HomeHandler struct {
	quotes *services.QuoteService
}

func NewHomeHandler(quotes *services.QuoteService) *HomeHandler {
	return &HomeHandler{quotes: quotes}
}

// Dashboard summarizes the quotes visible to the current user.
func (h *HomeHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quotes.List(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, r, "home", err)
		return
	}
	httpx.OK(w, http.StatusOK, services.Summarize(quotes))
}

// Health is the liveness check.
func Health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness also checks the local store with a lightweight query.
func Readiness(conn *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := conn.WithContext(r.Context()).Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
