package api

import (
	"context"
	"net/http"
	"time"
)

const healthTimeout = 2 * time.Second

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  HealthResponse
// @Router       /health [get]
func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.WithError(err).Warn("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
