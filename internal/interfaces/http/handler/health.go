package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/facturator/backend/internal/infrastructure/logger"
	"github.com/facturator/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthData is the health report
type HealthData struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks"`
	Time   time.Time         `json:"time"`
}

// HealthHandler serves /health
type HealthHandler struct {
	BaseHandler
	checks map[string]HealthCheck
}

// NewHealthHandler creates a HealthHandler probing the named checks
func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health godoc
// @Summary      Health check
// @Description  Report liveness and the reachability of the database
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	data := HealthData{Status: "ok", Checks: make(map[string]string, len(names)), Time: time.Now().UTC()}
	status := http.StatusOK
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			logger.L(c.Request.Context()).Warn("Health check failed", zap.String("check", name), zap.Error(err))
			data.Checks[name] = "unavailable"
			data.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		data.Checks[name] = "ok"
	}

	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: data})
}
