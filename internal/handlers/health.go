package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mlima-digital/whatsapp-bridge/internal/config"
	"github.com/mlima-digital/whatsapp-bridge/internal/models"
	"github.com/mlima-digital/whatsapp-bridge/internal/services"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// HealthResponse reports the service and collaborator health
type HealthResponse struct {
	Status    string                  `json:"status"`
	Redis     string                  `json:"redis"`
	Gateway   *services.GatewayStatus `json:"gateway,omitempty"`
	Timestamp string                  `json:"timestamp"`
}

// Health godoc
// @Summary Health check
// @Description Verifica Redis e o status do gateway de WhatsApp.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *WhatsAppHandlers) Health(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "Health")
	defer span.End()

	health := HealthResponse{
		Status:    "healthy",
		Redis:     "ok",
		Timestamp: models.NewTimestamp(time.Now()),
	}

	if config.Redis == nil {
		health.Status = "unhealthy"
		health.Redis = "not initialized"
	} else if err := config.Redis.Ping(ctx).Err(); err != nil {
		h.logger.Error("redis health check failed", zap.Error(err))
		health.Status = "unhealthy"
		health.Redis = err.Error()
	}

	// gateway status is informational; an unreachable sidecar does not
	// take the bridge down
	if status, err := h.gateway.Status(ctx); err == nil {
		health.Gateway = status
	} else {
		h.logger.Warn("gateway status check failed", zap.Error(err))
	}

	if health.Status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}
