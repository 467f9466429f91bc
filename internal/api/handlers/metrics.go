package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/cnpj-upload/internal/services"
)

// MetricsHandler handles metrics requests
type MetricsHandler struct {
	metrics services.MetricsServiceInterface
	logger  *logrus.Logger
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(metrics services.MetricsServiceInterface, logger *logrus.Logger) *MetricsHandler {
	return &MetricsHandler{
		metrics: metrics,
		logger:  logger,
	}
}

// GetMetrics handles metrics request
// @Summary Get application metrics
// @Description Counters of validated files, uploads and sessions since the process started
// @Tags Metrics
// @Produce json
// @Success 200 {object} models.MetricsResponse
// @Router /metrics [get]
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	h.logger.WithField("request_id", c.GetString("request_id")).Debug("Getting application metrics")

	c.JSON(http.StatusOK, h.metrics.GetMetrics())
}
