package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/cnpj-upload/internal/models"
)

// Version is reported by the health endpoints
const Version = "1.0.0"

// HealthChecker reports the status of each dependency
type HealthChecker interface {
	Health(ctx context.Context) map[string]interface{}
}

// HealthHandler handles health check requests
type HealthHandler struct {
	checker   HealthChecker
	logger    *logrus.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checker HealthChecker, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		checker:   checker,
		logger:    logger,
		startTime: time.Now(),
	}
}

// GetHealth handles general health check
// @Summary Health check
// @Description Get the health status of the API and its dependencies
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *gin.Context) {
	start := time.Now()
	servicesHealth := h.checker.Health(c.Request.Context())
	elapsed := time.Since(start)

	status := overallStatus(servicesHealth)

	response := models.HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Version:   Version,
		Services:  make(map[string]models.ServiceInfo),
		Uptime:    time.Since(h.startTime).String(),
	}

	for serviceName, serviceHealth := range servicesHealth {
		healthMap, ok := serviceHealth.(map[string]interface{})
		if !ok {
			continue
		}

		serviceInfo := models.ServiceInfo{
			LastCheck:      response.Timestamp,
			ResponseTimeMs: elapsed.Milliseconds(),
		}
		if serviceStatus, ok := healthMap["status"].(string); ok {
			serviceInfo.Status = serviceStatus
		}
		if errorMsg, ok := healthMap["error"].(string); ok {
			serviceInfo.Error = errorMsg
		}
		response.Services[serviceName] = serviceInfo
	}

	if status != "healthy" {
		h.logger.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"status":     status,
		}).Warn("Health check not healthy")
	}

	httpStatus := http.StatusOK
	if status == "unhealthy" {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, response)
}

// GetReadiness handles readiness probe
// @Summary Readiness check
// @Description Check if the API can reach the bucket. Redis is optional since sessions fall back to memory.
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/ready [get]
func (h *HealthHandler) GetReadiness(c *gin.Context) {
	servicesHealth := h.checker.Health(c.Request.Context())

	ready := true
	issues := make([]string, 0)

	if storageHealth, ok := servicesHealth["storage"].(map[string]interface{}); ok {
		if status, exists := storageHealth["status"]; exists && status == "unhealthy" {
			ready = false
			issues = append(issues, "storage bucket is unreachable")
		}
	}

	response := map[string]interface{}{
		"ready":     ready,
		"timestamp": time.Now(),
		"services":  servicesHealth,
	}

	if len(issues) > 0 {
		response["issues"] = issues
	}

	httpStatus := http.StatusOK
	if !ready {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, response)
}

// GetLiveness handles liveness probe
// @Summary Liveness check
// @Description Check if the API is alive and responding
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/live [get]
func (h *HealthHandler) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"alive":     true,
		"timestamp": time.Now(),
		"uptime":    time.Since(h.startTime).String(),
		"version":   Version,
	})
}

// overallStatus is unhealthy if any dependency is, degraded if any is degraded
func overallStatus(servicesHealth map[string]interface{}) string {
	status := "healthy"
	for _, serviceHealth := range servicesHealth {
		healthMap, ok := serviceHealth.(map[string]interface{})
		if !ok {
			continue
		}
		switch healthMap["status"] {
		case "unhealthy":
			return "unhealthy"
		case "degraded":
			status = "degraded"
		}
	}
	return status
}
