package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/travel-bucket/internal/middleware"
	"github.com/deppfellow/travel-bucket/internal/server"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Driver      string                 `json:"driver"`
	Checks      map[string]CheckResult `json:"checks"`
}

type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth probes the configured dependencies. A failing database makes
// the service unhealthy (503); Redis only degrades rate limiting, so its
// failure is reported without changing the overall status.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().Str("operation", "health_check").Logger()
	obs := h.server.Config.Observability

	response := HealthResponse{
		Status:      statusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Driver:      h.server.Config.Database.Driver,
		Checks:      map[string]CheckResult{},
	}

	if h.server.DB != nil && obs.RunsCheck("database") {
		result := h.probe(c.Request().Context(), "database", h.server.DB.Ping)
		response.Checks["database"] = result
		if result.Status != statusHealthy {
			response.Status = statusUnhealthy
		}
	}

	if h.server.Redis != nil && obs.RunsCheck("redis") {
		response.Checks["redis"] = h.probe(c.Request().Context(), "redis", func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
	}

	if response.Status != statusHealthy {
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().Dur("total_duration", time.Since(start)).Msg("health check passed")
	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) probe(parent context.Context, name string, ping func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(parent, h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	elapsed := time.Since(start)

	if err == nil {
		return CheckResult{Status: statusHealthy, ResponseTime: elapsed.String()}
	}

	h.server.Logger.Error().Err(err).Str("check", name).Dur("response_time", elapsed).Msg("health check failed")

	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", map[string]any{
			"check_type":       name,
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})
	}

	return CheckResult{Status: statusUnhealthy, ResponseTime: elapsed.String(), Error: err.Error()}
}
