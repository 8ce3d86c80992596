package http

import (
	"net/http"
	"strconv"
	"time"

	"options-trading-backend/internal/entity"
	"options-trading-backend/internal/monitor/dto"
	"options-trading-backend/internal/monitor/repository"
	"options-trading-backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

const defaultHistoryLimit = 50

// StatusHandler exposes the monitor's view of the fleet over HTTP.
type StatusHandler struct {
	healthRepo repository.HealthRepository
	logger     *logger.Logger
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(healthRepo repository.HealthRepository, logger *logger.Logger) *StatusHandler {
	return &StatusHandler{healthRepo: healthRepo, logger: logger}
}

// RegisterRoutes registers monitor routes to the Echo group.
func (h *StatusHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/status", h.GetStatus)
	g.GET("/status/:service/history", h.GetHistory)
}

// RegisterHealth registers the health route on the Echo root.
func (h *StatusHandler) RegisterHealth(e *echo.Echo) {
	e.GET("/healthz", h.Health)
}

// GetStatus returns the latest observation and 24h uptime for every service.
func (h *StatusHandler) GetStatus(c echo.Context) error {
	ctx := c.Request().Context()

	latest, err := h.healthRepo.LatestPerService(ctx)
	if err != nil {
		h.logger.Error("Failed to load latest health checks", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	since := time.Now().UTC().Add(-24 * time.Hour)
	overall := "healthy"
	services := make([]dto.ServiceStatus, 0, len(latest))
	for _, check := range latest {
		uptime, err := h.healthRepo.UptimeSince(ctx, check.Service, since)
		if err != nil {
			h.logger.Error("Failed to compute uptime",
				logger.ErrorField(err), logger.Field("service", check.Service))
		}
		if check.State != entity.HealthStateHealthy {
			overall = "degraded"
		}
		services = append(services, dto.ServiceStatus{
			Service:    check.Service,
			State:      string(check.State),
			HTTPStatus: check.HTTPStatus,
			LatencyMS:  check.LatencyMS,
			Error:      check.Error,
			CheckedAt:  check.CheckedAt,
			Uptime24h:  uptime,
		})
	}

	return c.JSON(http.StatusOK, dto.StatusResponse{Overall: overall, Services: services})
}

// GetHistory returns recent observations for one service, newest first.
func (h *StatusHandler) GetHistory(c echo.Context) error {
	limit := defaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid limit"})
		}
		limit = parsed
	}

	service := c.Param("service")
	checks, err := h.healthRepo.History(c.Request().Context(), service, limit)
	if err != nil {
		h.logger.Error("Failed to load health history",
			logger.ErrorField(err), logger.Field("service", service))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	entries := make([]dto.HistoryEntry, 0, len(checks))
	for _, check := range checks {
		entries = append(entries, dto.HistoryEntry{
			State:      string(check.State),
			HTTPStatus: check.HTTPStatus,
			LatencyMS:  check.LatencyMS,
			Error:      check.Error,
			CheckedAt:  check.CheckedAt,
		})
	}

	return c.JSON(http.StatusOK, dto.HistoryResponse{Service: service, Checks: entries})
}

// Health reports liveness.
func (h *StatusHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
