package http

import (
	"net/http"

	"options-trading-backend/internal/marketdata/dto"
	"options-trading-backend/internal/marketdata/service"
	"options-trading-backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MetricsHandler handles HTTP requests for daily performance metrics.
type MetricsHandler struct {
	metricsService service.MetricsService
	logger         *logger.Logger
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(metricsService service.MetricsService, logger *logger.Logger) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService, logger: logger}
}

// RegisterRoutes registers the metrics routes to the Echo group.
func (h *MetricsHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Record)
	g.GET("", h.Get)
}

// Record upserts the daily metric row.
func (h *MetricsHandler) Record(c echo.Context) error {
	var req dto.PerformanceMetricDTO
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	resp, err := h.metricsService.Record(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Get retrieves metrics for one date (?date=) or a range (?from=&to=).
func (h *MetricsHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	if date := c.QueryParam("date"); date != "" {
		resp, err := h.metricsService.GetByDate(ctx, date)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, resp)
	}

	from, to := c.QueryParam("from"), c.QueryParam("to")
	if from == "" || to == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Provide date or from/to query parameters"})
	}
	resp, err := h.metricsService.GetRange(ctx, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
