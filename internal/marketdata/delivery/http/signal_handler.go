package http

import (
	"net/http"
	"strconv"

	"options-trading-backend/internal/marketdata/dto"
	"options-trading-backend/internal/marketdata/service"
	"options-trading-backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SignalHandler handles HTTP requests for trading signals.
type SignalHandler struct {
	signalService service.SignalService
	logger        *logger.Logger
}

// NewSignalHandler creates a new SignalHandler.
func NewSignalHandler(signalService service.SignalService, logger *logger.Logger) *SignalHandler {
	return &SignalHandler{signalService: signalService, logger: logger}
}

// RegisterRoutes registers the signal routes to the Echo group.
func (h *SignalHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateSignal)
	g.GET("", h.GetSignals)
	g.GET("/:id", h.GetSignalByID)
	g.PATCH("/:id/status", h.UpdateStatus)
}

// CreateSignal records a new trading signal.
func (h *SignalHandler) CreateSignal(c echo.Context) error {
	var req dto.CreateSignalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	resp, err := h.signalService.CreateSignal(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// GetSignals lists signals, filterable by symbol and status query params.
func (h *SignalHandler) GetSignals(c echo.Context) error {
	signals, err := h.signalService.GetSignals(
		c.Request().Context(), c.QueryParam("symbol"), c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, signals)
}

// GetSignalByID retrieves a single signal by ID.
func (h *SignalHandler) GetSignalByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid signal ID"})
	}

	resp, err := h.signalService.GetSignalByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateStatus transitions a signal's status.
func (h *SignalHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid signal ID"})
	}

	var req dto.UpdateSignalStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	resp, err := h.signalService.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
