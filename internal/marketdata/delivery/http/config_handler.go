package http

import (
	"net/http"

	"options-trading-backend/internal/marketdata/dto"
	"options-trading-backend/internal/marketdata/service"
	"options-trading-backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ConfigHandler handles HTTP requests for system configuration.
type ConfigHandler struct {
	configService service.ConfigService
	logger        *logger.Logger
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(configService service.ConfigService, logger *logger.Logger) *ConfigHandler {
	return &ConfigHandler{configService: configService, logger: logger}
}

// RegisterRoutes registers the config routes to the Echo group.
func (h *ConfigHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetAll)
	g.GET("/:key", h.Get)
	g.PUT("/:key", h.Set)
}

// GetAll lists every configuration entry.
func (h *ConfigHandler) GetAll(c echo.Context) error {
	cfgs, err := h.configService.GetAll(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cfgs)
}

// Get retrieves a single configuration entry.
func (h *ConfigHandler) Get(c echo.Context) error {
	resp, err := h.configService.Get(c.Request().Context(), c.Param("key"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Set writes a typed configuration value.
func (h *ConfigHandler) Set(c echo.Context) error {
	var req dto.SetConfigRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	resp, err := h.configService.Set(c.Request().Context(), c.Param("key"), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
