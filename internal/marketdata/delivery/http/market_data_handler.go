package http

import (
	"net/http"
	"strconv"
	"time"

	"options-trading-backend/internal/marketdata/dto"
	"options-trading-backend/internal/marketdata/service"
	"options-trading-backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketDataHandler handles HTTP requests for candles and options chains.
type MarketDataHandler struct {
	marketDataService service.MarketDataService
	logger            *logger.Logger
}

// NewMarketDataHandler creates a new MarketDataHandler.
func NewMarketDataHandler(marketDataService service.MarketDataService, logger *logger.Logger) *MarketDataHandler {
	return &MarketDataHandler{marketDataService: marketDataService, logger: logger}
}

// RegisterRoutes registers market data routes to the Echo group.
func (h *MarketDataHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/candles/:symbol/:timeframe", h.GetCandles)
	g.POST("/candles", h.StoreCandles)
	g.GET("/price/:symbol", h.GetCurrentPrice)
	g.GET("/options/:symbol", h.GetChain)
	g.POST("/options", h.StoreChain)
	g.GET("/options/:symbol/expiries", h.GetExpiries)
	g.GET("/market-status", h.GetMarketStatus)
}

// RegisterHealth registers the health route on the Echo root.
func (h *MarketDataHandler) RegisterHealth(e *echo.Echo) {
	e.GET("/healthz", h.Health)
}

// GetCandles returns stored candles for a symbol and timeframe, newest first.
func (h *MarketDataHandler) GetCandles(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid limit"})
		}
		limit = parsed
	}

	candles, err := h.marketDataService.GetCandles(
		c.Request().Context(), c.Param("symbol"), c.Param("timeframe"), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, candles)
}

// StoreCandles upserts a batch of candles.
func (h *MarketDataHandler) StoreCandles(c echo.Context) error {
	var req dto.StoreCandlesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	resp, err := h.marketDataService.StoreCandles(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// GetCurrentPrice returns the latest stored close for a symbol.
func (h *MarketDataHandler) GetCurrentPrice(c echo.Context) error {
	resp, err := h.marketDataService.GetCurrentPrice(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetChain returns the latest options chain snapshot for a symbol, optionally
// filtered by an expiry query parameter (YYYY-MM-DD).
func (h *MarketDataHandler) GetChain(c echo.Context) error {
	var expiry *time.Time
	if raw := c.QueryParam("expiry"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid expiry, expected YYYY-MM-DD"})
		}
		parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		expiry = &parsed
	}

	resp, err := h.marketDataService.GetChain(c.Request().Context(), c.Param("symbol"), expiry)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// StoreChain stores an options chain snapshot.
func (h *MarketDataHandler) StoreChain(c echo.Context) error {
	var req dto.StoreChainRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	resp, err := h.marketDataService.StoreChain(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// GetExpiries lists available future expiries for a symbol.
func (h *MarketDataHandler) GetExpiries(c echo.Context) error {
	resp, err := h.marketDataService.GetExpiries(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetMarketStatus reports the current NSE session phase.
func (h *MarketDataHandler) GetMarketStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.marketDataService.MarketStatus())
}

// Health reports store connectivity and table counts.
func (h *MarketDataHandler) Health(c echo.Context) error {
	resp := h.marketDataService.Health(c.Request().Context())
	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, resp)
}
