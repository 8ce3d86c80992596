package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"options-trading-backend/internal/analytics/dto"
	"options-trading-backend/internal/analytics/service"
	"options-trading-backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// defaultRiskFreeRate approximates the Indian 10-year yield, used when the
// configuration carries no rate.
const defaultRiskFreeRate = 0.065

// AnalyticsHandler handles HTTP requests for OI analysis, Greeks and
// technical indicators.
type AnalyticsHandler struct {
	oiService         service.OIAnalysisService
	greeksService     service.GreeksService
	indicatorsService service.IndicatorsService
	riskFreeRate      float64
	logger            *logger.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler. riskFreeRate is the
// configured default for chain Greeks; zero or negative falls back to
// defaultRiskFreeRate.
func NewAnalyticsHandler(
	oiService service.OIAnalysisService,
	greeksService service.GreeksService,
	indicatorsService service.IndicatorsService,
	riskFreeRate float64,
	logger *logger.Logger,
) *AnalyticsHandler {
	if riskFreeRate <= 0 {
		riskFreeRate = defaultRiskFreeRate
	}
	return &AnalyticsHandler{
		oiService:         oiService,
		greeksService:     greeksService,
		indicatorsService: indicatorsService,
		riskFreeRate:      riskFreeRate,
		logger:            logger,
	}
}

// RegisterRoutes registers analytics routes to the Echo group.
func (h *AnalyticsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/max-pain/:symbol", h.GetMaxPain)
	g.GET("/pcr/:symbol", h.GetPCR)
	g.GET("/oi-buildup/:symbol", h.GetOIBuildup)
	g.GET("/oi/:symbol", h.GetComprehensive)
	g.GET("/indicators/:symbol/:timeframe", h.GetIndicators)
	g.POST("/greeks", h.ComputeGreeks)
	g.POST("/greeks/iv", h.ComputeIV)
	g.GET("/greeks/chain/:symbol", h.GetChainGreeks)
}

// RegisterHealth registers the health route on the Echo root.
func (h *AnalyticsHandler) RegisterHealth(e *echo.Echo) {
	e.GET("/healthz", h.Health)
}

// GetMaxPain returns the Max Pain analysis for a symbol.
func (h *AnalyticsHandler) GetMaxPain(c echo.Context) error {
	expiry, err := parseExpiryParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}
	resp, err := h.oiService.MaxPain(c.Request().Context(), c.Param("symbol"), expiry)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetPCR returns the Put-Call Ratio analysis for a symbol.
func (h *AnalyticsHandler) GetPCR(c echo.Context) error {
	expiry, err := parseExpiryParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}
	resp, err := h.oiService.PutCallRatio(c.Request().Context(), c.Param("symbol"), expiry)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetOIBuildup returns OI-derived support/resistance for a symbol.
func (h *AnalyticsHandler) GetOIBuildup(c echo.Context) error {
	expiry, err := parseExpiryParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}
	resp, err := h.oiService.OIBuildup(c.Request().Context(), c.Param("symbol"), expiry)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetComprehensive returns the combined OI analysis report for a symbol.
func (h *AnalyticsHandler) GetComprehensive(c echo.Context) error {
	expiry, err := parseExpiryParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}
	resp, err := h.oiService.Comprehensive(c.Request().Context(), c.Param("symbol"), expiry)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetIndicators returns technical indicators for a symbol and timeframe.
func (h *AnalyticsHandler) GetIndicators(c echo.Context) error {
	lookback := 0
	if raw := c.QueryParam("lookback"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid lookback"})
		}
		lookback = parsed
	}

	resp, err := h.indicatorsService.Indicators(
		c.Request().Context(), c.Param("symbol"), c.Param("timeframe"), lookback)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ComputeGreeks prices a single contract from Black-Scholes inputs.
func (h *AnalyticsHandler) ComputeGreeks(c echo.Context) error {
	var req dto.GreeksRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	resp, err := h.greeksService.Compute(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ComputeIV solves for the implied volatility matching a market price.
func (h *AnalyticsHandler) ComputeIV(c echo.Context) error {
	var req struct {
		dto.GreeksRequest
		MarketPrice float64 `json:"market_price"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	iv, err := h.greeksService.ImpliedVolatility(c.Request().Context(), &req.GreeksRequest, req.MarketPrice)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.GreeksResponse{IV: iv})
}

// GetChainGreeks recomputes Greeks across the latest stored chain snapshot.
func (h *AnalyticsHandler) GetChainGreeks(c echo.Context) error {
	expiry, err := parseExpiryParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	rate := h.riskFreeRate
	if raw := c.QueryParam("risk_free_rate"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid risk_free_rate"})
		}
		rate = parsed
	}

	resp, err := h.greeksService.ChainGreeks(c.Request().Context(), c.Param("symbol"), expiry, rate)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Health reports liveness.
func (h *AnalyticsHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

func parseExpiryParam(c echo.Context) (*time.Time, error) {
	raw := c.QueryParam("expiry")
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, errors.New("Invalid expiry, expected YYYY-MM-DD")
	}
	parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	return &parsed, nil
}
