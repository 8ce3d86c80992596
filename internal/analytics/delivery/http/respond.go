package http

import (
	"errors"
	"net/http"

	"options-trading-backend/internal/analytics/dto"
	"options-trading-backend/internal/analytics/service"

	"github.com/labstack/echo/v4"
)

func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNoData):
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}
