package http

import (
	"errors"
	"net/http"

	"options-trading-backend/internal/marketdata/dto"
	"options-trading-backend/internal/marketdata/service"

	"github.com/labstack/echo/v4"
)

// respondError maps service errors to HTTP status codes.
func respondError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidTransition):
		status = http.StatusConflict
	}
	return c.JSON(status, dto.ErrorResponse{Error: err.Error()})
}
