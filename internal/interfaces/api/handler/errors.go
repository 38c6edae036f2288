package handler

import (
	"errors"
	"net/http"
	appErrors "shutdownassistant/internal/pkg/errors"

	"github.com/labstack/echo/v4"
)

// errorResponse is the JSON body for failed API calls.
type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps application errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, appErrors.ErrMalformedTime),
		errors.Is(err, appErrors.ErrConfirmationRequired):
		return http.StatusBadRequest
	case errors.Is(err, appErrors.ErrScheduleNotFound):
		return http.StatusNotFound
	case errors.Is(err, appErrors.ErrUnsupportedPlatform):
		return http.StatusNotImplemented
	case errors.Is(err, appErrors.ErrSystemCall):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends err as JSON with the mapped status code.
func writeError(c echo.Context, err error) error {
	return c.JSON(statusFor(err), errorResponse{Error: err.Error()})
}
