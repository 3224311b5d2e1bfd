package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"kitsu-backend/internal/service"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func errorResponse(c echo.Context, code int, err error) error {
	return c.JSON(code, Response{
		Status:  "error",
		Message: err.Error(),
	})
}

// serviceError maps the service sentinel errors onto HTTP status codes.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return errorResponse(c, http.StatusBadRequest, err)
	case errors.Is(err, service.ErrNotFound):
		return errorResponse(c, http.StatusNotFound, err)
	case errors.Is(err, service.ErrConflict):
		return errorResponse(c, http.StatusConflict, err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
