package http

import (
	"net/http"
	"strconv"
	"strings"

	"loan-origination-backend/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
)

// ---- helpers ----

// actorID prefers the explicit body value and falls back to the Ax-User-Id header.
func actorID(c echo.Context, fromBody string) string {
	if s := strings.TrimSpace(fromBody); s != "" {
		return s
	}
	return strings.TrimSpace(c.Request().Header.Get(middleware.HeaderUserID))
}

func parseNotificationID(raw string) (uint64, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	return n, err == nil && n > 0
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}
