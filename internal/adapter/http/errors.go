package http

import (
	"context"
	"errors"
	"net/http"

	"loan-origination-backend/internal/domain/application"
	"loan-origination-backend/internal/domain/notification"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Map domain errors → HTTP codes
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, application.ErrNotFound), errors.Is(err, notification.ErrNotFound):
		return http.StatusNotFound, false
	case errors.Is(err, application.ErrValidation):
		return http.StatusUnprocessableEntity, false
	case errors.Is(err, application.ErrConcurrentModification):
		return http.StatusConflict, true
	case errors.Is(err, application.ErrInvalidTransition), errors.Is(err, application.ErrDuplicateID):
		return http.StatusConflict, false
	case errors.Is(err, application.ErrScoreOutOfRange):
		return http.StatusBadGateway, false
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, false
	}
	return http.StatusInternalServerError, false
}

func writeError(c echo.Context, log *zap.Logger, err error) error {
	code, retryable := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err))
		msg = "internal error"
	}
	return c.JSON(code, ErrorResponse{Error: msg, Retryable: retryable})
}
