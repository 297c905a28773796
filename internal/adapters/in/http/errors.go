package http

import (
	"errors"
	"net/http"

	"stockledger/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusFor maps core errors onto HTTP status codes.
func statusFor(err error) int {
	var validationErrs validator.ValidationErrors
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &validationErrs):
		return http.StatusBadRequest
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, errs.ErrPersistence):
		return http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrObjectAlreadyExists), errors.Is(err, errDuplicateRequest):
		return http.StatusConflict
	case errors.Is(err, errs.ErrInvalidMovementType),
		errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrInvariantViolation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an errorResponse. Server side failures are logged and
// their details are not exposed.
func (s *Server) fail(c echo.Context, err error) error {
	status := statusFor(err)
	message := err.Error()

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if text, ok := httpErr.Message.(string); ok {
			message = text
		}
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err),
		)
		message = http.StatusText(status)
	}

	return c.JSON(status, errorResponse{Code: status, Message: message})
}
