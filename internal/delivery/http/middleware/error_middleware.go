// Package middleware contains the echo middlewares of the HTTP delivery.
package middleware

import (
	"log/slog"
	"net/http"

	deliverycontext "quill/internal/delivery/context"
	"quill/internal/delivery/http/response"
	domainerrors "quill/internal/domain/errors"
	"quill/internal/errors"

	"github.com/labstack/echo/v4"
)

var kindStatus = map[domainerrors.Kind]int{
	domainerrors.KindDuplicateEmail:     http.StatusConflict,
	domainerrors.KindNotFound:           http.StatusNotFound,
	domainerrors.KindInvalidCredentials: http.StatusUnauthorized,
	domainerrors.KindInvalidToken:       http.StatusUnauthorized,
	domainerrors.KindInternal:           http.StatusInternalServerError,
	domainerrors.KindValidation:         http.StatusBadRequest,
	domainerrors.KindConflict:           http.StatusConflict,
	domainerrors.KindForbidden:          http.StatusForbidden,
}

// StatusForKind maps an error kind to its HTTP status. Unknown kinds are 500.
func StatusForKind(kind domainerrors.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// ErrorMiddleware error handling middleware
type ErrorMiddleware struct {
	logger *slog.Logger
}

func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError is installed as echo's HTTPErrorHandler. Causes of 5xx
// responses are logged and never rendered.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)
	req := c.Request()

	if appErr, ok := errors.AsType[domainerrors.AppError](err); ok {
		status := StatusForKind(appErr.Kind())
		if status >= http.StatusInternalServerError {
			logger.Error("Request failed",
				slog.Any("error", err),
				slog.Any("cause", errors.Cause(err)),
				slog.String("path", req.URL.Path),
				slog.String("method", req.Method),
			)
		}

		m.render(c, logger, status, appErr.ErrorCode(), appErr.Message(), appErr.Details())

		return
	}

	if httpErr, ok := errors.AsType[*echo.HTTPError](err); ok {
		message := http.StatusText(httpErr.Code)
		if msg, isString := httpErr.Message.(string); isString && httpErr.Code < http.StatusInternalServerError {
			message = msg
		}

		m.render(c, logger, httpErr.Code, "HTTP_ERROR", message, "")

		return
	}

	logger.Error("Unhandled error",
		slog.Any("error", err),
		slog.Any("cause", errors.Cause(err)),
		slog.String("path", req.URL.Path),
		slog.String("method", req.Method),
	)

	m.render(c, logger, http.StatusInternalServerError, domainerrors.ErrInternal.ErrorCode(), domainerrors.ErrInternal.Message(), "")
}

func (m *ErrorMiddleware) render(c echo.Context, logger *slog.Logger, status int, code, message, details string) {
	if err := response.Error(c, status, code, message, details); err != nil {
		logger.Warn("Failed to write error response", slog.Int("status", status), slog.Any("error", err))
	}
}
