// Package handler adapts the back-office services to HTTP.  Handlers bind
// the request, call one service operation and translate its Result into a
// JSON response.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-backoffice/internal/apperr"
	"github.com/iliyamo/cinema-backoffice/internal/result"
)

// statusOf maps a service error to its HTTP status.  Errors without a
// domain kind are infrastructure failures.
func statusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrAlreadyExists),
		errors.Is(err, apperr.ErrAlreadySignedIn),
		errors.Is(err, apperr.ErrNoActiveSession),
		errors.Is(err, apperr.ErrSchedulingConflict),
		errors.Is(err, apperr.ErrInUse):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as {"error": message}.  Internal errors are logged to log
// and replaced by a generic message.
func fail(c echo.Context, log *slog.Logger, err error) error {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		if log == nil {
			log = slog.Default()
		}
		log.Error("request failed", "method", c.Request().Method, "path", c.Path(), "err", err)
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

// reply writes the ok value of r with status, or the error.
func reply[T any](c echo.Context, log *slog.Logger, status int, r result.Result[T]) error {
	v, err := r.Get()
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(status, v)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
