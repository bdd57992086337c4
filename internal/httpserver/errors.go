package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/studenthub/backend/internal/service"
	"github.com/studenthub/backend/internal/transport"
)

// writeServiceError maps a service failure onto the HTTP taxonomy.
// Unexpected errors are logged but never leaked verbatim to the caller.
func writeServiceError(c echo.Context, l *slog.Logger, event string, err error) error {
	var dup *service.DuplicateError
	switch {
	case errors.As(err, &dup):
		l.Warn(event, "status", 400, "field", dup.Field)
		return c.JSON(http.StatusBadRequest, transport.Error(dup.Error()))
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.Error(errMessage(err)))
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404)
		return c.JSON(http.StatusNotFound, transport.Error("student not found"))
	default:
		l.Error(event, "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Error("internal server error"))
	}
}

// errMessage strips the wrapped sentinel suffix so the caller sees only
// the human-readable part.
func errMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "+service.ErrValidation.Error()); i > 0 {
		return msg[:i]
	}
	return msg
}
