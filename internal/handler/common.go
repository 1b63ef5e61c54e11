package handler // HTTP handlers for the public, admin and guard APIs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/docstore"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/repository"
)

// requestTimeout bounds the storage work of one request. A booking makes
// several store calls, each bounded separately by the store itself.
const requestTimeout = 30 * time.Second

var validate = validator.New()

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// writeError maps domain errors onto HTTP responses. Unknown errors are
// logged and answered with 500.
func writeError(c echo.Context, log *slog.Logger, err error) error {
	var ve *repository.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed", "fields": ve.Fields})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found"})
	case errors.Is(err, repository.ErrSeatTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat_taken", "message": "this seat was just booked, pick another"})
	case errors.Is(err, repository.ErrCollegeExists),
		errors.Is(err, repository.ErrSlugTaken),
		errors.Is(err, repository.ErrUsernameTaken),
		errors.Is(err, repository.ErrAmbiguousCollege):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict", "message": err.Error()})
	case errors.Is(err, docstore.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		log.Warn("storage unavailable", "path", c.Path(), "err", err)
		c.Response().Header().Set("Retry-After", "2")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "retry", "message": "storage is temporarily unavailable"})
	default:
		log.Error("request failed", "path", c.Path(), "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal"})
	}
}

func badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
}
