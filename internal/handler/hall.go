package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/middleware"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/repository"
)

// HallHandler manages hall templates of the caller's college.
type HallHandler struct {
	Halls *repository.HallRepo
	Log   *slog.Logger
}

// Create stores a hall template.
func (h *HallHandler) Create(c echo.Context) error {
	var req repository.NewHall
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	hall, err := h.Halls.Create(ctx, middleware.CollegeID(c), req)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, hall)
}

// List returns the college's halls.
func (h *HallHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	halls, err := h.Halls.List(ctx, middleware.CollegeID(c))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"halls": halls})
}
