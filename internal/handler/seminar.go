package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/middleware"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/model"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/repository"
)

// SeminarHandler serves the seminar pages and the admin seminar API.
type SeminarHandler struct {
	Colleges      *repository.CollegeRepo
	Seminars      *repository.SeminarRepo
	Registrations *repository.RegistrationRepo
	Log           *slog.Logger
}

type seminarPage struct {
	College    *model.College `json:"college"`
	Seminar    *model.Seminar `json:"seminar"`
	TakenSeats []string       `json:"takenSeats"`
}

// Public returns a seminar with its resolved layout and the seat codes
// already booked, which is what the seat picker renders.
func (h *SeminarHandler) Public(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	col, err := h.Colleges.Resolve(ctx, c.Param("college"))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	sem, err := h.Seminars.Resolve(ctx, col.ID, c.Param("seminar"))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	regs, err := h.Registrations.List(ctx, col.ID, sem.ID)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	taken := make([]string, 0, len(regs))
	for _, r := range regs {
		taken = append(taken, r.SeatCode)
	}
	return c.JSON(http.StatusOK, seminarPage{College: col, Seminar: sem, TakenSeats: taken})
}

// Create stores a seminar for the caller's college.
func (h *SeminarHandler) Create(c echo.Context) error {
	var req repository.NewSeminar
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	sem, err := h.Seminars.Create(ctx, middleware.CollegeID(c), req)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, sem)
}

// List returns every seminar of the caller's college.
func (h *SeminarHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	sems, err := h.Seminars.List(ctx, middleware.CollegeID(c))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"seminars": sems})
}
