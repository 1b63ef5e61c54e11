package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/middleware"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/model"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/repository"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/seat"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/service"
)

// RegistrationHandler books seats and exposes registrations to admins.
type RegistrationHandler struct {
	Colleges      *repository.CollegeRepo
	Seminars      *repository.SeminarRepo
	Registrations *repository.RegistrationRepo
	Booking       *service.BookingService
	Log           *slog.Logger
}

// bookReq takes the seat either as seatRow/seatCol or as a seat code
// such as "A-5".
type bookReq struct {
	SeatRow int    `json:"seatRow"`
	SeatCol int    `json:"seatCol"`
	SeatID  string `json:"seatId"`
	model.Attendee
}

type attendanceReq struct {
	Attended *bool `json:"attended"`
}

// Book registers a student for a seat and hands the ticket to the
// notifier. A failed notification still answers 201 with the
// notification error in the body.
func (h *RegistrationHandler) Book(c echo.Context) error {
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if req.SeatRow == 0 && req.SeatCol == 0 && strings.TrimSpace(req.SeatID) != "" {
		row, col, err := seat.Parse(strings.TrimSpace(req.SeatID))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed",
				"fields": []repository.FieldError{{Field: "seatId", Error: "must look like A-5"}}})
		}
		req.SeatRow, req.SeatCol = row, col
	}

	// Reject bad input before any lookup.
	if _, _, err := repository.ValidateBooking(req.SeatRow, req.SeatCol, req.Attendee); err != nil {
		return writeError(c, h.Log, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	col, err := h.Colleges.Resolve(ctx, c.Param("college"))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	res, err := h.Booking.Book(ctx, service.BookingRequest{
		CollegeID: col.ID,
		Seminar:   c.Param("seminar"),
		Row:       req.SeatRow,
		Col:       req.SeatCol,
		Attendee:  req.Attendee,
	})
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// List returns the registrations of one seminar, oldest first.
func (h *RegistrationHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cid := middleware.CollegeID(c)
	sem, err := h.Seminars.Resolve(ctx, cid, c.Param("seminar"))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	regs, err := h.Registrations.List(ctx, cid, sem.ID)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"seminar": sem.ID, "registrations": regs})
}

// SetAttendance lets an admin correct the attended flag either way.
func (h *RegistrationHandler) SetAttendance(c echo.Context) error {
	var req attendanceReq
	if err := c.Bind(&req); err != nil || req.Attended == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "attended (bool) required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	cid := middleware.CollegeID(c)
	sem, err := h.Seminars.Resolve(ctx, cid, c.Param("seminar"))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	reg, err := h.Registrations.SetAttended(ctx, cid, sem.ID, c.Param("registration"), *req.Attended)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	h.Log.Info("attendance overridden", "college", cid, "registration", reg.ID,
		"attended", reg.Attended, "by", middleware.UserID(c))
	return c.JSON(http.StatusOK, reg)
}
