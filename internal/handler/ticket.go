package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/service"
)

// TicketHandler sends ticket mails on request.
type TicketHandler struct {
	Notifier service.Notifier
}

// Send mails a ticket synchronously and reports {success, error}.
func (h *TicketHandler) Send(c echo.Context) error {
	var p service.TicketPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, service.NotifyResult{Error: "invalid body"})
	}
	if err := validate.Struct(p); err != nil {
		return c.JSON(http.StatusBadRequest, service.NotifyResult{Error: "missing required fields"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res := h.Notifier.Notify(ctx, p)
	if !res.Success {
		return c.JSON(http.StatusBadGateway, res)
	}
	return c.JSON(http.StatusOK, res)
}

// confirmationReq is the older confirmation mail body: the address is
// under "email" and the student name is required.
type confirmationReq struct {
	StudentName string `json:"student_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	SeminarName string `json:"seminar_name"`
	SeminarDate string `json:"seminar_date"`
	HallName    string `json:"hall_name"`
	SeatNumber  string `json:"seat_number"`
	TicketID    string `json:"ticket_id" validate:"required"`
}

// SendConfirmation accepts the confirmation mail body and delivers it
// like Send.
func (h *TicketHandler) SendConfirmation(c echo.Context) error {
	var req confirmationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, service.NotifyResult{Error: "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, service.NotifyResult{Error: "missing required fields"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res := h.Notifier.Notify(ctx, service.TicketPayload{
		StudentName:  req.StudentName,
		StudentEmail: req.Email,
		SeminarName:  req.SeminarName,
		SeminarDate:  req.SeminarDate,
		HallName:     req.HallName,
		SeatNumber:   req.SeatNumber,
		TicketID:     req.TicketID,
	})
	if !res.Success {
		return c.JSON(http.StatusBadGateway, res)
	}
	return c.JSON(http.StatusOK, res)
}
