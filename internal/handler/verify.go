package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/middleware"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/repository"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/service"
)

// VerifyHandler serves the guard's scanner.
type VerifyHandler struct {
	Seminars *repository.SeminarRepo
	Verifier *service.VerificationService
	Log      *slog.Logger
}

type verifyReq struct {
	TicketID  string `json:"ticketId"`
	SeminarID string `json:"seminarId"` // optional; id or slug
}

// Verify checks a scanned ticket and admits it once. The verdict is
// always 200; only storage problems produce an error status.
func (h *VerifyHandler) Verify(c echo.Context) error {
	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	cid := middleware.CollegeID(c)
	seminarID := strings.TrimSpace(req.SeminarID)
	if seminarID != "" {
		sem, err := h.Seminars.Resolve(ctx, cid, seminarID)
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusOK, service.Outcome{Reason: service.ReasonNotFound})
		}
		if err != nil {
			return writeError(c, h.Log, err)
		}
		seminarID = sem.ID
	}

	out, err := h.Verifier.Verify(ctx, cid, req.TicketID, seminarID)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, out)
}
