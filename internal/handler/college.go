package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/model"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/repository"
)

// CollegeHandler registers and resolves tenants.
type CollegeHandler struct {
	Colleges *repository.CollegeRepo
	Log      *slog.Logger
}

type collegeResp struct {
	College    *model.College `json:"college"`
	SuperAdmin *model.User    `json:"superAdmin,omitempty"`
}

// Register creates a college together with its superadmin account.
func (h *CollegeHandler) Register(c echo.Context) error {
	var req repository.NewCollege
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	col, admin, err := h.Colleges.Create(ctx, req)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, collegeResp{College: col, SuperAdmin: admin})
}

// Resolve looks a college up by id, slug or URL-encoded name.
func (h *CollegeHandler) Resolve(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	col, err := h.Colleges.Resolve(ctx, c.Param("college"))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, collegeResp{College: col})
}
