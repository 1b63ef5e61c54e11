package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/middleware"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/model"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/repository"
)

// UserHandler lets college staff list and add accounts.
type UserHandler struct {
	Users *repository.UserRepo
	Log   *slog.Logger
}

// Create adds an admin or guard. Only the superadmin may add admins, and
// no one may add another superadmin.
func (h *UserHandler) Create(c echo.Context) error {
	var req repository.NewUser
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	switch req.Role {
	case model.RoleSuperAdmin:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case model.RoleAdmin:
		if middleware.Role(c) != model.RoleSuperAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.Create(ctx, middleware.CollegeID(c), req)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, u)
}

// List returns the college's staff accounts. Password hashes are never
// serialized.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx, middleware.CollegeID(c))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}
