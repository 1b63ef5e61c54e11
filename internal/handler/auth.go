package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/config"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/model"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/repository"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/utils"
)

// AuthHandler bundles dependencies for staff login.
type AuthHandler struct {
	Cfg      config.Config
	Colleges *repository.CollegeRepo
	Users    *repository.UserRepo
	Log      *slog.Logger
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResp struct {
	User   *model.User `json:"user"`
	Access tokenPart   `json:"access"`
}

// Login verifies a staff account of the college in the path and returns
// an access token pinned to that college.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	college, err := h.Colleges.Resolve(ctx, c.Param("college"))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	u, err := h.Users.Authenticate(ctx, college.ID, req.Username, req.Password)
	if errors.Is(err, repository.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return writeError(c, h.Log, err)
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, college.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, authResp{User: u, Access: tokenPart{Token: access.Token, Expires: access.Exp}})
}
