package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/handler"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/middleware"
)

// RegisterRoutes registers the health checks and the metrics endpoint.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler, metrics http.Handler) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", h.Ready)
	e.GET("/metrics", echo.WrapHandler(metrics))
}

// RegisterAuth registers college registration, tenant lookup and staff
// login. Lookups are cached since colleges never change after creation.
func RegisterAuth(e *echo.Echo, col *handler.CollegeHandler, a *handler.AuthHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/colleges")
	g.POST("", col.Register)
	g.GET("/:college", col.Resolve, cache)
	g.POST("/:college/login", a.Login)
}

// RegisterPublic registers the student-facing seat picker and booking
// routes, plus the ticket mail endpoint. Booking is rate limited.
func RegisterPublic(e *echo.Echo, s *handler.SeminarHandler, r *handler.RegistrationHandler, t *handler.TicketHandler, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/colleges/:college/seminars/:seminar")
	g.GET("", s.Public)
	g.POST("/registrations", r.Book, limit)

	e.POST("/api/send-ticket", t.Send, limit)
	e.POST("/api/send-confirmation-email", t.SendConfirmation, limit)
}

// RegisterAdmin registers the admin API. Every route requires a JWT of
// an admin or the superadmin, and works on the token's college only.
func RegisterAdmin(e *echo.Echo, jwtSecret string, h *handler.HallHandler, s *handler.SeminarHandler, r *handler.RegistrationHandler, u *handler.UserHandler) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("admin", "superadmin"),
	)

	// ---- Halls ----
	g.POST("/halls", h.Create)
	g.GET("/halls", h.List)

	// ---- Seminars ----
	g.POST("/seminars", s.Create)
	g.GET("/seminars", s.List)

	// ---- Registrations ----
	g.GET("/seminars/:seminar/registrations", r.List)
	g.PATCH("/seminars/:seminar/registrations/:registration/attendance", r.SetAttendance)

	// ---- Users ----
	g.POST("/users", u.Create)
	g.GET("/users", u.List)
}

// RegisterGuard registers the door scanner. Admins may scan too.
func RegisterGuard(e *echo.Echo, jwtSecret string, v *handler.VerifyHandler, limit echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/guard",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("guard", "admin", "superadmin"),
	)
	g.POST("/verify", v.Verify, limit)
}
