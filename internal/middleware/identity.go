package middleware

// identity.go reads the identity JWTAuth stored in the Echo context.
// Handlers use it to scope every admin and guard call to the caller's
// college.

import "github.com/labstack/echo/v4"

const (
	ctxUserID    = "user_id"
	ctxRole      = "role"
	ctxCollegeID = "college_id"
)

// UserID returns the authenticated user id, or "anon".
func UserID(c echo.Context) string {
	if s, ok := c.Get(ctxUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}

// Role returns the authenticated role, or "".
func Role(c echo.Context) string {
	s, _ := c.Get(ctxRole).(string)
	return s
}

// CollegeID returns the college of the authenticated user, or "".
func CollegeID(c echo.Context) string {
	s, _ := c.Get(ctxCollegeID).(string)
	return s
}
