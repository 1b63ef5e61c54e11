package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// CORS lets the browser front end call the API from another origin.
// Credentials are only allowed when the origins are listed explicitly.
func CORS(origins []string) echo.MiddlewareFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet, http.MethodOptions, http.MethodPatch,
			http.MethodDelete, http.MethodPost, http.MethodPut,
		},
		AllowHeaders: []string{
			echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderAccept,
			echo.HeaderContentLength, echo.HeaderXRequestedWith, echo.HeaderXCSRFToken,
			"Accept-Version", "Content-MD5", "Date", "X-Api-Version",
		},
		AllowCredentials: !slices.Contains(origins, "*"),
		ExposeHeaders:    []string{"X-Cache", "Retry-After", echo.HeaderXRequestID},
	})
}
