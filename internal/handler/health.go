package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/docstore"
)

// Health answers the liveness check with plain "ok".
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// HealthHandler answers readiness checks.
type HealthHandler struct {
	Store docstore.Store
	Redis *redis.Client // optional
}

// Ready pings the document store and, when configured, Redis. Redis is
// optional for serving, so its failure is reported but not fatal.
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	resp := echo.Map{"store": "ok"}
	status := http.StatusOK
	if err := h.Store.Ping(ctx); err != nil {
		resp["store"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if h.Redis != nil {
		resp["redis"] = "ok"
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			resp["redis"] = err.Error()
		}
	}
	return c.JSON(status, resp)
}
