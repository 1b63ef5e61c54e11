package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/config"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/utils"
)

const secret = "test-secret"

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func whoami(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"user": UserID(c), "role": Role(c), "college": CollegeID(c)})
}

func do(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAndRole(t *testing.T) {
	e := echo.New()
	g := e.Group("/admin", JWTAuth(secret), RequireRole("admin", "superadmin"))
	g.GET("/me", whoami)

	admin, err := utils.NewAccessToken(secret, "u1", "admin", "acme", 5)
	require.NoError(t, err)
	rec := do(e, http.MethodGet, "/admin/me", admin.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"user":"u1","role":"admin","college":"acme"}`, rec.Body.String())

	guard, err := utils.NewAccessToken(secret, "u2", "guard", "acme", 5)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, do(e, http.MethodGet, "/admin/me", guard.Token).Code)

	other, err := utils.NewAccessToken("other-secret", "u1", "admin", "acme", 5)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/admin/me", other.Token).Code)

	noCollege, err := utils.NewAccessToken(secret, "u1", "admin", "", 5)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/admin/me", noCollege.Token).Code)

	require.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/admin/me", "").Code)
}

func TestTokenBucket(t *testing.T) {
	rdb := newRedis(t)
	cfg := config.RateLimitConfig{
		Enabled: true, Capacity: 2, RefillTokens: 1, RefillInterval: time.Hour,
		TTL: time.Hour, KeyStrategy: "ip", Prefix: "rl",
	}
	e := echo.New()
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, NewTokenBucket(cfg, rdb, discard()))

	require.Equal(t, http.StatusNoContent, do(e, http.MethodGet, "/ping", "").Code)
	rec := do(e, http.MethodGet, "/ping", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = do(e, http.MethodGet, "/ping", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestTokenBucket_DisabledOrNoRedis(t *testing.T) {
	e := echo.New()
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
		NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil, discard()))
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusNoContent, do(e, http.MethodGet, "/ping", "").Code)
	}
}

func TestResponseCache(t *testing.T) {
	rdb := newRedis(t)
	calls := 0
	e := echo.New()
	e.GET("/colleges/:college", func(c echo.Context) error {
		calls++
		if c.Param("college") == "missing" {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusOK, echo.Map{"id": c.Param("college")})
	}, NewResponseCache(config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "t"}, rdb, discard()))

	rec := do(e, http.MethodGet, "/colleges/acme", "")
	require.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	rec = do(e, http.MethodGet, "/colleges/acme", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	require.JSONEq(t, `{"id":"acme"}`, rec.Body.String())
	require.Equal(t, 1, calls)

	do(e, http.MethodGet, "/colleges/missing", "")
	do(e, http.MethodGet, "/colleges/missing", "")
	require.Equal(t, 3, calls, "error responses are not cached")
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/guard/verify", nil)
	req.Header.Set("X-Real-IP", "10.0.0.9")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/guard/verify")
	c.Set(ctxUserID, "u7")

	require.Equal(t, "p:user:u7", buildRateKey(config.RateLimitConfig{Prefix: "p", KeyStrategy: "user"}, c))
	require.Equal(t, "p:ip:10.0.0.9:user:u7:route:POST /v1/guard/verify", buildRateKey(config.RateLimitConfig{Prefix: "p"}, c))
}

func TestCORS(t *testing.T) {
	e := echo.New()
	e.Use(CORS(nil))
	e.POST("/api/send-ticket", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/send-ticket", nil)
	req.Header.Set(echo.HeaderOrigin, "https://ssems.example.com")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	require.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodPatch)
	require.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowCredentials))

	e = echo.New()
	e.Use(CORS([]string{"https://ssems.example.com"}))
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(echo.HeaderOrigin, "https://ssems.example.com")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, "https://ssems.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	require.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(echo.HeaderOrigin, "https://evil.example.com")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
