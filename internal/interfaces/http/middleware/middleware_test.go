package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videocc/videocc/internal/infrastructure/auth"
	"github.com/videocc/videocc/internal/infrastructure/permission"
	"github.com/videocc/videocc/internal/infrastructure/ratelimit"
	"github.com/videocc/videocc/internal/shared/authorization"
	"github.com/videocc/videocc/internal/shared/biztime"
	"github.com/videocc/videocc/internal/shared/constants"
	"github.com/videocc/videocc/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)

func newJWT() *auth.JWTService {
	return auth.NewJWTService("middleware-test-secret", "videocc", 60, biztime.NewManualClock(testNow))
}

func echoIdentity(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id": c.GetUint(constants.ContextKeyUserID),
		"role":    roleOf(c),
	})
}

func doRequest(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	jwtService := newJWT()
	token, err := jwtService.Generate(42, authorization.RoleMember)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", NewAuthMiddleware(jwtService, logger.NewNopLogger()).RequireAuth(), echoIdentity)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid token", header: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + token, wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers[constants.HeaderAuthorization] = tt.header
			}
			w := doRequest(r, http.MethodGet, "/me", headers)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"user_id":42,"role":"member"}`, w.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_OptionalAuth(t *testing.T) {
	jwtService := newJWT()
	token, err := jwtService.Generate(7, authorization.RoleAdmin)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/balance", NewAuthMiddleware(jwtService, logger.NewNopLogger()).OptionalAuth(), echoIdentity)

	w := doRequest(r, http.MethodGet, "/balance", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0,"role":"member"}`, w.Body.String())

	w = doRequest(r, http.MethodGet, "/balance", map[string]string{constants.HeaderAuthorization: "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7,"role":"admin"}`, w.Body.String())
}

func TestPermissionMiddleware_RequirePermission(t *testing.T) {
	enforcer, err := permission.NewMemoryEnforcer(logger.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, enforcer.SeedDefaults())

	jwtService := newJWT()
	authMW := NewAuthMiddleware(jwtService, logger.NewNopLogger())
	permMW := NewPermissionMiddleware(enforcer, logger.NewNopLogger())

	r := gin.New()
	r.POST("/admin/vcc-balance",
		authMW.RequireAuth(),
		permMW.RequirePermission(permission.ObjectReserve, permission.ActionAdjust),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	adminToken, err := jwtService.Generate(1, authorization.RoleAdmin)
	require.NoError(t, err)
	memberToken, err := jwtService.Generate(2, authorization.RoleMember)
	require.NoError(t, err)

	w := doRequest(r, http.MethodPost, "/admin/vcc-balance", map[string]string{constants.HeaderAuthorization: "Bearer " + adminToken})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodPost, "/admin/vcc-balance", map[string]string{constants.HeaderAuthorization: "Bearer " + memberToken})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Without the auth middleware in front there is no identity at all.
	bare := gin.New()
	bare.GET("/x", permMW.RequirePermission(permission.ObjectReserve, permission.ActionRead))
	w = doRequest(bare, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimiter_Limit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := biztime.NewManualClock(testNow)
	limiter := ratelimit.NewRedisRateLimiter(client, "", clock)

	r := gin.New()
	r.POST("/purchase", NewRateLimiter(limiter, "purchase", 2, time.Minute, logger.NewNopLogger()).Limit(),
		func(c *gin.Context) { c.Status(http.StatusCreated) })

	for i := 0; i < 2; i++ {
		w := doRequest(r, http.MethodPost, "/purchase", nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doRequest(r, http.MethodPost, "/purchase", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	clock.Advance(time.Minute + time.Second)
	w = doRequest(r, http.MethodPost, "/purchase", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := ratelimit.NewRedisRateLimiter(client, "", biztime.NewManualClock(testNow))
	mr.Close()

	r := gin.New()
	r.POST("/purchase", NewRateLimiter(limiter, "purchase", 1, time.Minute, logger.NewNopLogger()).Limit(),
		func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := doRequest(r, http.MethodPost, "/purchase", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID)) })

	w := doRequest(r, http.MethodGet, "/", map[string]string{constants.HeaderXRequestID: "abc-123"})
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(constants.HeaderXRequestID))

	w = doRequest(r, http.MethodGet, "/", nil)
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get(constants.HeaderXRequestID))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.NewNopLogger()))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := doRequest(r, http.MethodGet, "/panic", map[string]string{constants.HeaderAuthorization: "Bearer secret"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error occurred")
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://app.example.com"}), SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doRequest(r, http.MethodGet, "/", map[string]string{"Origin": "https://app.example.com"})
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Retry-After")
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	w = doRequest(r, http.MethodGet, "/", map[string]string{"Origin": "https://evil.example.com"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = doRequest(r, http.MethodOptions, "/", map[string]string{"Origin": "https://app.example.com"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}
