package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recetas/backend/internal/middleware"
	"github.com/pageza/recetas/backend/internal/mocks"
	"github.com/pageza/recetas/backend/internal/testhelpers"
	"github.com/pageza/recetas/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func echoSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"session_id": c.GetString(middleware.SessionIDKey)})
}

func TestAuthMiddleware(t *testing.T) {
	validator := new(mocks.MockTokenService)
	validator.On("ValidateToken", "good").Return(&types.SessionClaims{SessionID: "abc"}, nil)
	validator.On("ValidateToken", "bad").Return(nil, errors.New("invalid session token"))

	router := gin.New()
	router.GET("/session", middleware.AuthMiddleware(validator), echoSession)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid token", header: "Bearer good", status: http.StatusOK},
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", status: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer bad", status: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", status: http.StatusUnauthorized},
		{name: "extra fields", header: "Bearer good extra", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/session", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"session_id":"abc"}`, w.Body.String())
			}
		})
	}
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	_, client := testhelpers.SetupRedis(t)
	limiter := middleware.NewSessionRateLimiter(client, 2)

	router := gin.New()
	router.GET("/limited",
		func(c *gin.Context) { c.Set(middleware.SessionIDKey, c.Query("s")) },
		limiter.RateLimitMiddleware(),
		echoSession,
	)

	do := func(session string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited?s="+session, nil))
		return w
	}

	first := do("a")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, do("a").Code)

	blocked := do("a")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "0", blocked.Header().Get("X-RateLimit-Remaining"))

	// other sessions have their own window
	assert.Equal(t, http.StatusOK, do("b").Code)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	mr, client := testhelpers.SetupRedis(t)
	limiter := middleware.NewSessionRateLimiter(client, 1)
	mr.Close()

	router := gin.New()
	router.GET("/limited", limiter.RateLimitMiddleware(), echoSession)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(middleware.CORS([]string{"http://localhost:5173"}))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
