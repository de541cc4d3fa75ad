package middleware_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"invoicegen/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func init() { gin.SetMode(gin.TestMode) }

func signed(t *testing.T, typ string, exp time.Time) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UserID:    "acc-1",
		Email:     "a@b.c",
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func protected() *gin.Engine {
	r := gin.New()
	r.GET("/p", middleware.JWTAuth(secret), func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetClaims(c).UserID)
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	r := protected()
	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"expired", "Bearer " + signed(t, middleware.TokenTypeAccess, time.Now().Add(-time.Hour)), http.StatusUnauthorized},
		{"refresh token", "Bearer " + signed(t, middleware.TokenTypeRefresh, time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"valid", "Bearer " + signed(t, middleware.TokenTypeAccess, time.Now().Add(time.Hour)), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/p", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
			if tc.want == http.StatusOK {
				assert.Equal(t, "acc-1", w.Body.String())
			}
		})
	}
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(middleware.RequestIDKey)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRecovery_Returns500WithoutLeaking(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Recovery())
	r.GET("/", func(c *gin.Context) { panic("secret internals") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret internals")
	assert.Contains(t, w.Body.String(), `"detail"`)
}

func TestErrorHandler_AttachedErrorBecomesGeneric500(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/bare", func(c *gin.Context) { _ = c.Error(errors.New("db password wrong")) })
	r.GET("/written", func(c *gin.Context) {
		c.JSON(http.StatusConflict, gin.H{"detail": "taken"})
		_ = c.Error(errors.New("duplicate"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bare", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/written", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"detail":"taken"}`, w.Body.String())
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(middleware.BodyLimit(8))
	r.POST("/", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("short")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("definitely too long")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func hit(r http.Handler, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.RemoteAddr = ip + ":4000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func ok(c *gin.Context) { c.Status(http.StatusOK) }

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	l := middleware.NewRateLimiter("login", 20, time.Minute, "slow down")
	r := gin.New()
	r.POST("/login", l.Handler(), ok)

	for i := 0; i < 20; i++ {
		require.Equal(t, http.StatusOK, hit(r, "/login", "203.0.113.77").Code, "attempt %d", i+1)
	}
	w := hit(r, "/login", "203.0.113.77")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	secs, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err, "Retry-After must be delta-seconds")
	assert.True(t, secs >= 1 && secs <= 60, "Retry-After=%d", secs)

	// other clients keep their own budget
	assert.Equal(t, http.StatusOK, hit(r, "/login", "203.0.113.78").Code)
}

func TestRateLimiter_InstancesDoNotShareCounters(t *testing.T) {
	login := middleware.NewRateLimiter("login", 2, time.Minute, "slow down")
	signup := middleware.NewRateLimiter("signup", 2, time.Minute, "slow down")
	r := gin.New()
	r.POST("/login", login.Handler(), ok)
	r.POST("/signup", signup.Handler(), ok)

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, hit(r, "/login", "198.51.100.1").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "/login", "198.51.100.1").Code)

	assert.Equal(t, http.StatusOK, hit(r, "/signup", "198.51.100.1").Code)
	assert.Equal(t, http.StatusOK, hit(r, "/signup", "198.51.100.1").Code)
}

func TestRateLimiter_ZeroLimitDisables(t *testing.T) {
	r := gin.New()
	r.POST("/x", middleware.NewRateLimiter("off", 0, time.Minute, "").Handler(), ok)

	for i := 0; i < 50; i++ {
		require.Equal(t, http.StatusOK, hit(r, "/x", "192.0.2.9").Code)
	}
}

func TestRateLimiter_RunStopsOnCancel(t *testing.T) {
	l := middleware.NewRateLimiter("render", 1, time.Minute, "")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS())
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
