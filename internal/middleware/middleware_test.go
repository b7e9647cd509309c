package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"trusthire/internal/domain/account"
	appErrors "trusthire/pkg/errors"
	"trusthire/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTokenManager(t *testing.T) *utils.TokenManager {
	t.Helper()
	tm, err := utils.NewTokenManager("middleware-secret", time.Hour)
	require.NoError(t, err)
	return tm
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) utils.ErrorBody {
	t.Helper()
	var resp utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return *resp.Error
}

func protectedRouter(tm *utils.TokenManager, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(tm)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": p.ID, "role": p.Role})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tm := newTokenManager(t)
	userID := uuid.New()
	valid, _, err := tm.Issue(userID, "w@x.com", "worker")
	require.NoError(t, err)

	expiredManager := tm.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	expired, _, err := expiredManager.Issue(userID, "w@x.com", "worker")
	require.NoError(t, err)

	unknownRole, _, err := tm.Issue(userID, "w@x.com", "superuser")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + valid, http.StatusOK},
		{"lowercase scheme", "bearer " + valid, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"no scheme", valid, http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"unknown role", "Bearer " + unknownRole, http.StatusUnauthorized},
	}

	r := protectedRouter(tm)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				body := decodeError(t, rec)
				assert.Equal(t, appErrors.CodeUnauthorized, body.Code)
				assert.Equal(t, appErrors.AuthFailedMessage, body.Message)
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	worker := &Principal{ID: uuid.New(), Role: account.RoleWorker}
	admin := &Principal{ID: uuid.New(), Role: account.RoleAdmin}

	assert.NoError(t, Authorize(worker, account.RoleWorker))
	assert.ErrorIs(t, Authorize(worker, account.RoleEmployer), appErrors.ErrForbidden)
	assert.ErrorIs(t, Authorize(admin, account.RoleWorker), appErrors.ErrForbidden)
	assert.ErrorIs(t, Authorize(worker, account.RoleAdmin), appErrors.ErrForbidden)
	assert.ErrorIs(t, Authorize(nil, account.RoleWorker), appErrors.ErrUnauthorized)
}

// A worker token on an employer-only route.
func TestRequireRole_WorkerOnEmployerRoute(t *testing.T) {
	tm := newTokenManager(t)
	token, _, err := tm.Issue(uuid.New(), "w@x.com", "worker")
	require.NoError(t, err)

	r := protectedRouter(tm, RequireRole(account.RoleEmployer))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, appErrors.CodeForbidden, decodeError(t, rec).Code)
}

func TestRequireRole_AdminIsNotAWorker(t *testing.T) {
	tm := newTokenManager(t)
	token, _, err := tm.Issue(uuid.New(), "a@x.com", "admin")
	require.NoError(t, err)

	r := protectedRouter(tm, RequireRole(account.RoleWorker))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_WithoutAuthentication(t *testing.T) {
	r := gin.New()
	r.GET("/admin", AdminOnly(), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 500))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.NotEqual(t, strings.Repeat("x", 500), rec.Header().Get(RequestIDHeader))
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)

	r := gin.New()
	r.Use(RateLimitMiddleware(limiter))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			assert.Equal(t, appErrors.CodeRateLimited, decodeError(t, rec).Code)
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Another client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.1:1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	limiter.Allow("203.0.113.7")
	require.Equal(t, 1, limiter.size())

	limiter.evictIdle(time.Now())
	assert.Equal(t, 1, limiter.size())

	limiter.evictIdle(time.Now().Add(limiterIdleTTL + time.Minute))
	assert.Equal(t, 0, limiter.size())
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestSizeLimitMiddleware(16))
	r.POST("/", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`)))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, appErrors.CodeRequestTooLarge, decodeError(t, rec).Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware(), RecoveryMiddleware())
	r.GET("/", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, appErrors.CodeInternal, body.Code)
	assert.NotContains(t, body.Message, "boom")
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}
