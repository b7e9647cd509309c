package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trusthire/internal/config"
	"trusthire/internal/infrastructure/database/memory"
	"trusthire/internal/metrics"
	"trusthire/internal/notify"
	"trusthire/internal/otp"
	accountUsecase "trusthire/internal/usecase/account"
	notificationUsecase "trusthire/internal/usecase/notification"
	appErrors "trusthire/pkg/errors"
	"trusthire/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inbox struct {
	codes map[string]string
}

func (i *inbox) DeliverCode(_ context.Context, to notify.Recipient, code string) error {
	i.codes[to.Email] = code
	return nil
}

type unhealthy struct{}

func (unhealthy) Health(context.Context) error { return errors.New("connection refused") }

type testServer struct {
	router *gin.Engine
	inbox  *inbox
}

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Environment: "test"},
		Database: config.DatabaseConfig{Driver: config.DriverMemory},
		RateLimit: config.RateLimitConfig{
			GeneralRPS:   1000,
			GeneralBurst: 1000,
			OTPRPS:       1000,
			OTPBurst:     1000,
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
			AllowedMethods: []string{"GET", "POST"},
			MaxAge:         time.Hour,
		},
		Bootstrap: config.BootstrapConfig{
			AdminName:     "Admin User",
			AdminEmail:    "admin@trusthire.test",
			AdminPassword: "admin-pass",
		},
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	tokens, err := utils.NewTokenManager("router-secret", time.Hour)
	require.NoError(t, err)

	box := &inbox{codes: make(map[string]string)}
	notifications := notificationUsecase.NewService(memory.NewNotificationRepository())
	m := metrics.New()
	accounts := accountUsecase.NewService(accountUsecase.Deps{
		Accounts: memory.NewAccountRepository(),
		OTP:      otp.NewManager(otp.DefaultTTL),
		Tokens:   tokens,
		Delivery: box,
		Notifier: notifications,
		Metrics:  m,
	})
	require.NoError(t, accounts.Bootstrap(context.Background(), cfg.Bootstrap))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := SetupRoutes(ctx, Dependencies{
		Config:        cfg,
		Accounts:      accounts,
		Notifications: notifications,
		Tokens:        tokens,
		Metrics:       m,
	})

	return &testServer{router: router, inbox: box}
}

type envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	Error   *utils.ErrorBody `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec.Code, env
}

func (s *testServer) login(t *testing.T, path, email, password string) string {
	t.Helper()
	status, env := s.do(t, http.MethodPost, path, "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, status, "login failed: %+v", env.Error)

	var auth accountUsecase.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	require.NotEmpty(t, auth.Token)
	return auth.Token
}

func TestAccountWorkflow(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodPost, "/api/users/register", "", gin.H{
		"name": "Alice Smith", "email": "alice@x.com", "password": "secret123", "role": "worker",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, env.Success)
	assert.NotContains(t, string(env.Data), "password")
	assert.NotContains(t, string(env.Data), "otp")

	status, env = s.do(t, http.MethodPost, "/api/users/register", "", gin.H{
		"name": "Alice Again", "email": "ALICE@x.com", "password": "secret123", "role": "employer",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, appErrors.CodeConflict, env.Error.Code)

	status, env = s.do(t, http.MethodPost, "/api/users/login", "", gin.H{"email": "alice@x.com", "password": "secret123"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, appErrors.CodeVerificationRequired, env.Error.Code)
	assert.Nil(t, env.Data)

	status, env = s.do(t, http.MethodPost, "/api/users/verify-otp", "", gin.H{"email": "alice@x.com", "otp": "000000"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, appErrors.CodeInvalidCode, env.Error.Code)

	code := s.inbox.codes["alice@x.com"]
	require.Len(t, code, 6)
	status, _ = s.do(t, http.MethodPost, "/api/users/verify-otp", "", gin.H{"email": "alice@x.com", "otp": code})
	require.Equal(t, http.StatusOK, status)

	status, env = s.do(t, http.MethodPost, "/api/users/verify-otp", "", gin.H{"email": "alice@x.com", "otp": code})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, appErrors.CodeAlreadyVerified, env.Error.Code)

	status, env = s.do(t, http.MethodPost, "/api/users/resend-otp", "", gin.H{"email": "alice@x.com"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, appErrors.CodeAlreadyVerified, env.Error.Code)

	status, env = s.do(t, http.MethodPost, "/api/users/login", "", gin.H{"email": "alice@x.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, appErrors.CodeInvalidCredentials, env.Error.Code)

	token := s.login(t, "/api/users/login", "alice@x.com", "secret123")

	status, env = s.do(t, http.MethodGet, "/api/users/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	var profile accountUsecase.AccountResponse
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "alice@x.com", profile.Email)
	assert.True(t, profile.IsVerified)

	status, env = s.do(t, http.MethodGet, "/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, status)
	var list notificationUsecase.ListResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, "welcome", list.Notifications[0].Type)

	status, _ = s.do(t, http.MethodPatch, "/api/notifications/"+list.Notifications[0].ID.String()+"/read", token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodGet, "/api/users/validate-token", token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestValidationAndNotFound(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodPost, "/api/users/register", "", gin.H{
		"name": "Bob", "email": "bob@x.com", "password": "secret123", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, appErrors.CodeValidation, env.Error.Code)

	status, env = s.do(t, http.MethodPost, "/api/users/verify-otp", "", gin.H{"email": "bob@x.com"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, appErrors.CodeValidation, env.Error.Code)

	status, env = s.do(t, http.MethodPost, "/api/users/verify-otp", "", gin.H{"email": "ghost@x.com", "otp": "123456"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, appErrors.CodeNotFound, env.Error.Code)

	status, env = s.do(t, http.MethodPost, "/api/users/resend-otp", "", gin.H{"email": "ghost@x.com"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, appErrors.CodeNotFound, env.Error.Code)

	status, env = s.do(t, http.MethodPost, "/api/users/login", "", gin.H{"email": "ghost@x.com", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, appErrors.AuthFailedMessage, env.Error.Message)

	status, env = s.do(t, http.MethodGet, "/api/users/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, appErrors.AuthFailedMessage, env.Error.Message)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodPost, "/api/users/register", "", gin.H{
		"name": "Worker One", "email": "w1@x.com", "password": "secret123", "role": "worker",
	})
	require.Equal(t, http.StatusCreated, status)
	_, _ = s.do(t, http.MethodPost, "/api/users/verify-otp", "", gin.H{"email": "w1@x.com", "otp": s.inbox.codes["w1@x.com"]})
	workerToken := s.login(t, "/api/users/login", "w1@x.com", "secret123")

	status, env := s.do(t, http.MethodPost, "/api/admin/login", "", gin.H{"email": "w1@x.com", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, appErrors.CodeInvalidCredentials, env.Error.Code)

	status, env = s.do(t, http.MethodGet, "/api/admin/users", workerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, appErrors.CodeForbidden, env.Error.Code)

	adminToken := s.login(t, "/api/admin/login", "admin@trusthire.test", "admin-pass")

	status, env = s.do(t, http.MethodGet, "/api/admin/users?role=all&page=1&limit=10", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	var list accountUsecase.AccountListResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.EqualValues(t, 2, list.Total)

	status, _ = s.do(t, http.MethodGet, "/api/admin/dashboard/stats", adminToken, nil)
	assert.Equal(t, http.StatusOK, status)

	var profile accountUsecase.AccountResponse
	status, env = s.do(t, http.MethodGet, "/api/users/profile", workerToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &profile))

	status, _ = s.do(t, http.MethodDelete, "/api/admin/users/"+profile.ID.String(), adminToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = s.do(t, http.MethodDelete, "/api/admin/users/"+profile.ID.String(), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, appErrors.CodeNotFound, env.Error.Code)

	status, _ = s.do(t, http.MethodDelete, "/api/admin/users/not-a-uuid", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestOperationalEndpoints(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "trusthire_otp_issued_total")
}

func TestHealthReportsStoreOutage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tokens, err := utils.NewTokenManager("router-secret", time.Hour)
	require.NoError(t, err)

	router := SetupRoutes(ctx, Dependencies{
		Config:        testConfig(),
		Accounts:      accountUsecase.NewService(accountUsecase.Deps{Accounts: memory.NewAccountRepository(), Tokens: tokens}),
		Notifications: notificationUsecase.NewService(memory.NewNotificationRepository()),
		Tokens:        tokens,
		Health:        unhealthy{},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
