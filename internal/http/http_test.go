// Package http provides the HTTP server, routing, and base middleware.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountDomain "github.com/banksec/apiguard/internal/account/domain"
	accountHTTP "github.com/banksec/apiguard/internal/account/http"
	accountUsecase "github.com/banksec/apiguard/internal/account/usecase"
	authHTTP "github.com/banksec/apiguard/internal/auth/http"
	authService "github.com/banksec/apiguard/internal/auth/service"
	"github.com/banksec/apiguard/internal/authz"
	"github.com/banksec/apiguard/internal/config"
	"github.com/banksec/apiguard/internal/metrics"
	"github.com/banksec/apiguard/internal/ratelimit"
	userDomain "github.com/banksec/apiguard/internal/user/domain"
	userHTTP "github.com/banksec/apiguard/internal/user/http"
	userUsecase "github.com/banksec/apiguard/internal/user/usecase"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// createTestServer creates a test server with a discarding logger.
func createTestServer() *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(nil, "localhost", 8080, logger)
}

// TestHealthHandler tests the health check endpoint handler.
func TestHealthHandler(t *testing.T) {
	server := createTestServer()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	server.healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "healthy", response["status"])
}

// TestReadinessHandler_NotReady_NilDB tests the readiness endpoint when DB is nil.
func TestReadinessHandler_NotReady_NilDB(t *testing.T) {
	server := createTestServer()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

	server.readinessHandler(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "not_ready", response["status"])

	components, ok := response["components"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "error", components["database"])
}

// TestCustomLoggerMiddleware tests the custom logging middleware.
func TestCustomLoggerMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "test", response["message"])
}

// TestRecoveryMiddleware tests Gin's built-in recovery middleware.
func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)

	// Should not panic - Recovery middleware catches it
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// In-memory collaborators for full-pipeline tests.

type stubUsers struct {
	byUsername map[string]*userDomain.User
}

func (s *stubUsers) GetByUsername(ctx context.Context, username string) (*userDomain.User, error) {
	if user, ok := s.byUsername[username]; ok {
		return user, nil
	}
	return nil, userDomain.ErrUserNotFound
}

type stubCredentials struct{}

func (s *stubCredentials) Hash(plaintext string) (string, error) {
	return "hash:" + plaintext, nil
}

func (s *stubCredentials) Verify(plaintext, hash string) bool {
	return hash == "hash:"+plaintext
}

type stubUserUseCase struct {
	users *stubUsers
}

func (s *stubUserUseCase) RegisterUser(ctx context.Context, input userUsecase.RegisterUserInput) (*userDomain.User, error) {
	return &userDomain.User{ID: 100, Username: input.Username, Email: input.Email}, nil
}

func (s *stubUserUseCase) GetUserByID(ctx context.Context, id int64) (*userDomain.User, error) {
	for _, user := range s.users.byUsername {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, userDomain.ErrUserNotFound
}

func (s *stubUserUseCase) GetByUsername(ctx context.Context, username string) (*userDomain.User, error) {
	return s.users.GetByUsername(ctx, username)
}

func (s *stubUserUseCase) ListUsers(ctx context.Context) ([]*userDomain.User, error) {
	users := []*userDomain.User{}
	for _, user := range s.users.byUsername {
		users = append(users, user)
	}
	return users, nil
}

func (s *stubUserUseCase) SearchUsers(ctx context.Context, query string) ([]*userDomain.User, error) {
	return []*userDomain.User{}, nil
}

func (s *stubUserUseCase) DeleteUser(ctx context.Context, id int64) error {
	return nil
}

type stubAccounts struct {
	byID map[int64]*accountDomain.Account
}

func (s *stubAccounts) GetByID(ctx context.Context, id int64) (*accountDomain.Account, error) {
	if account, ok := s.byID[id]; ok {
		return account, nil
	}
	return nil, accountDomain.ErrAccountNotFound
}

type stubAccountUseCase struct {
	accounts *stubAccounts
}

func (s *stubAccountUseCase) GetBalance(ctx context.Context, id int64) (float64, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

func (s *stubAccountUseCase) Transfer(ctx context.Context, accountID int64, amount float64) (float64, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return 0, err
	}
	if account.Balance < amount {
		return 0, accountDomain.ErrInsufficientBalance
	}
	account.Balance -= amount
	return account.Balance, nil
}

func (s *stubAccountUseCase) ListByOwner(ctx context.Context, ownerUserID int64) ([]*accountDomain.Account, error) {
	accounts := []*accountDomain.Account{}
	for _, account := range s.accounts.byID {
		if account.OwnerUserID == ownerUserID {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

var _ accountUsecase.UseCase = (*stubAccountUseCase)(nil)
var _ userUsecase.UseCase = (*stubUserUseCase)(nil)

const testSecret = "0123456789abcdef0123456789abcdef"

// newPipelineServer wires SetupRoutes with in-memory collaborators so the
// full middleware pipeline can be exercised end to end.
func newPipelineServer(t *testing.T, loginBudget int) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := &stubUsers{byUsername: map[string]*userDomain.User{
		"alice": {ID: 7, Username: "alice", Password: "hash:alice123", Role: "USER"},
		"bob":   {ID: 8, Username: "bob", Password: "hash:bob123", Role: "ADMIN", IsAdmin: true},
	}}
	accounts := &stubAccounts{byID: map[int64]*accountDomain.Account{
		10: {ID: 10, OwnerUserID: 7, IBAN: "PK00-ALICE", Balance: 1000.0},
		11: {ID: 11, OwnerUserID: 8, IBAN: "PK00-BOB", Balance: 5000.0},
	}}

	tokens, err := authService.NewTokenService(testSecret, 5*time.Minute)
	require.NoError(t, err)

	securityMetrics := metrics.NewNoOpSecurityMetrics()
	authorizer := authz.NewAuthorizer(users, accounts)

	limiter := ratelimit.NewLimiter(ratelimit.Policies{
		Login:    ratelimit.Policy{Limit: loginBudget, Window: time.Minute},
		Transfer: ratelimit.Policy{Limit: 10, Window: time.Minute},
		General:  ratelimit.Policy{Limit: 30, Window: time.Minute},
	})
	t.Cleanup(limiter.Close)

	server := NewServer(nil, "localhost", 0, logger)
	server.SetupRoutes(RouterDeps{
		Config:          &config.Config{},
		Limiter:         limiter,
		SecurityMetrics: securityMetrics,
		TokenService:    tokens,
		LoginHandler: authHTTP.NewLoginHandler(
			users, &stubCredentials{}, tokens, securityMetrics, logger,
		),
		UserHandler: userHTTP.NewUserHandler(
			&stubUserUseCase{users: users}, authorizer, logger,
		),
		AccountHandler: accountHTTP.NewAccountHandler(
			&stubAccountUseCase{accounts: accounts}, authorizer, logger,
		),
	})

	return server
}

func login(t *testing.T, handler http.Handler, username, password string) string {
	t.Helper()
	w := httptest.NewRecorder()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response["token"])
	return response["token"]
}

func TestPipeline_LoginAndReadOwnBalance(t *testing.T) {
	server := newPipelineServer(t, 5)
	handler := server.GetHandler()

	token := login(t, handler, "alice", "alice123")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/accounts/10/balance", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"balance": 1000.0}`, w.Body.String())
}

func TestPipeline_BalanceWithoutToken(t *testing.T) {
	server := newPipelineServer(t, 5)
	handler := server.GetHandler()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/accounts/10/balance", nil)
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPipeline_BalanceOfOtherAccountForbidden(t *testing.T) {
	server := newPipelineServer(t, 5)
	handler := server.GetHandler()

	token := login(t, handler, "alice", "alice123")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/accounts/11/balance", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error": "access denied"}`, w.Body.String())
}

func TestPipeline_AdminCanReadAnyBalance(t *testing.T) {
	server := newPipelineServer(t, 5)
	handler := server.GetHandler()

	token := login(t, handler, "bob", "bob123")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/accounts/10/balance", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPipeline_TransferUpdatesBalance(t *testing.T) {
	server := newPipelineServer(t, 5)
	handler := server.GetHandler()

	token := login(t, handler, "alice", "alice123")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/accounts/10/transfer",
		strings.NewReader(`{"amount": 250.0}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok", "remaining": 750.0}`, w.Body.String())
}

func TestPipeline_InvalidTokenRejected(t *testing.T) {
	server := newPipelineServer(t, 5)
	handler := server.GetHandler()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/accounts/10/balance", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPipeline_AdminRouteRequiresRole(t *testing.T) {
	server := newPipelineServer(t, 5)
	handler := server.GetHandler()

	aliceToken := login(t, handler, "alice", "alice123")
	bobToken := login(t, handler, "bob", "bob123")

	// Non-admin gets 403
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admin gets through
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+bobToken)
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPipeline_LoginRateLimited(t *testing.T) {
	server := newPipelineServer(t, 2)
	handler := server.GetHandler()

	body := `{"username":"alice","password":"wrong"}`
	var w *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		w = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", "203.0.113.9")
		handler.ServeHTTP(w, req)
	}

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestPipeline_HealthBypassesAuth(t *testing.T) {
	server := newPipelineServer(t, 5)
	handler := server.GetHandler()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestPipeline_MineListsOwnAccounts(t *testing.T) {
	server := newPipelineServer(t, 5)
	handler := server.GetHandler()

	token := login(t, handler, "alice", "alice123")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/accounts/mine", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string][]map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response["accounts"], 1)
	assert.Equal(t, "PK00-ALICE", response["accounts"][0]["iban"])
}

// TestServer_ShutdownGracefully tests graceful server shutdown.
func TestServer_ShutdownGracefully(t *testing.T) {
	server := newPipelineServer(t, 5)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	// Give server time to start
	time.Sleep(100 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	assert.NoError(t, err)

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after shutdown")
	}
}

func TestStart_WithoutRoutes(t *testing.T) {
	server := createTestServer()

	err := server.Start(context.Background())
	assert.Error(t, err)
}
