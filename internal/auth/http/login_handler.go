package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	authService "github.com/banksec/apiguard/internal/auth/service"
	"github.com/banksec/apiguard/internal/httputil"
	"github.com/banksec/apiguard/internal/metrics"
	userDomain "github.com/banksec/apiguard/internal/user/domain"
	customValidation "github.com/banksec/apiguard/internal/validation"
)

// UserFinder looks up users for credential verification.
type UserFinder interface {
	GetByUsername(ctx context.Context, username string) (*userDomain.User, error)
}

// LoginHandler exchanges username/password credentials for an access token.
type LoginHandler struct {
	users           UserFinder
	credentials     authService.CredentialService
	tokens          authService.TokenService
	securityMetrics metrics.SecurityMetrics
	logger          *slog.Logger
}

// NewLoginHandler creates a new LoginHandler with required dependencies.
func NewLoginHandler(
	users UserFinder,
	credentials authService.CredentialService,
	tokens authService.TokenService,
	securityMetrics metrics.SecurityMetrics,
	logger *slog.Logger,
) *LoginHandler {
	return &LoginHandler{
		users:           users,
		credentials:     credentials,
		tokens:          tokens,
		securityMetrics: securityMetrics,
		logger:          logger,
	}
}

// LoginRequest contains the credentials presented for token issuance.
// Accepted as JSON or form-encoded body.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Password,
			validation.Required,
		),
	)
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token string `json:"token"`
}

// Login handles POST /api/auth/login. Returns 200 with a token on success,
// 401 with a fixed body otherwise. The failure body never distinguishes an
// unknown username from a wrong password.
func (h *LoginHandler) Login(c *gin.Context) {
	var req LoginRequest

	var err error
	if strings.HasPrefix(c.ContentType(), "application/json") {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBind(&req)
	}
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		h.rejectCredentials(c, req.Username)
		return
	}

	user, err := h.users.GetByUsername(c.Request.Context(), req.Username)
	if err != nil || user == nil {
		h.rejectCredentials(c, req.Username)
		return
	}

	if !h.credentials.Verify(req.Password, user.Password) {
		h.rejectCredentials(c, req.Username)
		return
	}

	token, err := h.tokens.Issue(user.Username, map[string]any{
		"role":    user.Role,
		"isAdmin": user.IsAdmin,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("login successful", slog.String("username", user.Username))
	h.securityMetrics.RecordLogin(c.Request.Context(), "success")

	c.JSON(http.StatusOK, LoginResponse{Token: token})
}

// rejectCredentials writes the fixed invalid-credentials response.
func (h *LoginHandler) rejectCredentials(c *gin.Context, username string) {
	h.logger.Debug("login failed", slog.String("username", username))
	h.securityMetrics.RecordLogin(c.Request.Context(), "failure")
	c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
}
