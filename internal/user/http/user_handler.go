// Package http provides HTTP handlers for user management operations.
package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/banksec/apiguard/internal/auth/http"
	"github.com/banksec/apiguard/internal/authz"
	"github.com/banksec/apiguard/internal/httputil"
	"github.com/banksec/apiguard/internal/user/http/dto"
	"github.com/banksec/apiguard/internal/user/usecase"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userUseCase usecase.UseCase
	authorizer  *authz.Authorizer
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userUseCase usecase.UseCase, authorizer *authz.Authorizer, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		authorizer:  authorizer,
		logger:      logger,
	}
}

// RegisterHandler handles user registration.
// POST /api/users - open endpoint, returns 201 Created with the new user.
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterUserRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	input := dto.ToRegisterUserInput(req)

	user, err := h.userUseCase.RegisterUser(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// GetHandler retrieves a single user by id.
// GET /api/users/:id - the principal must own the user record or be an admin.
func (h *UserHandler) GetHandler(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	ctx := c.Request.Context()
	auth := authHTTP.GetAuthContext(ctx)
	if !h.authorizer.CanAccessUser(ctx, auth, id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	user, err := h.userUseCase.GetUserByID(ctx, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// ListHandler retrieves all users.
// GET /api/users - admin only, enforced by route middleware.
func (h *UserHandler) ListHandler(c *gin.Context) {
	users, err := h.userUseCase.ListUsers(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToListUsersResponse(users))
}

// SearchHandler retrieves users whose username matches the query substring.
// GET /api/users/search?q= - admin only, enforced by route middleware.
func (h *UserHandler) SearchHandler(c *gin.Context) {
	query := c.Query("q")

	users, err := h.userUseCase.SearchUsers(c.Request.Context(), query)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToListUsersResponse(users))
}

// DeleteHandler removes a user by id.
// DELETE /api/users/:id - admin only, enforced by route middleware.
func (h *UserHandler) DeleteHandler(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.userUseCase.DeleteUser(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseIDParam extracts and parses the numeric :id path parameter
func parseIDParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
