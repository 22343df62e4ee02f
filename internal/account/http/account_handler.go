// Package http provides HTTP handlers for account operations.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	accountDomain "github.com/banksec/apiguard/internal/account/domain"
	"github.com/banksec/apiguard/internal/account/http/dto"
	"github.com/banksec/apiguard/internal/account/usecase"
	authHTTP "github.com/banksec/apiguard/internal/auth/http"
	"github.com/banksec/apiguard/internal/authz"
	"github.com/banksec/apiguard/internal/httputil"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountUseCase usecase.UseCase
	authorizer     *authz.Authorizer
	logger         *slog.Logger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountUseCase usecase.UseCase, authorizer *authz.Authorizer, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountUseCase: accountUseCase,
		authorizer:     authorizer,
		logger:         logger,
	}
}

// BalanceHandler returns the balance of a single account.
// GET /api/accounts/:id/balance - the principal must own the account or be
// an admin. A denied account looks the same whether it exists or not.
func (h *AccountHandler) BalanceHandler(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	ctx := c.Request.Context()
	auth := authHTTP.GetAuthContext(ctx)
	if !h.authorizer.CanAccessAccount(ctx, auth, id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	balance, err := h.accountUseCase.GetBalance(ctx, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{Balance: balance})
}

// TransferHandler debits an amount from an account.
// POST /api/accounts/:id/transfer - ownership is checked before the balance
// is read. Insufficient balance is a 400, not a 422, so callers can tell a
// business rejection apart from a malformed request body.
func (h *AccountHandler) TransferHandler(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	ctx := c.Request.Context()
	auth := authHTTP.GetAuthContext(ctx)
	if !h.authorizer.CanAccessAccount(ctx, auth, id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	remaining, err := h.accountUseCase.Transfer(ctx, id, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, accountDomain.ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient balance"})
		case errors.Is(err, accountDomain.ErrInvalidAmount):
			httputil.HandleBadRequestGin(c, err, h.logger)
		default:
			httputil.HandleErrorGin(c, err, h.logger)
		}
		return
	}

	c.JSON(http.StatusOK, dto.TransferResponse{Status: "ok", Remaining: remaining})
}

// MineHandler lists the accounts owned by the authenticated principal.
// GET /api/accounts/mine - authentication is enforced by route middleware.
// A subject that no longer resolves to a stored user gets an empty list.
func (h *AccountHandler) MineHandler(c *gin.Context) {
	ctx := c.Request.Context()
	auth := authHTTP.GetAuthContext(ctx)

	principalID, ok := h.authorizer.PrincipalID(ctx, auth)
	if !ok {
		c.JSON(http.StatusOK, dto.ToListAccountsResponse(nil))
		return
	}

	accounts, err := h.accountUseCase.ListByOwner(ctx, principalID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountsResponse(accounts))
}

// parseIDParam extracts and parses the numeric :id path parameter
func parseIDParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
