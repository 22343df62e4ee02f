package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/banksec/apiguard/internal/auth/domain"
	authService "github.com/banksec/apiguard/internal/auth/service"
	apperrors "github.com/banksec/apiguard/internal/errors"
	"github.com/banksec/apiguard/internal/httputil"
	"github.com/banksec/apiguard/internal/metrics"
)

// AuthenticationMiddleware resolves the request's authentication context from
// the Authorization header.
//
// The outcome is exactly one of:
//   - No Authorization header → the request proceeds as anonymous. Role-gated
//     and authentication-required routes reject it further down the pipeline.
//   - Valid bearer token → the verified principal (subject + role claim) is
//     stored in the request context.
//   - Present but malformed or invalid token → 401. A presented credential is
//     never silently downgraded to anonymous access.
//
// Authorization header format: "Bearer <token>" (case-insensitive "bearer").
func AuthenticationMiddleware(
	tokenService authService.TokenService,
	securityMetrics metrics.SecurityMetrics,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			securityMetrics.RecordAuthentication(c.Request.Context(), metrics.AuthOutcomeAnonymous)
			ctx := WithAuthContext(c.Request.Context(), authDomain.Anonymous())
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			return
		}

		// Parse Bearer token (case-insensitive)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			securityMetrics.RecordAuthentication(c.Request.Context(), metrics.AuthOutcomeMalformed)
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		plainToken := authHeader[len(bearerPrefix):]
		if plainToken == "" {
			logger.Debug("authentication failed: empty bearer token")
			securityMetrics.RecordAuthentication(c.Request.Context(), metrics.AuthOutcomeMalformed)
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		subject, claims, err := tokenService.Verify(plainToken)
		if err != nil {
			logger.Debug("authentication failed",
				slog.String("error", err.Error()))
			securityMetrics.RecordAuthentication(c.Request.Context(), metrics.AuthOutcomeInvalid)
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		role, _ := claims["role"].(string)

		securityMetrics.RecordAuthentication(c.Request.Context(), metrics.AuthOutcomeSuccess)
		ctx := WithAuthContext(c.Request.Context(), authDomain.Principal(subject, role))
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("subject", subject),
			slog.String("role", role))

		c.Next()
	}
}

// RequireAuthentication rejects anonymous requests with 401.
// MUST be used after AuthenticationMiddleware.
func RequireAuthentication(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := GetAuthContext(c.Request.Context())
		if !auth.Authenticated() {
			logger.Debug("authorization failed: authentication required",
				slog.String("path", c.Request.URL.Path))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole rejects requests whose verified role claim does not equal the
// given role: 401 for anonymous requests, 403 for authenticated requests with
// a different role. MUST be used after AuthenticationMiddleware.
func RequireRole(role string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := GetAuthContext(c.Request.Context())
		if !auth.Authenticated() {
			logger.Debug("authorization failed: authentication required",
				slog.String("path", c.Request.URL.Path))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if auth.Role() != role {
			logger.Debug("authorization failed: insufficient role",
				slog.String("subject", auth.Subject()),
				slog.String("role", auth.Role()),
				slog.String("required_role", role),
				slog.String("path", c.Request.URL.Path))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
