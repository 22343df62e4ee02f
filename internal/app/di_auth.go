package app

import (
	"fmt"
	"time"

	authHTTP "github.com/banksec/apiguard/internal/auth/http"
	authService "github.com/banksec/apiguard/internal/auth/service"
	"github.com/banksec/apiguard/internal/authz"
	"github.com/banksec/apiguard/internal/ratelimit"
)

// TokenService returns the JWT token service instance.
func (c *Container) TokenService() (authService.TokenService, error) {
	c.tokenServiceInit.Do(func() {
		tokenService, err := authService.NewTokenService(c.config.JWTSecret, c.config.JWTTokenTTL)
		if err != nil {
			c.initErrors["tokenService"] = err
			return
		}
		c.tokenService = tokenService
	})
	if storedErr, exists := c.initErrors["tokenService"]; exists {
		return nil, storedErr
	}
	return c.tokenService, nil
}

// CredentialService returns the password hashing service instance.
func (c *Container) CredentialService() (authService.CredentialService, error) {
	c.credentialServiceInit.Do(func() {
		credentialService, err := authService.NewCredentialService()
		if err != nil {
			c.initErrors["credentialService"] = err
			return
		}
		c.credentialService = credentialService
	})
	if storedErr, exists := c.initErrors["credentialService"]; exists {
		return nil, storedErr
	}
	return c.credentialService, nil
}

// Limiter returns the rate limiter, or nil when rate limiting is disabled.
func (c *Container) Limiter() (*ratelimit.Limiter, error) {
	c.limiterInit.Do(func() {
		if !c.config.RateLimitEnabled {
			return
		}
		policies := ratelimit.Policies{
			Login: ratelimit.Policy{
				Limit:  c.config.RateLimitLoginPerMinute,
				Window: time.Minute,
			},
			Transfer: ratelimit.Policy{
				Limit:  c.config.RateLimitTransferPerMinute,
				Window: time.Minute,
			},
			General: ratelimit.Policy{
				Limit:  c.config.RateLimitGeneralPerMinute,
				Window: time.Minute,
			},
		}
		c.limiter = ratelimit.NewLimiter(policies)
	})
	return c.limiter, nil
}

// Authorizer returns the ownership and role authorizer instance.
func (c *Container) Authorizer() (*authz.Authorizer, error) {
	c.authorizerInit.Do(func() {
		userRepo, err := c.UserRepository()
		if err != nil {
			c.initErrors["authorizer"] = fmt.Errorf("failed to get user repository for authorizer: %w", err)
			return
		}

		accountRepo, err := c.AccountRepository()
		if err != nil {
			c.initErrors["authorizer"] = fmt.Errorf("failed to get account repository for authorizer: %w", err)
			return
		}

		c.authorizer = authz.NewAuthorizer(userRepo, accountRepo)
	})
	if storedErr, exists := c.initErrors["authorizer"]; exists {
		return nil, storedErr
	}
	return c.authorizer, nil
}

// LoginHandler returns the login handler instance.
func (c *Container) LoginHandler() (*authHTTP.LoginHandler, error) {
	c.loginHandlerInit.Do(func() {
		userRepo, err := c.UserRepository()
		if err != nil {
			c.initErrors["loginHandler"] = fmt.Errorf("failed to get user repository for login handler: %w", err)
			return
		}

		credentialService, err := c.CredentialService()
		if err != nil {
			c.initErrors["loginHandler"] = fmt.Errorf("failed to get credential service for login handler: %w", err)
			return
		}

		tokenService, err := c.TokenService()
		if err != nil {
			c.initErrors["loginHandler"] = fmt.Errorf("failed to get token service for login handler: %w", err)
			return
		}

		securityMetrics, err := c.SecurityMetrics()
		if err != nil {
			c.initErrors["loginHandler"] = fmt.Errorf("failed to get security metrics for login handler: %w", err)
			return
		}

		c.loginHandler = authHTTP.NewLoginHandler(
			userRepo,
			credentialService,
			tokenService,
			securityMetrics,
			c.Logger(),
		)
	})
	if storedErr, exists := c.initErrors["loginHandler"]; exists {
		return nil, storedErr
	}
	return c.loginHandler, nil
}
