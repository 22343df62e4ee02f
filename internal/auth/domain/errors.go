package domain

import (
	"github.com/banksec/apiguard/internal/errors"
)

// Authentication errors.
var (
	// ErrInvalidSubject indicates a token was requested for an empty subject.
	ErrInvalidSubject = errors.Wrap(errors.ErrInvalidInput, "subject must not be empty")

	// ErrTokenInvalid indicates the token is malformed or its signature does not verify.
	ErrTokenInvalid = errors.Wrap(errors.ErrUnauthorized, "token invalid")

	// ErrTokenExpired indicates the token's expiry is in the past.
	ErrTokenExpired = errors.Wrap(errors.ErrUnauthorized, "token expired")

	// ErrIssuerMismatch indicates the token was issued by a different issuer.
	ErrIssuerMismatch = errors.Wrap(errors.ErrUnauthorized, "token issuer mismatch")

	// ErrAudienceMismatch indicates the token was issued for a different audience.
	ErrAudienceMismatch = errors.Wrap(errors.ErrUnauthorized, "token audience mismatch")

	// ErrInvalidCredentials indicates the username/password pair does not match.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")
)
