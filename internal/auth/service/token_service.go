// Package service provides authentication services: signed access tokens and
// credential hashing.
package service

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/banksec/apiguard/internal/auth/domain"
	"github.com/banksec/apiguard/internal/config"
	apperrors "github.com/banksec/apiguard/internal/errors"
)

const (
	// TokenIssuer is the fixed issuer claim on every token.
	TokenIssuer = "apiguard"

	// TokenAudience is the fixed audience claim on every token.
	TokenAudience = "api-users"
)

// registeredClaims are the claim keys the service owns; everything else in a
// payload is caller-provided and round-trips through Verify untouched.
var registeredClaims = map[string]struct{}{
	"sub": {},
	"iss": {},
	"aud": {},
	"iat": {},
	"exp": {},
	"jti": {},
}

// TokenService issues and verifies signed, time-bounded identity tokens.
// Tokens are stateless: nothing is persisted server-side.
type TokenService interface {
	// Issue creates a token for a non-empty subject with the given extra claims.
	Issue(subject string, claims map[string]any) (string, error)

	// Verify validates signature, expiry, issuer, and audience, returning the
	// subject and the caller-provided claims.
	Verify(token string) (subject string, claims map[string]any, err error)
}

// jwtTokenService implements TokenService with HS256-signed JWTs.
type jwtTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService with the shared secret and token TTL.
// Secret length and TTL are validated here as well as in config: a process
// must never issue tokens under an insecure configuration.
func NewTokenService(secret string, ttl time.Duration) (TokenService, error) {
	if len(secret) < config.MinJWTSecretBytes {
		return nil, apperrors.New("token secret is too short")
	}
	if ttl <= 0 || ttl > config.MaxTokenTTL {
		return nil, apperrors.New("token ttl is out of range")
	}

	return &jwtTokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue creates a signed token carrying subject, role claims, issuer,
// audience, issued-at, and expiry.
func (s *jwtTokenService) Issue(subject string, claims map[string]any) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", authDomain.ErrInvalidSubject
	}

	now := s.now()

	mapClaims := jwt.MapClaims{}
	for key, value := range claims {
		if _, reserved := registeredClaims[key]; reserved {
			continue
		}
		mapClaims[key] = value
	}

	mapClaims["sub"] = subject
	mapClaims["iss"] = TokenIssuer
	mapClaims["aud"] = TokenAudience
	mapClaims["iat"] = jwt.NewNumericDate(now)
	mapClaims["exp"] = jwt.NewNumericDate(now.Add(s.ttl))
	mapClaims["jti"] = uuid.Must(uuid.NewV7()).String()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify validates a token end to end. Any failure means the request must be
// treated as unauthenticated; there is no degraded-to-anonymous path for a
// presented token.
func (s *jwtTokenService) Verify(tokenString string) (string, map[string]any, error) {
	parsed, err := jwt.Parse(
		tokenString,
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if apperrors.Is(err, jwt.ErrTokenExpired) {
			return "", nil, authDomain.ErrTokenExpired
		}
		return "", nil, authDomain.ErrTokenInvalid
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", nil, authDomain.ErrTokenInvalid
	}

	issuer, err := mapClaims.GetIssuer()
	if err != nil || issuer != TokenIssuer {
		return "", nil, authDomain.ErrIssuerMismatch
	}

	audience, err := mapClaims.GetAudience()
	if err != nil || !containsAudience(audience, TokenAudience) {
		return "", nil, authDomain.ErrAudienceMismatch
	}

	subject, err := mapClaims.GetSubject()
	if err != nil || subject == "" {
		return "", nil, authDomain.ErrTokenInvalid
	}

	claims := make(map[string]any, len(mapClaims))
	for key, value := range mapClaims {
		if _, reserved := registeredClaims[key]; reserved {
			continue
		}
		claims[key] = value
	}

	return subject, claims, nil
}

// containsAudience reports whether the audience claim includes the expected value.
func containsAudience(audience jwt.ClaimStrings, expected string) bool {
	for _, aud := range audience {
		if aud == expected {
			return true
		}
	}
	return false
}
