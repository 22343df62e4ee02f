package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/banksec/apiguard/internal/auth/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// signTestToken signs arbitrary claims with the test secret, bypassing Issue.
func signTestToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims(claims))
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// newTestTokenService creates a token service with a controllable clock.
func newTestTokenService(t *testing.T, ttl time.Duration, now func() time.Time) *jwtTokenService {
	t.Helper()
	service, err := NewTokenService(testSecret, ttl)
	require.NoError(t, err)

	jwtService, ok := service.(*jwtTokenService)
	require.True(t, ok)
	if now != nil {
		jwtService.now = now
	}
	return jwtService
}

func TestNewTokenService_RejectsShortSecret(t *testing.T) {
	_, err := NewTokenService("too-short", 5*time.Minute)
	assert.Error(t, err)
}

func TestNewTokenService_RejectsInvalidTTL(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
	}{
		{"zero", 0},
		{"negative", -time.Minute},
		{"above maximum", 16 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenService(testSecret, tt.ttl)
			assert.Error(t, err)
		})
	}
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	service := newTestTokenService(t, 5*time.Minute, nil)

	token, err := service.Issue("alice", map[string]any{
		"role":    "USER",
		"isAdmin": false,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, claims, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
	assert.Equal(t, "USER", claims["role"])
	assert.Equal(t, false, claims["isAdmin"])

	// Registered claims never leak into the caller-facing claim map
	for _, reserved := range []string{"sub", "iss", "aud", "iat", "exp", "jti"} {
		assert.NotContains(t, claims, reserved)
	}
}

func TestTokenService_IssueRejectsEmptySubject(t *testing.T) {
	service := newTestTokenService(t, 5*time.Minute, nil)

	for _, subject := range []string{"", "   "} {
		_, err := service.Issue(subject, nil)
		assert.ErrorIs(t, err, authDomain.ErrInvalidSubject)
	}
}

func TestTokenService_IssueSkipsReservedCallerClaims(t *testing.T) {
	service := newTestTokenService(t, 5*time.Minute, nil)

	token, err := service.Issue("alice", map[string]any{
		"sub":  "mallory",
		"iss":  "evil",
		"role": "USER",
	})
	require.NoError(t, err)

	subject, claims, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
	assert.Equal(t, "USER", claims["role"])
}

func TestTokenService_VerifyRejectsTamperedToken(t *testing.T) {
	service := newTestTokenService(t, 5*time.Minute, nil)

	token, err := service.Issue("alice", nil)
	require.NoError(t, err)

	// Flip the last signature byte
	tampered := token[:len(token)-1]
	if token[len(token)-1] == 'A' {
		tampered += "B"
	} else {
		tampered += "A"
	}

	_, _, err = service.Verify(tampered)
	assert.ErrorIs(t, err, authDomain.ErrTokenInvalid)
}

func TestTokenService_VerifyRejectsGarbage(t *testing.T) {
	service := newTestTokenService(t, 5*time.Minute, nil)

	_, _, err := service.Verify("not-a-token")
	assert.ErrorIs(t, err, authDomain.ErrTokenInvalid)
}

func TestTokenService_VerifyRejectsExpiredToken(t *testing.T) {
	issuedAt := time.Now()
	service := newTestTokenService(t, 5*time.Minute, func() time.Time { return issuedAt })

	token, err := service.Issue("alice", nil)
	require.NoError(t, err)

	// Still valid just before expiry
	service.now = func() time.Time { return issuedAt.Add(4 * time.Minute) }
	_, _, err = service.Verify(token)
	require.NoError(t, err)

	// Rejected after expiry
	service.now = func() time.Time { return issuedAt.Add(6 * time.Minute) }
	_, _, err = service.Verify(token)
	assert.ErrorIs(t, err, authDomain.ErrTokenExpired)
}

func TestTokenService_VerifyRejectsWrongSecret(t *testing.T) {
	service := newTestTokenService(t, 5*time.Minute, nil)

	otherService, err := NewTokenService("ffffffffffffffffffffffffffffffff", 5*time.Minute)
	require.NoError(t, err)

	token, err := otherService.Issue("alice", nil)
	require.NoError(t, err)

	_, _, err = service.Verify(token)
	assert.ErrorIs(t, err, authDomain.ErrTokenInvalid)
}

func TestTokenService_VerifyRejectsForeignIssuerAndAudience(t *testing.T) {
	service := newTestTokenService(t, 5*time.Minute, nil)

	tests := []struct {
		name    string
		issuer  any
		aud     any
		wantErr error
	}{
		{"wrong issuer", "someone-else", TokenAudience, authDomain.ErrIssuerMismatch},
		{"wrong audience", TokenIssuer, "other-users", authDomain.ErrAudienceMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := signTestToken(t, map[string]any{
				"sub": "alice",
				"iss": tt.issuer,
				"aud": tt.aud,
				"exp": time.Now().Add(5 * time.Minute).Unix(),
			})

			_, _, err := service.Verify(token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTokenService_VerifyRequiresExpiry(t *testing.T) {
	service := newTestTokenService(t, 5*time.Minute, nil)

	token := signTestToken(t, map[string]any{
		"sub": "alice",
		"iss": TokenIssuer,
		"aud": TokenAudience,
	})

	_, _, err := service.Verify(token)
	assert.ErrorIs(t, err, authDomain.ErrTokenInvalid)
}

func TestTokenService_VerifyRequiresSubject(t *testing.T) {
	service := newTestTokenService(t, 5*time.Minute, nil)

	token := signTestToken(t, map[string]any{
		"iss": TokenIssuer,
		"aud": TokenAudience,
		"exp": time.Now().Add(5 * time.Minute).Unix(),
	})

	_, _, err := service.Verify(token)
	assert.ErrorIs(t, err, authDomain.ErrTokenInvalid)
}
