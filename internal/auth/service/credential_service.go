package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/banksec/apiguard/internal/errors"
)

// CredentialService hashes and verifies user passwords. The hashing algorithm
// is opaque to the rest of the system.
type CredentialService interface {
	// Hash derives a storable hash from a plaintext password.
	Hash(plaintext string) (string, error)

	// Verify reports whether the plaintext matches the stored hash.
	// Malformed hashes verify as false, never as an error the caller
	// could confuse with a system failure.
	Verify(plaintext, hash string) bool
}

// pwdhashCredentialService implements CredentialService with argon2id via go-pwdhash.
type pwdhashCredentialService struct {
	hasher *pwdhash.PasswordHasher
}

// NewCredentialService creates a CredentialService using the interactive
// hashing policy for user passwords.
func NewCredentialService() (CredentialService, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	return &pwdhashCredentialService{hasher: hasher}, nil
}

// Hash derives a storable hash from a plaintext password.
func (s *pwdhashCredentialService) Hash(plaintext string) (string, error) {
	hash, err := s.hasher.Hash([]byte(plaintext))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hash, nil
}

// Verify reports whether the plaintext matches the stored hash.
func (s *pwdhashCredentialService) Verify(plaintext, hash string) bool {
	ok, err := s.hasher.Verify([]byte(plaintext), hash)
	return err == nil && ok
}
