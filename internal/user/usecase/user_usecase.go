// Package usecase implements the user business logic and orchestrates user domain operations.
package usecase

import (
	"context"
	"strings"

	validation "github.com/jellydator/validation"

	authDomain "github.com/banksec/apiguard/internal/auth/domain"
	authService "github.com/banksec/apiguard/internal/auth/service"
	"github.com/banksec/apiguard/internal/user/domain"
	appValidation "github.com/banksec/apiguard/internal/validation"
)

// RegisterUserInput contains the input data for user registration.
// Role and admin flags are deliberately absent: they are assigned
// server-side and cannot be mass-assigned from a request body.
type RegisterUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UseCase defines the interface for user business logic operations
type UseCase interface {
	RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	SearchUsers(ctx context.Context, query string) ([]*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// UserRepository interface defines user repository operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Search(ctx context.Context, query string) ([]*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

// UserUseCase handles user-related business logic
type UserUseCase struct {
	userRepo    UserRepository
	credentials authService.CredentialService
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(userRepo UserRepository, credentials authService.CredentialService) UseCase {
	return &UserUseCase{
		userRepo:    userRepo,
		credentials: credentials,
	}
}

// validateRegisterUserInput validates the registration input using jellydator/validation
func (uc *UserUseCase) validateRegisterUserInput(input RegisterUserInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Username,
			validation.Required.Error("username is required"),
			appValidation.NotBlank,
			appValidation.Username,
			validation.Length(3, 64).Error("username must be between 3 and 64 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:     8,
				RequireUpper:  true,
				RequireLower:  true,
				RequireNumber: true,
			},
		),
	)
	return appValidation.WrapValidationError(err)
}

// RegisterUser registers a new user. The stored credential is a hash and the
// role is always the non-admin default, regardless of the request payload.
func (uc *UserUseCase) RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	if err := uc.validateRegisterUserInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := uc.credentials.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username: strings.TrimSpace(input.Username),
		Email:    strings.TrimSpace(strings.ToLower(input.Email)),
		Password: hashedPassword,
		Role:     authDomain.RoleUser,
		IsAdmin:  false,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves a user by ID
func (uc *UserUseCase) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// GetByUsername retrieves a user by username
func (uc *UserUseCase) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return uc.userRepo.GetByUsername(ctx, username)
}

// ListUsers retrieves all users
func (uc *UserUseCase) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return uc.userRepo.List(ctx)
}

// SearchUsers retrieves users whose username matches the query
func (uc *UserUseCase) SearchUsers(ctx context.Context, query string) ([]*domain.User, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return []*domain.User{}, nil
	}
	return uc.userRepo.Search(ctx, trimmed)
}

// DeleteUser removes a user by ID
func (uc *UserUseCase) DeleteUser(ctx context.Context, id int64) error {
	return uc.userRepo.Delete(ctx, id)
}
