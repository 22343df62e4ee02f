package commands

import (
	"context"
	"fmt"
	"log/slog"

	authDomain "github.com/banksec/apiguard/internal/auth/domain"
	userDomain "github.com/banksec/apiguard/internal/user/domain"

	"github.com/banksec/apiguard/internal/app"
	"github.com/banksec/apiguard/internal/config"
)

// RunCreateAdmin creates a user with the admin role. Admin accounts are never
// created through the public registration endpoint, only through this command.
func RunCreateAdmin(ctx context.Context, username, email, password string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	credentialService, err := container.CredentialService()
	if err != nil {
		return fmt.Errorf("failed to initialize credential service: %w", err)
	}

	userRepo, err := container.UserRepository()
	if err != nil {
		return fmt.Errorf("failed to initialize user repository: %w", err)
	}

	hashedPassword, err := credentialService.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &userDomain.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Role:     authDomain.RoleAdmin,
		IsAdmin:  true,
	}

	if err := userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("admin user created",
		slog.Int64("id", user.ID),
		slog.String("username", user.Username),
	)

	return nil
}
