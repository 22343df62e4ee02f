package commands

import (
	"context"
	"fmt"
	"log/slog"

	accountDomain "github.com/banksec/apiguard/internal/account/domain"
	authDomain "github.com/banksec/apiguard/internal/auth/domain"
	userDomain "github.com/banksec/apiguard/internal/user/domain"

	"github.com/banksec/apiguard/internal/app"
	"github.com/banksec/apiguard/internal/config"
)

// seedUser pairs a demo user with its initial account.
type seedUser struct {
	username string
	email    string
	password string
	role     string
	isAdmin  bool
	iban     string
	balance  float64
}

// RunSeed creates the demo users and accounts used for local development.
// Skips seeding entirely when any user already exists.
func RunSeed(ctx context.Context) error {
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

	accountRepo, err := container.AccountRepository()
	if err != nil {
		return fmt.Errorf("failed to initialize account repository: %w", err)
	}

	existing, err := userRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing users: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("users already exist, skipping seed")
		return nil
	}

	seeds := []seedUser{
		{
			username: "alice",
			email:    "alice@example.com",
			password: "alice123",
			role:     authDomain.RoleUser,
			isAdmin:  false,
			iban:     "PK00-ALICE",
			balance:  1000.0,
		},
		{
			username: "bob",
			email:    "bob@example.com",
			password: "bob123",
			role:     authDomain.RoleAdmin,
			isAdmin:  true,
			iban:     "PK00-BOB",
			balance:  5000.0,
		},
	}

	for _, seed := range seeds {
		hashedPassword, err := credentialService.Hash(seed.password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", seed.username, err)
		}

		user := &userDomain.User{
			Username: seed.username,
			Email:    seed.email,
			Password: hashedPassword,
			Role:     seed.role,
			IsAdmin:  seed.isAdmin,
		}

		if err := userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user %s: %w", seed.username, err)
		}

		account := &accountDomain.Account{
			OwnerUserID: user.ID,
			IBAN:        seed.iban,
			Balance:     seed.balance,
		}

		if err := accountRepo.Create(ctx, account); err != nil {
			return fmt.Errorf("failed to create account for %s: %w", seed.username, err)
		}

		logger.Info("seeded user",
			slog.String("username", user.Username),
			slog.Int64("account_id", account.ID),
		)
	}

	logger.Info("seed completed successfully")
	return nil
}
