package app

import (
	"fmt"

	accountHTTP "github.com/banksec/apiguard/internal/account/http"
	accountRepository "github.com/banksec/apiguard/internal/account/repository"
	accountUsecase "github.com/banksec/apiguard/internal/account/usecase"
)

// AccountRepository returns the account repository instance.
func (c *Container) AccountRepository() (accountUsecase.AccountRepository, error) {
	c.accountRepoInit.Do(func() {
		accountRepo, err := c.initAccountRepository()
		if err != nil {
			c.initErrors["accountRepo"] = err
			return
		}
		c.accountRepo = accountRepo
	})
	if storedErr, exists := c.initErrors["accountRepo"]; exists {
		return nil, storedErr
	}
	return c.accountRepo, nil
}

// AccountUseCase returns the account use case instance.
func (c *Container) AccountUseCase() (accountUsecase.UseCase, error) {
	c.accountUseCaseInit.Do(func() {
		accountRepo, err := c.AccountRepository()
		if err != nil {
			c.initErrors["accountUseCase"] = fmt.Errorf("failed to get account repository for account use case: %w", err)
			return
		}

		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["accountUseCase"] = fmt.Errorf("failed to get tx manager for account use case: %w", err)
			return
		}

		c.accountUseCase = accountUsecase.NewAccountUseCase(accountRepo, txManager)
	})
	if storedErr, exists := c.initErrors["accountUseCase"]; exists {
		return nil, storedErr
	}
	return c.accountUseCase, nil
}

// AccountHandler returns the account HTTP handler instance.
func (c *Container) AccountHandler() (*accountHTTP.AccountHandler, error) {
	c.accountHandlerInit.Do(func() {
		accountUseCase, err := c.AccountUseCase()
		if err != nil {
			c.initErrors["accountHandler"] = fmt.Errorf("failed to get account use case for account handler: %w", err)
			return
		}

		authorizer, err := c.Authorizer()
		if err != nil {
			c.initErrors["accountHandler"] = fmt.Errorf("failed to get authorizer for account handler: %w", err)
			return
		}

		c.accountHandler = accountHTTP.NewAccountHandler(accountUseCase, authorizer, c.Logger())
	})
	if storedErr, exists := c.initErrors["accountHandler"]; exists {
		return nil, storedErr
	}
	return c.accountHandler, nil
}

// initAccountRepository creates the account repository instance.
func (c *Container) initAccountRepository() (accountUsecase.AccountRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for account repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return accountRepository.NewMySQLAccountRepository(db), nil
	case "postgres":
		return accountRepository.NewPostgreSQLAccountRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}
