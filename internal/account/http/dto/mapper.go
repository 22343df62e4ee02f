// Package dto provides data transfer objects for the account HTTP layer.
package dto

import (
	"github.com/banksec/apiguard/internal/account/domain"
)

// ToAccountResponse converts a domain Account model to an AccountResponse DTO
func ToAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:      account.ID,
		IBAN:    account.IBAN,
		Balance: account.Balance,
	}
}

// ToListAccountsResponse converts a slice of domain accounts to a ListAccountsResponse DTO
func ToListAccountsResponse(accounts []*domain.Account) ListAccountsResponse {
	response := ListAccountsResponse{
		Accounts: make([]AccountResponse, 0, len(accounts)),
	}
	for _, account := range accounts {
		response.Accounts = append(response.Accounts, ToAccountResponse(account))
	}
	return response
}
