// Package dto provides data transfer objects for the account HTTP layer.
package dto

// BalanceResponse represents the API response for an account balance lookup
type BalanceResponse struct {
	Balance float64 `json:"balance"`
}

// TransferResponse represents the API response for a completed transfer
type TransferResponse struct {
	Status    string  `json:"status"`
	Remaining float64 `json:"remaining"`
}

// AccountResponse represents the API response for an account.
// The owner id is deliberately excluded from the external contract.
type AccountResponse struct {
	ID      int64   `json:"id"`
	IBAN    string  `json:"iban"`
	Balance float64 `json:"balance"`
}

// ListAccountsResponse wraps a collection of accounts
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
