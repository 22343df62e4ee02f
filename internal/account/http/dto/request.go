// Package dto provides data transfer objects for the account HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/banksec/apiguard/internal/validation"
)

// TransferRequest represents the API request for an account transfer.
// Only the amount is accepted from the client; the account id comes from the
// path and is checked for ownership before the request reaches the use case.
type TransferRequest struct {
	Amount float64 `json:"amount"`
}

// Validate validates the TransferRequest using the jellydator/validation library
func (r *TransferRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Amount,
			validation.Required.Error("transfer amount is required"),
			validation.Min(0.01).Error("transfer amount must be positive"),
		),
	)
	return appValidation.WrapValidationError(err)
}
