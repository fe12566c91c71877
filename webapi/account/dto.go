package account

import "github.com/shopspring/decimal"

// CreateAccountRequest represents the request body for creating a new account.
type CreateAccountRequest struct {
	Name    string           `json:"name" validate:"required,max=50"`
	Balance *decimal.Decimal `json:"balance"`
}
