package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRead is a read-optimized DTO for transaction queries and API responses.
type TransactionRead struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	NetAmount decimal.Decimal `json:"net_amount"` // sum of earned minus spent over breakdowns
	Date      time.Time       `json:"date"`
}

// TransactionCreate is a DTO for creating a new transaction.
type TransactionCreate struct {
	ID        uuid.UUID
	Name      string
	Amount    decimal.Decimal
	NetAmount decimal.Decimal
	Date      time.Time
}

// TransactionUpdate is a DTO for updating one or more fields of a transaction.
// Nil fields are left untouched.
type TransactionUpdate struct {
	Name   *string
	Amount *decimal.Decimal
	Date   *time.Time
}

// IsEmpty reports whether the update carries no field at all.
func (u TransactionUpdate) IsEmpty() bool {
	return u.Name == nil && u.Amount == nil && u.Date == nil
}

// BreakdownRead is a read-optimized DTO for breakdown rows.
type BreakdownRead struct {
	ID            uuid.UUID       `json:"id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	AccountID     uuid.UUID       `json:"account_id"`
	EarnedAmount  decimal.Decimal `json:"earned_amount"`
	SpentAmount   decimal.Decimal `json:"spent_amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

// BreakdownCreate is a DTO for creating a breakdown row.
type BreakdownCreate struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	AccountID     uuid.UUID
	EarnedAmount  decimal.Decimal
	SpentAmount   decimal.Decimal
}
