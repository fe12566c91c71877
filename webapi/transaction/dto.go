package transaction

import (
	"time"

	domaintx "github.com/feinledger/fein/pkg/domain/transaction"
	"github.com/feinledger/fein/pkg/dto"
	txsvc "github.com/feinledger/fein/pkg/service/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//revive:disable

// BreakdownRequest books a share of a transaction against one account.
type BreakdownRequest struct {
	AccountID    string           `json:"account_id" validate:"required,uuid"`
	EarnedAmount *decimal.Decimal `json:"earned_amount"`
	SpentAmount  *decimal.Decimal `json:"spent_amount"`
}

// CreateTransactionRequest represents the request body for creating a transaction.
// Date defaults to the current time and Amount to zero.
type CreateTransactionRequest struct {
	Name       string             `json:"name" validate:"required,max=100"`
	Amount     *decimal.Decimal   `json:"amount"`
	Date       *time.Time         `json:"date"`
	AccountID  string             `json:"account_id" validate:"required,uuid"`
	TagID      *string            `json:"tag_id" validate:"omitempty,uuid"`
	Breakdowns []BreakdownRequest `json:"breakdowns" validate:"omitempty,dive"`
}

// UpdateTransactionRequest changes only the supplied fields.
type UpdateTransactionRequest struct {
	Name   *string          `json:"name" validate:"omitempty,max=100"`
	Amount *decimal.Decimal `json:"amount"`
	Date   *time.Time       `json:"date"`
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// ToBreakdown converts the request to a domain breakdown.
func (r BreakdownRequest) ToBreakdown() domaintx.Breakdown {
	return domaintx.Breakdown{
		AccountID: uuid.MustParse(r.AccountID),
		Earned:    orZero(r.EarnedAmount),
		Spent:     orZero(r.SpentAmount),
	}
}

// ToInput converts the request to the service input.
func (r CreateTransactionRequest) ToInput() txsvc.CreateInput {
	in := txsvc.CreateInput{
		Name:      r.Name,
		Amount:    orZero(r.Amount),
		Date:      r.Date,
		AccountID: uuid.MustParse(r.AccountID),
	}
	if r.TagID != nil {
		id := uuid.MustParse(*r.TagID)
		in.TagID = &id
	}
	for _, b := range r.Breakdowns {
		in.Breakdowns = append(in.Breakdowns, b.ToBreakdown())
	}
	return in
}

// ToUpdate converts the request to a partial update.
func (r UpdateTransactionRequest) ToUpdate() dto.TransactionUpdate {
	return dto.TransactionUpdate{Name: r.Name, Amount: r.Amount, Date: r.Date}
}
