package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategorySpending is the spending total of one tag.
type CategorySpending struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// RangeSpending is the spending total between two calendar dates, both included.
type RangeSpending struct {
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Total     decimal.Decimal `json:"total"`
}

// SpendingSummary groups the spending reports of a caller.
type SpendingSummary struct {
	TotalSpending      decimal.Decimal    `json:"total_spending"`
	SpendingByCategory []CategorySpending `json:"spending_by_category"`
	SpendingByRange    *RangeSpending     `json:"spending_by_date_range,omitempty"`
}

// ExceedingTransaction is a breakdown whose spent amount is larger than the
// running balance of its account just before it.
type ExceedingTransaction struct {
	UserID          uuid.UUID       `json:"user_id"`
	UserEmail       string          `json:"user_email"`
	AccountID       uuid.UUID       `json:"account_id"`
	AccountName     string          `json:"account_name"`
	TransactionID   uuid.UUID       `json:"transaction_id"`
	TransactionName string          `json:"transaction_name"`
	Date            time.Time       `json:"date"`
	EarnedAmount    decimal.Decimal `json:"earned_amount"`
	SpentAmount     decimal.Decimal `json:"spent_amount"`
	RunningBalance  decimal.Decimal `json:"running_balance"`
}
