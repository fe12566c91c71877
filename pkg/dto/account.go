package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRead is a read-optimized DTO for account queries and API responses.
type AccountRead struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"` // owner, immutable after creation
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// AccountCreate is a DTO for creating a new account.
type AccountCreate struct {
	ID      uuid.UUID
	UserID  uuid.UUID
	Name    string
	Balance decimal.Decimal
}
