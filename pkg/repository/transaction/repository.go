package transaction

import (
	"context"

	"github.com/feinledger/fein/pkg/access"
	"github.com/feinledger/fein/pkg/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for transaction data access operations.
// Reads take the caller identity and only return reachable rows.
type Repository interface {
	// Create inserts a new transaction record from a DTO.
	Create(ctx context.Context, create dto.TransactionCreate) error

	// Get retrieves a transaction reachable by who.
	Get(ctx context.Context, who access.Identity, id uuid.UUID) (*dto.TransactionRead, error)

	// Exists reports whether a transaction exists regardless of owner.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// List returns the transactions reachable by who, placeholders excluded.
	List(ctx context.Context, who access.Identity) ([]*dto.TransactionRead, error)

	// Update applies the non-nil fields of update.
	Update(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) error

	// SetNetAmount overwrites the stored net amount.
	SetNetAmount(ctx context.Context, id uuid.UUID, net decimal.Decimal) error

	// Delete removes a transaction with its breakdowns and tag assignments.
	Delete(ctx context.Context, id uuid.UUID) error
}

// BreakdownRepository defines the interface for breakdown data access operations.
type BreakdownRepository interface {
	// Create inserts a new breakdown row.
	Create(ctx context.Context, create dto.BreakdownCreate) error

	// ListByTransaction returns the breakdowns of a transaction booked
	// against accounts visible to who, oldest first.
	ListByTransaction(ctx context.Context, who access.Identity, transactionID uuid.UUID) ([]*dto.BreakdownRead, error)
}
