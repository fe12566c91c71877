package account

import (
	"context"

	"github.com/feinledger/fein/pkg/access"
	"github.com/feinledger/fein/pkg/dto"
	"github.com/google/uuid"
)

// Repository defines the interface for account data access operations.
type Repository interface {
	// Create inserts a new account record from a DTO.
	Create(ctx context.Context, create dto.AccountCreate) error

	// Get retrieves an account by its ID regardless of owner.
	Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error)

	// List returns the accounts visible to who, oldest first.
	List(ctx context.Context, who access.Identity) ([]*dto.AccountRead, error)

	// FirstOwned returns the earliest account created by userID.
	FirstOwned(ctx context.Context, userID uuid.UUID) (*dto.AccountRead, error)
}
