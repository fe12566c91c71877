package tag

import (
	"context"

	"github.com/feinledger/fein/pkg/access"
	"github.com/feinledger/fein/pkg/dto"
	"github.com/google/uuid"
)

// Repository defines the interface for tag and tag assignment data access.
type Repository interface {
	// Create inserts a new tag.
	Create(ctx context.Context, create dto.TagCreate) error

	// List returns the tags reachable by who through its transactions.
	List(ctx context.Context, who access.Identity) ([]*dto.TagRead, error)

	// ListByTransaction returns the tags assigned to a transaction.
	ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*dto.TagRead, error)

	// Accessible reports whether who may use the tag: it is linked to a
	// transaction who owns, or it is not linked to anything yet.
	Accessible(ctx context.Context, who access.Identity, tagID uuid.UUID) (bool, error)

	// Assign links a tag to a transaction.
	Assign(ctx context.Context, create dto.TagAssignmentCreate) error

	// IsAssigned reports whether the pair is already linked.
	IsAssigned(ctx context.Context, transactionID, tagID uuid.UUID) (bool, error)
}
