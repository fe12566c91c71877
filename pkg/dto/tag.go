package dto

import "github.com/google/uuid"

// TagRead is a read-optimized DTO for tags.
type TagRead struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// TagCreate is a DTO for creating a tag.
type TagCreate struct {
	ID   uuid.UUID
	Name string
}

// TagAssignmentRead links a tag to a transaction.
type TagAssignmentRead struct {
	ID            uuid.UUID `json:"id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	TagID         uuid.UUID `json:"tag_id"`
}

// TagAssignmentCreate is a DTO for assigning a tag to a transaction.
type TagAssignmentCreate struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	TagID         uuid.UUID
}
