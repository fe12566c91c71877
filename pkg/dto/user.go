package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserCreate represents the data needed to persist a new user.
type UserCreate struct {
	ID             uuid.UUID
	Name           string
	Email          string
	HashedPassword string // bcrypt hash, never the plain password
}

// UserRead represents a read-optimized view of a user.
type UserRead struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}
