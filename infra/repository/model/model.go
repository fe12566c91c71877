// Package model holds the GORM records of the relational schema.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a user record in the database.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:50;not null"`
	Email     string    `gorm:"uniqueIndex;size:100;not null"`
	Password  string    `gorm:"size:255;not null"` // bcrypt hash
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// Account represents an account record in the database.
type Account struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"size:50;not null"`
	Balance   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	User      *User           `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	CreatedAt time.Time       `gorm:"index"`
	UpdatedAt time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}

// Transaction represents a persisted transaction. NetAmount is derived from
// its breakdowns and rewritten after every breakdown write.
type Transaction struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"size:100;not null;index"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	NetAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Date      time.Time       `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}

// Breakdown books part of a transaction against one account.
type Breakdown struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Transaction   *Transaction    `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	AccountID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Account       *Account        `gorm:"foreignKey:AccountID;constraint:OnDelete:RESTRICT"`
	EarnedAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	SpentAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt     time.Time
}

// TableName specifies the table name for the Breakdown model.
func (Breakdown) TableName() string {
	return "breakdowns"
}

// Tag represents a tag record in the database.
type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:50;not null"`
	CreatedAt time.Time
}

// TableName specifies the table name for the Tag model.
func (Tag) TableName() string {
	return "tags"
}

// TagAssignment links a tag to a transaction.
type TagAssignment struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey"`
	TransactionID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_tag_assignment_pair"`
	Transaction   *Transaction `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	TagID         uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_tag_assignment_pair;index"`
	Tag           *Tag         `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time
}

// TableName specifies the table name for the TagAssignment model.
func (TagAssignment) TableName() string {
	return "tag_assignments"
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&User{},
		&Account{},
		&Transaction{},
		&Breakdown{},
		&Tag{},
		&TagAssignment{},
	}
}
