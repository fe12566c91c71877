// Package ownership derives row ownership for every entity type.
//
// Accounts carry their owner directly. Transactions are owned through
// their breakdowns: a transaction belongs to every user owning an account
// one of its breakdowns is booked against. Tags are owned through the
// transactions they are assigned to. Each scope is a no-op for privileged
// identities.
package ownership

import (
	"context"
	"fmt"

	"github.com/feinledger/fein/pkg/access"
	"github.com/feinledger/fein/pkg/domain/transaction"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ownedAccountSQL = `%s.user_id = ?`

	ownedBreakdownSQL = `EXISTS (SELECT 1 FROM accounts oa WHERE oa.id = %s.account_id AND oa.user_id = ?)`

	ownedTransactionSQL = `EXISTS (SELECT 1 FROM breakdowns ob JOIN accounts oa ON oa.id = ob.account_id ` +
		`WHERE ob.transaction_id = %s.id AND oa.user_id = ?)`

	ownedTagSQL = `EXISTS (SELECT 1 FROM tag_assignments ota JOIN breakdowns ob ON ob.transaction_id = ota.transaction_id ` +
		`JOIN accounts oa ON oa.id = ob.account_id WHERE ota.tag_id = %s.id AND oa.user_id = ?)`

	unlinkedTagSQL = `NOT EXISTS (SELECT 1 FROM tag_assignments ota WHERE ota.tag_id = %s.id)`

	placeholderSQL = `%s.name NOT LIKE ? ESCAPE '\'`
)

// Scope restricts a query to rows visible to an identity.
type Scope func(db *gorm.DB) *gorm.DB

func ownedBy(who access.Identity, clause, alias string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if !who.Scoped() {
			return db
		}
		return db.Where(fmt.Sprintf(clause, alias), who.UserID)
	}
}

// Accounts scopes a query on the accounts table aliased as alias.
func Accounts(who access.Identity, alias string) Scope {
	return ownedBy(who, ownedAccountSQL, alias)
}

// Breakdowns scopes a query on the breakdowns table aliased as alias.
func Breakdowns(who access.Identity, alias string) Scope {
	return ownedBy(who, ownedBreakdownSQL, alias)
}

// Transactions scopes a query on the transactions table aliased as alias.
func Transactions(who access.Identity, alias string) Scope {
	return ownedBy(who, ownedTransactionSQL, alias)
}

// Tags scopes a query on the tags table aliased as alias.
func Tags(who access.Identity, alias string) Scope {
	return ownedBy(who, ownedTagSQL, alias)
}

// UsableTags scopes tags to those owned by who or not linked to anything yet.
func UsableTags(who access.Identity, alias string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if !who.Scoped() {
			return db
		}
		return db.Where(
			fmt.Sprintf("("+ownedTagSQL+" OR "+unlinkedTagSQL+")", alias, alias),
			who.UserID,
		)
	}
}

// WithoutPlaceholders drops the synthetic transactions anchoring tags.
func WithoutPlaceholders(alias string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(fmt.Sprintf(placeholderSQL, alias), transaction.PlaceholderLikePattern)
	}
}

// OwnsTransaction reports whether who can reach the transaction.
// Privileged identities own every existing transaction.
func OwnsTransaction(ctx context.Context, db *gorm.DB, who access.Identity, transactionID uuid.UUID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Table("transactions t").
		Scopes(Transactions(who, "t")).
		Where("t.id = ?", transactionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
