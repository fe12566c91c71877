package repository

import (
	"context"
	"fmt"
	"reflect"

	"github.com/feinledger/fein/infra/repository/account"
	"github.com/feinledger/fein/infra/repository/report"
	"github.com/feinledger/fein/infra/repository/tag"
	"github.com/feinledger/fein/infra/repository/transaction"
	"github.com/feinledger/fein/infra/repository/user"
	"github.com/feinledger/fein/pkg/repository"
	accountrepo "github.com/feinledger/fein/pkg/repository/account"
	reportrepo "github.com/feinledger/fein/pkg/repository/report"
	tagrepo "github.com/feinledger/fein/pkg/repository/tag"
	transactionrepo "github.com/feinledger/fein/pkg/repository/transaction"
	userrepo "github.com/feinledger/fein/pkg/repository/user"
	"gorm.io/gorm"
)

// UoW provides transaction boundary and repository access in one abstraction.
// Repositories handed out inside Do are bound to the transaction session.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			typeOf((*userrepo.Repository)(nil)):                 func(db *gorm.DB) any { return user.New(db) },
			typeOf((*accountrepo.Repository)(nil)):              func(db *gorm.DB) any { return account.New(db) },
			typeOf((*transactionrepo.Repository)(nil)):          func(db *gorm.DB) any { return transaction.New(db) },
			typeOf((*transactionrepo.BreakdownRepository)(nil)): func(db *gorm.DB) any { return transaction.NewBreakdown(db) },
			typeOf((*tagrepo.Repository)(nil)):                  func(db *gorm.DB) any { return tag.New(db) },
			typeOf((*reportrepo.Repository)(nil)):               func(db *gorm.DB) any { return report.New(db) },
		},
	}
}

// Do runs the given function in a transaction boundary, providing a UoW with repository access.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txnUow := &UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry}
		return fn(txnUow)
	})
}

// GetRepository returns the repository registered for repoType, a nil
// pointer to a repository interface. Outside Do the repository uses the
// plain connection pool.
func (u *UoW) GetRepository(repoType any) (any, error) {
	key := typeOf(repoType)
	constructor, ok := u.repoRegistry[key]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", key)
	}
	session := u.tx
	if session == nil {
		session = u.db
	}
	return constructor(session), nil
}

func typeOf(repoType any) reflect.Type {
	t := reflect.TypeOf(repoType)
	if t != nil && t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

var _ repository.UnitOfWork = (*UoW)(nil)
