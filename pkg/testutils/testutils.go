// Package testutils provides an in-memory store and fixtures for tests.
package testutils

import (
	"fmt"
	"testing"
	"time"

	"github.com/feinledger/fein/infra"
	infrarepo "github.com/feinledger/fein/infra/repository"
	"github.com/feinledger/fein/infra/repository/model"
	"github.com/feinledger/fein/pkg/config"
	domaintx "github.com/feinledger/fein/pkg/domain/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewTestDB opens a private in-memory SQLite store with the schema migrated.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := infra.NewDBConnection(&config.DB{
		Url:             dsn,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}, "test")
	require.NoError(t, err)
	require.NoError(t, infrarepo.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Day returns midnight UTC of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Fixtures inserts rows straight through the models.
type Fixtures struct {
	t  testing.TB
	db *gorm.DB
}

// NewFixtures returns fixtures writing to db.
func NewFixtures(t testing.TB, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

// User inserts a user with a placeholder password hash.
func (f *Fixtures) User(email string) model.User {
	f.t.Helper()
	u := model.User{
		ID:       uuid.New(),
		Name:     email,
		Email:    email,
		Password: "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3b2t6G9y1pD2sVdY4ZrSxmK",
	}
	require.NoError(f.t, f.db.Create(&u).Error)
	return u
}

// Account inserts an account owned by owner.
func (f *Fixtures) Account(owner uuid.UUID, name, balance string) model.Account {
	f.t.Helper()
	a := model.Account{
		ID:      uuid.New(),
		Name:    name,
		Balance: decimal.RequireFromString(balance),
		UserID:  owner,
	}
	require.NoError(f.t, f.db.Create(&a).Error)
	return a
}

// Earn builds a breakdown crediting account.
func Earn(account uuid.UUID, amount string) model.Breakdown {
	return model.Breakdown{AccountID: account, EarnedAmount: decimal.RequireFromString(amount)}
}

// Spend builds a breakdown debiting account.
func Spend(account uuid.UUID, amount string) model.Breakdown {
	return model.Breakdown{AccountID: account, SpentAmount: decimal.RequireFromString(amount)}
}

// Transaction inserts a transaction with its breakdowns and a consistent net amount.
func (f *Fixtures) Transaction(name, amount string, date time.Time, parts ...model.Breakdown) model.Transaction {
	f.t.Helper()
	net := make([]domaintx.Breakdown, 0, len(parts))
	for _, p := range parts {
		net = append(net, domaintx.Breakdown{Earned: p.EarnedAmount, Spent: p.SpentAmount})
	}
	tx := model.Transaction{
		ID:        uuid.New(),
		Name:      name,
		Amount:    decimal.RequireFromString(amount),
		NetAmount: domaintx.NetAmount(net),
		Date:      date,
	}
	require.NoError(f.t, f.db.Create(&tx).Error)
	for _, p := range parts {
		p.ID = uuid.New()
		p.TransactionID = tx.ID
		require.NoError(f.t, f.db.Create(&p).Error)
	}
	return tx
}

// Tag inserts a tag assigned to the given transactions.
func (f *Fixtures) Tag(name string, transactions ...uuid.UUID) model.Tag {
	f.t.Helper()
	tag := model.Tag{ID: uuid.New(), Name: name}
	require.NoError(f.t, f.db.Create(&tag).Error)
	for _, txID := range transactions {
		a := model.TagAssignment{ID: uuid.New(), TransactionID: txID, TagID: tag.ID}
		require.NoError(f.t, f.db.Create(&a).Error)
	}
	return tag
}

// Count returns the number of rows of m matching the optional condition.
func (f *Fixtures) Count(m any, query ...any) int64 {
	f.t.Helper()
	var n int64
	q := f.db.Model(m)
	if len(query) > 0 {
		q = q.Where(query[0], query[1:]...)
	}
	require.NoError(f.t, q.Count(&n).Error)
	return n
}
