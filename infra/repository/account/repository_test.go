package account_test

import (
	"context"
	"testing"

	"github.com/feinledger/fein/infra/repository/account"
	"github.com/feinledger/fein/pkg/access"
	"github.com/feinledger/fein/pkg/domain"
	"github.com/feinledger/fein/pkg/dto"
	"github.com/feinledger/fein/pkg/testutils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_CreateAndList(t *testing.T) {
	db := testutils.NewTestDB(t)
	f := testutils.NewFixtures(t, db)
	repo := account.New(db)
	ctx := context.Background()

	alice := f.User("alice@x.com")
	bob := f.User("bob@x.com")
	f.Account(bob.ID, "Savings", "10")

	id := uuid.New()
	require.NoError(t, repo.Create(ctx, dto.AccountCreate{
		ID:      id,
		UserID:  alice.ID,
		Name:    "Checking",
		Balance: decimal.RequireFromString("500.00"),
	}))

	accounts, err := repo.List(ctx, access.Identity{UserID: alice.ID})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, id, accounts[0].ID)
	assert.Equal(t, alice.ID, accounts[0].UserID)
	assert.True(t, accounts[0].Balance.Equal(decimal.RequireFromString("500.00")))

	all, err := repo.List(ctx, access.Unrestricted)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepository_CreateRequiresOwner(t *testing.T) {
	db := testutils.NewTestDB(t)
	repo := account.New(db)

	err := repo.Create(context.Background(), dto.AccountCreate{ID: uuid.New(), UserID: uuid.New(), Name: "Ghost"})
	assert.Error(t, err)
}

func TestRepository_FirstOwned(t *testing.T) {
	db := testutils.NewTestDB(t)
	f := testutils.NewFixtures(t, db)
	repo := account.New(db)
	ctx := context.Background()

	alice := f.User("alice@x.com")
	_, err := repo.FirstOwned(ctx, alice.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	first := f.Account(alice.ID, "Cash", "0")
	f.Account(alice.ID, "Card", "0")

	got, err := repo.FirstOwned(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
