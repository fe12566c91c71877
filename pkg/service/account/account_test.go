package account_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	infrarepo "github.com/feinledger/fein/infra/repository"
	"github.com/feinledger/fein/pkg/access"
	"github.com/feinledger/fein/pkg/domain"
	accountsvc "github.com/feinledger/fein/pkg/service/account"
	"github.com/feinledger/fein/pkg/testutils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndListAccounts(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewTestDB(t)
	fx := testutils.NewFixtures(t, db)
	alice := fx.User("alice@example.com")
	bob := fx.User("bob@example.com")
	fx.Account(bob.ID, "Bob Checking", "10")

	svc := accountsvc.New(infrarepo.NewUoW(db), slog.Default())
	who := access.Identity{UserID: alice.ID, Email: alice.Email}

	a, err := svc.CreateAccount(ctx, who, " Savings ", decimal.RequireFromString("250.75"))
	require.NoError(t, err)
	assert.Equal(t, "Savings", a.Name)
	assert.Equal(t, alice.ID, a.UserID)
	assert.True(t, a.Balance.Equal(decimal.RequireFromString("250.75")))

	mine, err := svc.ListAccounts(ctx, who)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a.ID, mine[0].ID)

	admin := access.Identity{UserID: bob.ID, Privileged: true}
	all, err := svc.ListAccounts(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateAccount_NameRequired(t *testing.T) {
	svc := accountsvc.New(infrarepo.NewUoW(testutils.NewTestDB(t)), slog.Default())
	_, err := svc.CreateAccount(context.Background(), access.Identity{}, "  ", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateAccount_RejectsValuesTheSchemaCannotHold(t *testing.T) {
	svc := accountsvc.New(infrarepo.NewUoW(testutils.NewTestDB(t)), slog.Default())
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, access.Identity{}, strings.Repeat("a", domain.MaxAccountNameLen+1), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateAccount(ctx, access.Identity{}, "Cash", decimal.RequireFromString("0.005"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListAllAccounts_AdminOnly(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewTestDB(t)
	fx := testutils.NewFixtures(t, db)
	u := fx.User("user@example.com")
	fx.Account(u.ID, "Main", "0")
	svc := accountsvc.New(infrarepo.NewUoW(db), slog.Default())

	_, err := svc.ListAllAccounts(ctx, access.Identity{UserID: u.ID})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	all, err := svc.ListAllAccounts(ctx, access.Identity{Privileged: true})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
