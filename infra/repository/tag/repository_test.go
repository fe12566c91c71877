package tag_test

import (
	"context"
	"testing"

	"github.com/feinledger/fein/infra/repository/tag"
	"github.com/feinledger/fein/pkg/access"
	"github.com/feinledger/fein/pkg/domain"
	"github.com/feinledger/fein/pkg/dto"
	"github.com/feinledger/fein/pkg/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_ListIsScopedAndDistinct(t *testing.T) {
	db := testutils.NewTestDB(t)
	f := testutils.NewFixtures(t, db)
	repo := tag.New(db)

	alice := f.User("alice@x.com")
	bob := f.User("bob@x.com")
	aliceCash := f.Account(alice.ID, "Cash", "0")
	aliceCard := f.Account(alice.ID, "Card", "0")
	bobCash := f.Account(bob.ID, "Cash", "0")

	split := f.Transaction("Dinner", "20", testutils.Day(2024, 1, 2),
		testutils.Spend(aliceCash.ID, "10"), testutils.Spend(aliceCard.ID, "10"))
	rent := f.Transaction("Rent", "900", testutils.Day(2024, 1, 3), testutils.Spend(bobCash.ID, "900"))
	f.Tag("food", split.ID)
	f.Tag("housing", rent.ID)
	f.Tag("unused")

	tags, err := repo.List(context.Background(), access.Identity{UserID: alice.ID})
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "food", tags[0].Name)

	tags, err = repo.List(context.Background(), access.Unrestricted)
	require.NoError(t, err)
	assert.Len(t, tags, 3)
}

func TestRepository_AccessibleAndAssign(t *testing.T) {
	db := testutils.NewTestDB(t)
	f := testutils.NewFixtures(t, db)
	repo := tag.New(db)
	ctx := context.Background()

	alice := f.User("alice@x.com")
	bob := f.User("bob@x.com")
	aliceCash := f.Account(alice.ID, "Cash", "0")
	bobCash := f.Account(bob.ID, "Cash", "0")
	coffee := f.Transaction("Coffee", "4", testutils.Day(2024, 1, 2), testutils.Spend(aliceCash.ID, "4"))
	rent := f.Transaction("Rent", "900", testutils.Day(2024, 1, 3), testutils.Spend(bobCash.ID, "900"))
	housing := f.Tag("housing", rent.ID)
	misc := f.Tag("misc")

	aliceID := access.Identity{UserID: alice.ID}
	ok, err := repo.Accessible(ctx, aliceID, housing.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Accessible(ctx, aliceID, misc.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Accessible(ctx, access.Unrestricted, housing.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Accessible(ctx, access.Unrestricted, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)

	assign := dto.TagAssignmentCreate{ID: uuid.New(), TransactionID: coffee.ID, TagID: misc.ID}
	require.NoError(t, repo.Assign(ctx, assign))

	assigned, err := repo.IsAssigned(ctx, coffee.ID, misc.ID)
	require.NoError(t, err)
	assert.True(t, assigned)

	assign.ID = uuid.New()
	assert.ErrorIs(t, repo.Assign(ctx, assign), domain.ErrAlreadyAssigned)

	tags, err := repo.ListByTransaction(ctx, coffee.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, misc.ID, tags[0].ID)
}
