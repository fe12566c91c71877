package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/feinledger/fein/infra/repository/report"
	"github.com/feinledger/fein/pkg/access"
	domainreport "github.com/feinledger/fein/pkg/domain/report"
	"github.com/feinledger/fein/pkg/testutils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTotalSpending(t *testing.T) {
	db := testutils.NewTestDB(t)
	f := testutils.NewFixtures(t, db)
	repo := report.New(db)
	ctx := context.Background()

	alice := f.User("alice@x.com")
	bob := f.User("bob@x.com")
	aliceCash := f.Account(alice.ID, "Cash", "0")
	bobCash := f.Account(bob.ID, "Cash", "0")

	f.Transaction("Coffee", "4.50", testutils.Day(2024, 1, 2), testutils.Spend(aliceCash.ID, "4.50"))
	f.Transaction("Lunch", "12.25", testutils.Day(2024, 1, 20), testutils.Spend(aliceCash.ID, "12.25"))
	f.Transaction("Refund", "-3", testutils.Day(2024, 1, 21), testutils.Earn(aliceCash.ID, "3"))
	f.Transaction("Rent", "900", testutils.Day(2024, 1, 3), testutils.Spend(bobCash.ID, "900"))

	total, err := repo.TotalSpending(ctx, access.Identity{UserID: alice.ID}, nil)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("16.75")), "got %s", total)

	total, err = repo.TotalSpending(ctx, access.Identity{UserID: bob.ID, Email: "admin@fein.com", Privileged: true}, nil)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("916.75")), "got %s", total)

	empty := f.User("carol@x.com")
	total, err = repo.TotalSpending(ctx, access.Identity{UserID: empty.ID}, nil)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestTotalSpending_DateRangeIncludesWholeEndDay(t *testing.T) {
	db := testutils.NewTestDB(t)
	f := testutils.NewFixtures(t, db)
	repo := report.New(db)

	alice := f.User("alice@x.com")
	cash := f.Account(alice.ID, "Cash", "0")
	f.Transaction("Before", "1", testutils.Day(2023, 12, 31), testutils.Spend(cash.ID, "1"))
	f.Transaction("First", "2", testutils.Day(2024, 1, 1), testutils.Spend(cash.ID, "2"))
	f.Transaction("Late", "4", testutils.Day(2024, 1, 31).Add(23*time.Hour), testutils.Spend(cash.ID, "4"))
	f.Transaction("After", "8", testutils.Day(2024, 2, 1), testutils.Spend(cash.ID, "8"))

	within, err := domainreport.ParseDateRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)

	total, err := repo.TotalSpending(context.Background(), access.Identity{UserID: alice.ID}, &within)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("6")), "got %s", total)
}

func TestSpendingByCategory(t *testing.T) {
	db := testutils.NewTestDB(t)
	f := testutils.NewFixtures(t, db)
	repo := report.New(db)

	alice := f.User("alice@x.com")
	bob := f.User("bob@x.com")
	aliceCash := f.Account(alice.ID, "Cash", "0")
	bobCash := f.Account(bob.ID, "Cash", "0")

	coffee := f.Transaction("Coffee", "4.50", testutils.Day(2024, 1, 2), testutils.Spend(aliceCash.ID, "4.50"))
	dinner := f.Transaction("Dinner", "40", testutils.Day(2024, 1, 3), testutils.Spend(aliceCash.ID, "40"))
	refund := f.Transaction("Refund", "-10", testutils.Day(2024, 1, 4), testutils.Earn(aliceCash.ID, "10"))
	rent := f.Transaction("Rent", "900", testutils.Day(2024, 1, 4), testutils.Spend(bobCash.ID, "900"))

	f.Tag("food", coffee.ID, dinner.ID, refund.ID)
	f.Tag("social", dinner.ID)
	f.Tag("housing", rent.ID)

	rows, err := repo.SpendingByCategory(context.Background(), access.Identity{UserID: alice.ID})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "food", rows[0].Category)
	assert.True(t, rows[0].Total.Equal(dec("44.50")), "got %s", rows[0].Total)
	assert.Equal(t, "social", rows[1].Category)
	assert.True(t, rows[1].Total.Equal(dec("40")), "got %s", rows[1].Total)

	rows, err = repo.SpendingByCategory(context.Background(), access.Unrestricted)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestExceedingTransactions_RunningBalance(t *testing.T) {
	db := testutils.NewTestDB(t)
	f := testutils.NewFixtures(t, db)
	repo := report.New(db)

	alice := f.User("alice@x.com")
	checking := f.Account(alice.ID, "Checking", "0")
	savings := f.Account(alice.ID, "Savings", "0")

	// running balances 100, 150, 50
	f.Transaction("Salary", "-100", testutils.Day(2024, 1, 1), testutils.Earn(checking.ID, "100"))
	f.Transaction("Bonus", "-50", testutils.Day(2024, 1, 2), testutils.Earn(checking.ID, "50"))
	f.Transaction("Groceries", "100", testutils.Day(2024, 1, 3), testutils.Spend(checking.ID, "100"))
	tv := f.Transaction("TV", "120", testutils.Day(2024, 1, 4), testutils.Spend(checking.ID, "120"))

	f.Transaction("Deposit", "-50", testutils.Day(2024, 1, 1), testutils.Earn(savings.ID, "50"))
	f.Transaction("Books", "40", testutils.Day(2024, 1, 2), testutils.Spend(savings.ID, "40"))

	rows, err := repo.ExceedingTransactions(context.Background(), access.Identity{UserID: alice.ID}, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, tv.ID, row.TransactionID)
	assert.Equal(t, "Checking", row.AccountName)
	assert.Equal(t, "alice@x.com", row.UserEmail)
	assert.True(t, row.SpentAmount.Equal(dec("120")))
	assert.True(t, row.RunningBalance.Equal(dec("50")), "got %s", row.RunningBalance)
	assert.True(t, testutils.Day(2024, 1, 4).Equal(row.Date))
}

func TestExceedingTransactions_FirstSpendAgainstEmptyAccount(t *testing.T) {
	db := testutils.NewTestDB(t)
	f := testutils.NewFixtures(t, db)
	repo := report.New(db)

	alice := f.User("alice@x.com")
	cash := f.Account(alice.ID, "Cash", "0")
	coffee := f.Transaction("Coffee", "4.50", testutils.Day(2024, 1, 2), testutils.Spend(cash.ID, "4.50"))
	f.Transaction("Zero", "0", testutils.Day(2024, 1, 3), testutils.Spend(cash.ID, "0"))

	rows, err := repo.ExceedingTransactions(context.Background(), access.Identity{UserID: alice.ID}, "")
	require.NoError(t, err)
	require.Len(t, rows, 1, "zero spends are never flagged")
	assert.Equal(t, coffee.ID, rows[0].TransactionID)
	assert.True(t, rows[0].RunningBalance.IsZero())
}

func TestExceedingTransactions_ScopeFilterAndOrder(t *testing.T) {
	db := testutils.NewTestDB(t)
	f := testutils.NewFixtures(t, db)
	repo := report.New(db)

	alice := f.User("alice@x.com")
	bob := f.User("bob@x.com")
	aliceCash := f.Account(alice.ID, "Cash", "0")
	aliceCard := f.Account(alice.ID, "Card", "0")
	bobCash := f.Account(bob.ID, "Cash", "0")

	a1 := f.Transaction("A1", "5", testutils.Day(2024, 1, 1), testutils.Spend(aliceCash.ID, "5"))
	a2 := f.Transaction("A2", "6", testutils.Day(2024, 1, 5), testutils.Spend(aliceCash.ID, "6"))
	a3 := f.Transaction("A3", "7", testutils.Day(2024, 1, 3), testutils.Spend(aliceCard.ID, "7"))
	b1 := f.Transaction("B1", "8", testutils.Day(2024, 1, 2), testutils.Spend(bobCash.ID, "8"))

	rows, err := repo.ExceedingTransactions(context.Background(), access.Identity{UserID: alice.ID}, "")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, a3.ID, rows[0].TransactionID, "Card sorts before Cash")
	assert.Equal(t, a2.ID, rows[1].TransactionID, "latest first within an account")
	assert.Equal(t, a1.ID, rows[2].TransactionID)

	rows, err = repo.ExceedingTransactions(context.Background(), access.Identity{UserID: alice.ID}, "Card")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, a3.ID, rows[0].TransactionID)

	rows, err = repo.ExceedingTransactions(context.Background(), access.Unrestricted, "Cash")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, a2.ID, rows[0].TransactionID, "alice sorts before bob")
	assert.Equal(t, a1.ID, rows[1].TransactionID)
	assert.Equal(t, b1.ID, rows[2].TransactionID)
}

func TestReports_SumsKeepCentPrecision(t *testing.T) {
	db := testutils.NewTestDB(t)
	f := testutils.NewFixtures(t, db)
	repo := report.New(db)
	ctx := context.Background()

	alice := f.User("alice@x.com")
	cash := f.Account(alice.ID, "Cash", "0")
	dime := f.Transaction("Dime", "0.10", testutils.Day(2024, 1, 1), testutils.Spend(cash.ID, "0.10"))
	twenty := f.Transaction("Twenty", "0.20", testutils.Day(2024, 1, 2), testutils.Spend(cash.ID, "0.20"))
	f.Tag("Change", dime.ID, twenty.ID)
	who := access.Identity{UserID: alice.ID}

	total, err := repo.TotalSpending(ctx, who, nil)
	require.NoError(t, err)
	assert.Equal(t, "0.3", total.String())

	byCategory, err := repo.SpendingByCategory(ctx, who)
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "0.3", byCategory[0].Total.String())
}

func TestExceedingTransactions_RunningBalanceIsExactInCents(t *testing.T) {
	db := testutils.NewTestDB(t)
	f := testutils.NewFixtures(t, db)
	repo := report.New(db)

	alice := f.User("alice@x.com")
	cash := f.Account(alice.ID, "Cash", "0")
	f.Transaction("Seventy", "-0.70", testutils.Day(2024, 1, 1), testutils.Earn(cash.ID, "0.70"))
	f.Transaction("Ten", "-0.10", testutils.Day(2024, 1, 2), testutils.Earn(cash.ID, "0.10"))
	f.Transaction("Exact", "0.80", testutils.Day(2024, 1, 3), testutils.Spend(cash.ID, "0.80"))

	rows, err := repo.ExceedingTransactions(context.Background(), access.Identity{UserID: alice.ID}, "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
