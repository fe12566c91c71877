package report_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	infrarepo "github.com/feinledger/fein/infra/repository"
	"github.com/feinledger/fein/pkg/access"
	"github.com/feinledger/fein/pkg/domain"
	domainreport "github.com/feinledger/fein/pkg/domain/report"
	"github.com/feinledger/fein/pkg/dto"
	"github.com/feinledger/fein/pkg/repository"
	reporepo "github.com/feinledger/fein/pkg/repository/report"
	reportsvc "github.com/feinledger/fein/pkg/service/report"
	"github.com/feinledger/fein/pkg/testutils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seeded(t *testing.T) (*reportsvc.Service, access.Identity) {
	t.Helper()
	db := testutils.NewTestDB(t)
	fx := testutils.NewFixtures(t, db)
	u := fx.User("alice@example.com")
	acct := fx.Account(u.ID, "Main", "0")

	jan := fx.Transaction("Rent", "100", testutils.Day(2024, 1, 10), testutils.Earn(acct.ID, "100"))
	feb := fx.Transaction("Groceries", "150", testutils.Day(2024, 2, 10), testutils.Spend(acct.ID, "150"))
	fx.Transaction("Refund", "-20", testutils.Day(2024, 2, 11), testutils.Earn(acct.ID, "20"))
	fx.Tag("Home", jan.ID, feb.ID)
	fx.Tag("Food", feb.ID)

	return reportsvc.New(infrarepo.NewUoW(db), slog.Default()), access.Identity{UserID: u.ID, Email: u.Email}
}

func TestSpendingReports(t *testing.T) {
	ctx := context.Background()
	svc, who := seeded(t)

	total, err := svc.TotalSpending(ctx, who)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("250")), "total %s", total)

	byCategory, err := svc.SpendingByCategory(ctx, who)
	require.NoError(t, err)
	require.Len(t, byCategory, 2)
	assert.Equal(t, "Food", byCategory[0].Category)
	assert.True(t, byCategory[0].Total.Equal(dec("150")))
	assert.Equal(t, "Home", byCategory[1].Category)
	assert.True(t, byCategory[1].Total.Equal(dec("250")))

	feb, err := svc.SpendingByDateRange(ctx, who, "2024-02-01", "2024-02-10")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", feb.StartDate)
	assert.Equal(t, "2024-02-10", feb.EndDate)
	assert.True(t, feb.Total.Equal(dec("150")), "end day is included")
}

func TestSpendingByDateRange_Validation(t *testing.T) {
	ctx := context.Background()
	svc, who := seeded(t)

	_, err := svc.SpendingByDateRange(ctx, who, "2024-13-01", "2024-12-31")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.SpendingByDateRange(ctx, who, "2024-03-01", "2024-02-01")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	svc, who := seeded(t)

	summary, err := svc.Summary(ctx, who, "", "")
	require.NoError(t, err)
	assert.Nil(t, summary.SpendingByRange)
	assert.True(t, summary.TotalSpending.Equal(dec("250")))
	assert.Len(t, summary.SpendingByCategory, 2)

	summary, err = svc.Summary(ctx, who, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.NotNil(t, summary.SpendingByRange)
	assert.True(t, summary.SpendingByRange.Total.Equal(dec("100")))

	_, err = svc.Summary(ctx, who, "2024-01-01", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExceedingTransactions(t *testing.T) {
	ctx := context.Background()
	svc, who := seeded(t)

	rows, err := svc.ExceedingTransactions(ctx, who, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Groceries", rows[0].TransactionName)
	assert.True(t, rows[0].RunningBalance.Equal(dec("100")))

	rows, err = svc.ExceedingTransactions(ctx, who, "Nope")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSummaryPDF(t *testing.T) {
	svc, who := seeded(t)
	doc, err := svc.SummaryPDF(context.Background(), who, "2024-01-01", "2024-12-31")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
}

func TestRenderPDF_ManyRows(t *testing.T) {
	rows := make([]dto.ExceedingTransaction, 250)
	for i := range rows {
		rows[i] = dto.ExceedingTransaction{
			AccountName:     "Main",
			TransactionName: fmt.Sprintf("Purchase %d with a rather long descriptive name", i),
			Date:            time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			SpentAmount:     dec("10"),
			RunningBalance:  dec("-5"),
		}
	}
	doc, err := reportsvc.RenderPDF("", &dto.SpendingSummary{}, rows, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}

type mockReportRepository struct {
	mock.Mock
}

func (m *mockReportRepository) TotalSpending(ctx context.Context, who access.Identity, within *domainreport.DateRange) (decimal.Decimal, error) {
	args := m.Called(ctx, who, within)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockReportRepository) SpendingByCategory(ctx context.Context, who access.Identity) ([]dto.CategorySpending, error) {
	args := m.Called(ctx, who)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.CategorySpending), args.Error(1)
}

func (m *mockReportRepository) ExceedingTransactions(ctx context.Context, who access.Identity, accountName string) ([]dto.ExceedingTransaction, error) {
	args := m.Called(ctx, who, accountName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.ExceedingTransaction), args.Error(1)
}

// stubUoW hands out a single repository.
type stubUoW struct {
	repo reporepo.Repository
}

func (u *stubUoW) Do(ctx context.Context, fn func(repository.UnitOfWork) error) error {
	return fn(u)
}

func (u *stubUoW) GetRepository(any) (any, error) {
	return u.repo, nil
}

func TestStoreErrorsBecomeReportFailure(t *testing.T) {
	ctx := context.Background()
	who := access.Identity{}
	storeErr := errors.New("connection reset by peer")

	repo := &mockReportRepository{}
	repo.On("TotalSpending", mock.Anything, who, mock.Anything).Return(decimal.Zero, storeErr)
	repo.On("SpendingByCategory", mock.Anything, who).Return(nil, storeErr)
	repo.On("ExceedingTransactions", mock.Anything, who, "Main").Return(nil, storeErr)
	svc := reportsvc.New(&stubUoW{repo: repo}, slog.Default())

	_, err := svc.TotalSpending(ctx, who)
	assert.ErrorIs(t, err, domain.ErrReportFailure)
	assert.NotErrorIs(t, err, storeErr)

	_, err = svc.SpendingByCategory(ctx, who)
	assert.ErrorIs(t, err, domain.ErrReportFailure)

	_, err = svc.SpendingByDateRange(ctx, who, "2024-01-01", "2024-01-02")
	assert.ErrorIs(t, err, domain.ErrReportFailure)

	_, err = svc.ExceedingTransactions(ctx, who, " Main ")
	assert.ErrorIs(t, err, domain.ErrReportFailure)

	_, err = svc.Summary(ctx, who, "", "")
	assert.ErrorIs(t, err, domain.ErrReportFailure)

	repo.AssertExpectations(t)
}

func TestValidationIsNotMaskedAsReportFailure(t *testing.T) {
	repo := &mockReportRepository{}
	svc := reportsvc.New(&stubUoW{repo: repo}, slog.Default())

	_, err := svc.SpendingByDateRange(context.Background(), access.Identity{}, "yesterday", "today")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NotErrorIs(t, err, domain.ErrReportFailure)
	repo.AssertNotCalled(t, "TotalSpending", mock.Anything, mock.Anything, mock.Anything)
}
