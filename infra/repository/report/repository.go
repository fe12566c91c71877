package report

import (
	"context"

	"github.com/feinledger/fein/infra/repository/ownership"
	"github.com/feinledger/fein/pkg/access"
	domainreport "github.com/feinledger/fein/pkg/domain/report"
	"github.com/feinledger/fein/pkg/dto"
	repo "github.com/feinledger/fein/pkg/repository/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// runningBalanceSQL computes, for every breakdown, the balance of its
// account accumulated over the breakdowns booked strictly before it.
// Sums are rounded to the column scale because SQLite adds numerics as floats.
const runningBalanceSQL = `SELECT
	u.id AS user_id,
	u.email AS user_email,
	a.id AS account_id,
	a.name AS account_name,
	t.id AS transaction_id,
	t.name AS transaction_name,
	t.date AS date,
	b.earned_amount AS earned_amount,
	b.spent_amount AS spent_amount,
	ROUND(COALESCE(SUM(b.earned_amount - b.spent_amount) OVER (
		PARTITION BY b.account_id
		ORDER BY t.date, b.created_at, b.id
		ROWS BETWEEN UNBOUNDED PRECEDING AND 1 PRECEDING
	), 0), 2) AS running_balance
FROM breakdowns b
JOIN transactions t ON t.id = b.transaction_id
JOIN accounts a ON a.id = b.account_id
JOIN users u ON u.id = a.user_id`

type repository struct {
	db *gorm.DB
}

// New creates a report repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

type totalRow struct {
	Total decimal.NullDecimal
}

// TotalSpending implements report.Repository.
func (r *repository) TotalSpending(
	ctx context.Context,
	who access.Identity,
	within *domainreport.DateRange,
) (decimal.Decimal, error) {
	var row totalRow
	q := r.db.WithContext(ctx).
		Table("transactions t").
		Select("ROUND(SUM(t.amount), 2) AS total").
		Scopes(ownership.Transactions(who, "t")).
		Where("t.amount > 0")
	if within != nil {
		q = q.Where("t.date >= ? AND t.date < ?", within.From, within.Until)
	}
	if err := q.Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal.Round(2), nil
}

type categoryRow struct {
	Category string
	Total    decimal.Decimal
}

// SpendingByCategory implements report.Repository.
func (r *repository) SpendingByCategory(
	ctx context.Context,
	who access.Identity,
) ([]dto.CategorySpending, error) {
	var rows []categoryRow
	err := r.db.WithContext(ctx).
		Table("transactions t").
		Select("tg.name AS category, ROUND(SUM(t.amount), 2) AS total").
		Joins("JOIN tag_assignments ta ON ta.transaction_id = t.id").
		Joins("JOIN tags tg ON tg.id = ta.tag_id").
		Scopes(ownership.Transactions(who, "t")).
		Where("t.amount > 0").
		Group("tg.name").
		Order("tg.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategorySpending, 0, len(rows))
	for _, row := range rows {
		result = append(result, dto.CategorySpending{Category: row.Category, Total: row.Total.Round(2)})
	}
	return result, nil
}

type exceedingRow struct {
	UserID          uuid.UUID
	UserEmail       string
	AccountID       uuid.UUID
	AccountName     string
	TransactionID   uuid.UUID
	TransactionName string
	Date            timestamp
	EarnedAmount    decimal.Decimal
	SpentAmount     decimal.Decimal
	RunningBalance  decimal.Decimal
}

// ExceedingTransactions implements report.Repository.
func (r *repository) ExceedingTransactions(
	ctx context.Context,
	who access.Identity,
	accountName string,
) ([]dto.ExceedingTransaction, error) {
	db := r.db.WithContext(ctx)
	balances := db.Raw(runningBalanceSQL)
	if who.Scoped() {
		balances = db.Raw(runningBalanceSQL+" WHERE a.user_id = ?", who.UserID)
	}

	q := db.Table("(?) AS rb", balances).
		Where("rb.spent_amount > 0 AND rb.spent_amount > rb.running_balance")
	if accountName != "" {
		q = q.Where("rb.account_name = ?", accountName)
	}

	var rows []exceedingRow
	err := q.Order("rb.user_email, rb.user_id, rb.account_name, rb.date DESC").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make([]dto.ExceedingTransaction, 0, len(rows))
	for _, row := range rows {
		result = append(result, dto.ExceedingTransaction{
			UserID:          row.UserID,
			UserEmail:       row.UserEmail,
			AccountID:       row.AccountID,
			AccountName:     row.AccountName,
			TransactionID:   row.TransactionID,
			TransactionName: row.TransactionName,
			Date:            row.Date.Time,
			EarnedAmount:    row.EarnedAmount,
			SpentAmount:     row.SpentAmount,
			RunningBalance:  row.RunningBalance.Round(2),
		})
	}
	return result, nil
}

var _ repo.Repository = (*repository)(nil)
