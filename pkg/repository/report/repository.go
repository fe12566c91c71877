package report

import (
	"context"

	"github.com/feinledger/fein/pkg/access"
	domainreport "github.com/feinledger/fein/pkg/domain/report"
	"github.com/feinledger/fein/pkg/dto"
	"github.com/shopspring/decimal"
)

// Repository defines the read-only aggregate queries behind reports.
type Repository interface {
	// TotalSpending sums the positive transaction amounts visible to who,
	// optionally restricted to a date range.
	TotalSpending(ctx context.Context, who access.Identity, within *domainreport.DateRange) (decimal.Decimal, error)

	// SpendingByCategory sums positive amounts per assigned tag name.
	SpendingByCategory(ctx context.Context, who access.Identity) ([]dto.CategorySpending, error)

	// ExceedingTransactions lists breakdowns that spend more than the running
	// balance of their account. An empty accountName matches every account.
	ExceedingTransactions(ctx context.Context, who access.Identity, accountName string) ([]dto.ExceedingTransaction, error)
}
