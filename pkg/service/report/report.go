// Package report computes read-only spending reports.
//
// Store failures never leak to callers: they are logged and replaced by
// domain.ErrReportFailure. Input problems still surface as validation errors.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/feinledger/fein/pkg/access"
	"github.com/feinledger/fein/pkg/domain"
	domainreport "github.com/feinledger/fein/pkg/domain/report"
	"github.com/feinledger/fein/pkg/dto"
	"github.com/feinledger/fein/pkg/repository"
	reporepo "github.com/feinledger/fein/pkg/repository/report"
	"github.com/shopspring/decimal"
)

// Service provides the reporting operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new Service with a UnitOfWork and logger.
func New(
	uow repository.UnitOfWork,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, logger: logger}
}

// TotalSpending sums the positive amounts of the caller's transactions.
func (s *Service) TotalSpending(
	ctx context.Context,
	who access.Identity,
) (decimal.Decimal, error) {
	repo, err := s.repo("TotalSpending")
	if err != nil {
		return decimal.Zero, err
	}
	total, err := repo.TotalSpending(ctx, who, nil)
	if err != nil {
		return decimal.Zero, s.fail("TotalSpending", who, err)
	}
	return total, nil
}

// SpendingByCategory sums positive amounts per assigned tag.
func (s *Service) SpendingByCategory(
	ctx context.Context,
	who access.Identity,
) ([]dto.CategorySpending, error) {
	repo, err := s.repo("SpendingByCategory")
	if err != nil {
		return nil, err
	}
	rows, err := repo.SpendingByCategory(ctx, who)
	if err != nil {
		return nil, s.fail("SpendingByCategory", who, err)
	}
	return rows, nil
}

// SpendingByDateRange sums positive amounts dated between start and end,
// both YYYY-MM-DD calendar days and both included.
func (s *Service) SpendingByDateRange(
	ctx context.Context,
	who access.Identity,
	start, end string,
) (*dto.RangeSpending, error) {
	r, err := domainreport.ParseDateRange(start, end)
	if err != nil {
		return nil, err
	}
	repo, err := s.repo("SpendingByDateRange")
	if err != nil {
		return nil, err
	}
	total, err := repo.TotalSpending(ctx, who, &r)
	if err != nil {
		return nil, s.fail("SpendingByDateRange", who, err)
	}
	return &dto.RangeSpending{StartDate: r.Start(), EndDate: r.End(), Total: total}, nil
}

// ExceedingTransactions lists breakdowns spending more than the running
// balance of their account. An empty accountName covers every account.
func (s *Service) ExceedingTransactions(
	ctx context.Context,
	who access.Identity,
	accountName string,
) ([]dto.ExceedingTransaction, error) {
	repo, err := s.repo("ExceedingTransactions")
	if err != nil {
		return nil, err
	}
	rows, err := repo.ExceedingTransactions(ctx, who, strings.TrimSpace(accountName))
	if err != nil {
		return nil, s.fail("ExceedingTransactions", who, err)
	}
	return rows, nil
}

// Summary composes the spending reports. The date range part is included
// when both start and end are given.
func (s *Service) Summary(
	ctx context.Context,
	who access.Identity,
	start, end string,
) (*dto.SpendingSummary, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if (start == "") != (end == "") {
		return nil, domain.Validationf("start_date and end_date must be given together")
	}
	var (
		summary dto.SpendingSummary
		err     error
	)
	if start != "" {
		if summary.SpendingByRange, err = s.SpendingByDateRange(ctx, who, start, end); err != nil {
			return nil, err
		}
	}
	if summary.TotalSpending, err = s.TotalSpending(ctx, who); err != nil {
		return nil, err
	}
	if summary.SpendingByCategory, err = s.SpendingByCategory(ctx, who); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *Service) repo(op string) (reporepo.Repository, error) {
	repo, err := repository.Get[reporepo.Repository](s.uow)
	if err != nil {
		s.logger.Error("report repository unavailable", "report", op, "error", err)
		return nil, fmt.Errorf("%w: %s", domain.ErrReportFailure, op)
	}
	return repo, nil
}

func (s *Service) fail(op string, who access.Identity, err error) error {
	if errors.Is(err, domain.ErrValidation) {
		return err
	}
	s.logger.Error("report failed", "report", op, "userID", who.UserID, "error", err)
	return fmt.Errorf("%w: %s", domain.ErrReportFailure, op)
}
