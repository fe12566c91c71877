// Package account provides business logic for creating and listing accounts.
package account

import (
	"context"
	"log/slog"
	"strings"

	"github.com/feinledger/fein/pkg/access"
	"github.com/feinledger/fein/pkg/domain"
	"github.com/feinledger/fein/pkg/dto"
	"github.com/feinledger/fein/pkg/repository"
	repoaccount "github.com/feinledger/fein/pkg/repository/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service provides business logic for account operations.
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

// CreateAccount creates an account owned by the caller.
func (s *Service) CreateAccount(
	ctx context.Context,
	who access.Identity,
	name string,
	balance decimal.Decimal,
) (a *dto.AccountRead, err error) {
	log := s.logger.With("context", "CreateAccount", "userID", who.UserID)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Validationf("account name is required")
	}
	if err := domain.ValidateLength("account name", name, domain.MaxAccountNameLen); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount("balance", balance); err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[repoaccount.Repository](uow)
		if err != nil {
			return err
		}
		id := uuid.New()
		if err := repo.Create(ctx, dto.AccountCreate{
			ID:      id,
			UserID:  who.UserID,
			Name:    name,
			Balance: balance,
		}); err != nil {
			return err
		}
		a, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		log.Error("CreateAccount failed", "error", err)
		return nil, err
	}
	log.Info("account created", "accountID", a.ID)
	return a, nil
}

// ListAccounts returns the caller's accounts, or every account for an admin.
func (s *Service) ListAccounts(
	ctx context.Context,
	who access.Identity,
) ([]*dto.AccountRead, error) {
	repo, err := repository.Get[repoaccount.Repository](s.uow)
	if err != nil {
		return nil, err
	}
	return repo.List(ctx, who)
}

// ListAllAccounts returns every account and is reserved to admins.
func (s *Service) ListAllAccounts(
	ctx context.Context,
	who access.Identity,
) ([]*dto.AccountRead, error) {
	if !who.Privileged {
		s.logger.Warn("ListAllAccounts denied", "userID", who.UserID)
		return nil, domain.ErrAccessDenied
	}
	return s.ListAccounts(ctx, who)
}
