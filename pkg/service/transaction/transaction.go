// Package transaction provides business logic for transactions and their
// per-account breakdowns.
//
// Writes that touch more than one row run inside a single unit of work, so a
// failing breakdown leaves no half-created transaction behind.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/feinledger/fein/pkg/access"
	"github.com/feinledger/fein/pkg/domain"
	domaintx "github.com/feinledger/fein/pkg/domain/transaction"
	"github.com/feinledger/fein/pkg/dto"
	"github.com/feinledger/fein/pkg/repository"
	repoaccount "github.com/feinledger/fein/pkg/repository/account"
	repotag "github.com/feinledger/fein/pkg/repository/tag"
	repotx "github.com/feinledger/fein/pkg/repository/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInput carries the fields of a new transaction.
type CreateInput struct {
	Name       string
	Amount     decimal.Decimal
	Date       *time.Time // defaults to now
	AccountID  uuid.UUID  // target account, must be reachable by the caller
	TagID      *uuid.UUID
	Breakdowns []domaintx.Breakdown
}

// Service provides business logic for transaction operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
	now    func() time.Time
}

// New creates a new Service with a UnitOfWork and logger.
func New(
	uow repository.UnitOfWork,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, logger: logger, now: time.Now}
}

// CreateTransaction stores a transaction, its optional tag assignment and
// its breakdowns, then writes the derived net amount back.
func (s *Service) CreateTransaction(
	ctx context.Context,
	who access.Identity,
	in CreateInput,
) (t *dto.TransactionRead, err error) {
	log := s.logger.With("context", "CreateTransaction", "userID", who.UserID)
	log.Debug("CreateTransaction called", "accountID", in.AccountID)

	in.Name = strings.TrimSpace(in.Name)
	if err := domaintx.ValidateName(in.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount("amount", in.Amount); err != nil {
		return nil, err
	}
	for _, b := range in.Breakdowns {
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}
	net := domaintx.NetAmount(in.Breakdowns)
	if err := domain.ValidateAmount("net amount", net); err != nil {
		return nil, err
	}
	date := s.now().UTC()
	if in.Date != nil {
		date = in.Date.UTC()
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := repository.Get[repoaccount.Repository](uow)
		if err != nil {
			return err
		}
		txs, err := repository.Get[repotx.Repository](uow)
		if err != nil {
			return err
		}
		breakdowns, err := repository.Get[repotx.BreakdownRepository](uow)
		if err != nil {
			return err
		}
		tags, err := repository.Get[repotag.Repository](uow)
		if err != nil {
			return err
		}

		if err := checkAccount(ctx, accounts, who, "target", in.AccountID); err != nil {
			return err
		}

		id := uuid.New()
		if err := txs.Create(ctx, dto.TransactionCreate{
			ID:        id,
			Name:      in.Name,
			Amount:    in.Amount,
			NetAmount: decimal.Zero,
			Date:      date,
		}); err != nil {
			return err
		}

		if in.TagID != nil {
			ok, err := tags.Accessible(ctx, who, *in.TagID)
			if err != nil {
				return err
			}
			if ok {
				if err := tags.Assign(ctx, dto.TagAssignmentCreate{
					ID:            uuid.New(),
					TransactionID: id,
					TagID:         *in.TagID,
				}); err != nil {
					return err
				}
			} else {
				log.Warn("skipping unresolvable tag", "tagID", *in.TagID)
			}
		}

		for _, b := range in.Breakdowns {
			if err := checkAccount(ctx, accounts, who, "breakdown", b.AccountID); err != nil {
				return err
			}
			if err := breakdowns.Create(ctx, dto.BreakdownCreate{
				ID:            uuid.New(),
				TransactionID: id,
				AccountID:     b.AccountID,
				EarnedAmount:  b.Earned,
				SpentAmount:   b.Spent,
			}); err != nil {
				return err
			}
		}
		if err := txs.SetNetAmount(ctx, id, net); err != nil {
			return err
		}
		t, err = txs.Get(ctx, access.Unrestricted, id)
		return err
	})
	if err != nil {
		log.Error("CreateTransaction failed", "error", err)
		return nil, err
	}
	log.Info("transaction created", "transactionID", t.ID, "netAmount", t.NetAmount)
	return t, nil
}

// ListTransactions returns the transactions reachable by the caller,
// newest first, placeholders excluded.
func (s *Service) ListTransactions(
	ctx context.Context,
	who access.Identity,
) ([]*dto.TransactionRead, error) {
	txs, err := repository.Get[repotx.Repository](s.uow)
	if err != nil {
		return nil, err
	}
	return txs.List(ctx, who)
}

// GetTransaction returns a transaction reachable by the caller.
func (s *Service) GetTransaction(
	ctx context.Context,
	who access.Identity,
	id uuid.UUID,
) (*dto.TransactionRead, error) {
	txs, err := repository.Get[repotx.Repository](s.uow)
	if err != nil {
		return nil, err
	}
	return txs.Get(ctx, who, id)
}

// UpdateTransaction applies the supplied fields of update.
func (s *Service) UpdateTransaction(
	ctx context.Context,
	who access.Identity,
	id uuid.UUID,
	update dto.TransactionUpdate,
) (t *dto.TransactionRead, err error) {
	log := s.logger.With("context", "UpdateTransaction", "userID", who.UserID, "transactionID", id)
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if err := domaintx.ValidateName(name); err != nil {
			return nil, err
		}
		update.Name = &name
	}
	if update.Amount != nil {
		if err := domain.ValidateAmount("amount", *update.Amount); err != nil {
			return nil, err
		}
	}
	if update.Date != nil {
		d := update.Date.UTC()
		update.Date = &d
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txs, err := repository.Get[repotx.Repository](uow)
		if err != nil {
			return err
		}
		if _, err := txs.Get(ctx, who, id); err != nil {
			return err
		}
		if err := txs.Update(ctx, id, update); err != nil {
			return err
		}
		t, err = txs.Get(ctx, access.Unrestricted, id)
		return err
	})
	if err != nil {
		log.Error("UpdateTransaction failed", "error", err)
		return nil, err
	}
	log.Info("transaction updated")
	return t, nil
}

// DeleteTransaction removes a transaction with its breakdowns and tag assignments.
func (s *Service) DeleteTransaction(
	ctx context.Context,
	who access.Identity,
	id uuid.UUID,
) error {
	log := s.logger.With("context", "DeleteTransaction", "userID", who.UserID, "transactionID", id)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txs, err := repository.Get[repotx.Repository](uow)
		if err != nil {
			return err
		}
		if _, err := txs.Get(ctx, who, id); err != nil {
			return err
		}
		return txs.Delete(ctx, id)
	})
	if err != nil {
		log.Error("DeleteTransaction failed", "error", err)
		return err
	}
	log.Info("transaction deleted")
	return nil
}

// ListBreakdowns returns the breakdowns of a transaction booked against
// accounts the caller owns.
func (s *Service) ListBreakdowns(
	ctx context.Context,
	who access.Identity,
	transactionID uuid.UUID,
) ([]*dto.BreakdownRead, error) {
	txs, err := repository.Get[repotx.Repository](s.uow)
	if err != nil {
		return nil, err
	}
	breakdowns, err := repository.Get[repotx.BreakdownRepository](s.uow)
	if err != nil {
		return nil, err
	}
	exists, err := txs.Exists(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, domain.ErrNotFound)
	}
	list, err := breakdowns.ListByTransaction(ctx, who, transactionID)
	if err != nil {
		return nil, err
	}
	if who.Scoped() && len(list) == 0 {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, domain.ErrAccessDenied)
	}
	return list, nil
}

// AddBreakdown books one more share of a reachable transaction and
// recomputes its net amount from every breakdown.
func (s *Service) AddBreakdown(
	ctx context.Context,
	who access.Identity,
	transactionID uuid.UUID,
	b domaintx.Breakdown,
) (t *dto.TransactionRead, err error) {
	log := s.logger.With("context", "AddBreakdown", "userID", who.UserID, "transactionID", transactionID)
	if err := b.Validate(); err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := repository.Get[repoaccount.Repository](uow)
		if err != nil {
			return err
		}
		txs, err := repository.Get[repotx.Repository](uow)
		if err != nil {
			return err
		}
		breakdowns, err := repository.Get[repotx.BreakdownRepository](uow)
		if err != nil {
			return err
		}
		if _, err := txs.Get(ctx, who, transactionID); err != nil {
			return err
		}
		if err := checkAccount(ctx, accounts, who, "breakdown", b.AccountID); err != nil {
			return err
		}
		if err := breakdowns.Create(ctx, dto.BreakdownCreate{
			ID:            uuid.New(),
			TransactionID: transactionID,
			AccountID:     b.AccountID,
			EarnedAmount:  b.Earned,
			SpentAmount:   b.Spent,
		}); err != nil {
			return err
		}
		all, err := breakdowns.ListByTransaction(ctx, access.Unrestricted, transactionID)
		if err != nil {
			return err
		}
		parts := make([]domaintx.Breakdown, 0, len(all))
		for _, row := range all {
			parts = append(parts, domaintx.Breakdown{Earned: row.EarnedAmount, Spent: row.SpentAmount})
		}
		net := domaintx.NetAmount(parts)
		if err := domain.ValidateAmount("net amount", net); err != nil {
			return err
		}
		if err := txs.SetNetAmount(ctx, transactionID, net); err != nil {
			return err
		}
		t, err = txs.Get(ctx, access.Unrestricted, transactionID)
		return err
	})
	if err != nil {
		log.Error("AddBreakdown failed", "error", err)
		return nil, err
	}
	log.Info("breakdown added", "accountID", b.AccountID, "netAmount", t.NetAmount)
	return t, nil
}

// checkAccount fails with ErrAccessDenied unless who owns the account, so
// standard callers cannot tell a foreign account from a missing one.
// Privileged callers only need the account to exist.
func checkAccount(
	ctx context.Context,
	accounts repoaccount.Repository,
	who access.Identity,
	role string,
	accountID uuid.UUID,
) error {
	a, err := accounts.Get(ctx, accountID)
	switch {
	case errors.Is(err, domain.ErrNotFound) && who.Scoped():
		return fmt.Errorf("%s account %s: %w", role, accountID, domain.ErrAccessDenied)
	case err != nil:
		return fmt.Errorf("%s account %s: %w", role, accountID, err)
	case who.Scoped() && a.UserID != who.UserID:
		return fmt.Errorf("%s account %s: %w", role, accountID, domain.ErrAccessDenied)
	}
	return nil
}
