// Package tag provides business logic for tags and their assignment to transactions.
package tag

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

// Service provides business logic for tag operations.
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

// CreateTag creates a tag and anchors it to the caller through a zero
// amount placeholder transaction booked on the caller's first account.
func (s *Service) CreateTag(
	ctx context.Context,
	who access.Identity,
	name string,
) (tag *dto.TagRead, err error) {
	log := s.logger.With("context", "CreateTag", "userID", who.UserID)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Validationf("tag name is required")
	}
	if err := domain.ValidateLength("tag name", name, domain.MaxTagNameLen); err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := repository.Get[repoaccount.Repository](uow)
		if err != nil {
			return err
		}
		tags, err := repository.Get[repotag.Repository](uow)
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

		first, err := accounts.FirstOwned(ctx, who.UserID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNoAccountAvailable
		}
		if err != nil {
			return err
		}

		tagID := uuid.New()
		if err := tags.Create(ctx, dto.TagCreate{ID: tagID, Name: name}); err != nil {
			return err
		}
		placeholderID := uuid.New()
		if err := txs.Create(ctx, dto.TransactionCreate{
			ID:        placeholderID,
			Name:      domaintx.PlaceholderName(tagID),
			Amount:    decimal.Zero,
			NetAmount: decimal.Zero,
			Date:      time.Now().UTC(),
		}); err != nil {
			return err
		}
		if err := breakdowns.Create(ctx, dto.BreakdownCreate{
			ID:            uuid.New(),
			TransactionID: placeholderID,
			AccountID:     first.ID,
			EarnedAmount:  decimal.Zero,
			SpentAmount:   decimal.Zero,
		}); err != nil {
			return err
		}
		if err := tags.Assign(ctx, dto.TagAssignmentCreate{
			ID:            uuid.New(),
			TransactionID: placeholderID,
			TagID:         tagID,
		}); err != nil {
			return err
		}
		tag = &dto.TagRead{ID: tagID, Name: name}
		return nil
	})
	if err != nil {
		log.Error("CreateTag failed", "error", err)
		return nil, err
	}
	log.Info("tag created", "tagID", tag.ID)
	return tag, nil
}

// ListTags returns the tags reachable by the caller.
func (s *Service) ListTags(
	ctx context.Context,
	who access.Identity,
) ([]*dto.TagRead, error) {
	tags, err := repository.Get[repotag.Repository](s.uow)
	if err != nil {
		return nil, err
	}
	return tags.List(ctx, who)
}

// AssignTag links a tag to a transaction.
func (s *Service) AssignTag(
	ctx context.Context,
	who access.Identity,
	transactionID, tagID uuid.UUID,
) (a *dto.TagAssignmentRead, err error) {
	log := s.logger.With("context", "AssignTag", "userID", who.UserID, "transactionID", transactionID, "tagID", tagID)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		tags, err := repository.Get[repotag.Repository](uow)
		if err != nil {
			return err
		}
		txs, err := repository.Get[repotx.Repository](uow)
		if err != nil {
			return err
		}
		if _, err := txs.Get(ctx, who, transactionID); err != nil {
			return fmt.Errorf("transaction %s: %w", transactionID, err)
		}
		ok, err := tags.Accessible(ctx, who, tagID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("tag %s: %w", tagID, domain.ErrNotFound)
		}
		assigned, err := tags.IsAssigned(ctx, transactionID, tagID)
		if err != nil {
			return err
		}
		if assigned {
			return domain.ErrAlreadyAssigned
		}
		create := dto.TagAssignmentCreate{ID: uuid.New(), TransactionID: transactionID, TagID: tagID}
		if err := tags.Assign(ctx, create); err != nil {
			return err
		}
		a = &dto.TagAssignmentRead{ID: create.ID, TransactionID: transactionID, TagID: tagID}
		return nil
	})
	if err != nil {
		log.Warn("AssignTag failed", "error", err)
		return nil, err
	}
	log.Info("tag assigned")
	return a, nil
}

// ListTagsForTransaction returns the tags assigned to a transaction.
// Callers that cannot reach the transaction get ErrAccessDenied.
func (s *Service) ListTagsForTransaction(
	ctx context.Context,
	who access.Identity,
	transactionID uuid.UUID,
) ([]*dto.TagRead, error) {
	tags, err := repository.Get[repotag.Repository](s.uow)
	if err != nil {
		return nil, err
	}
	if who.Scoped() {
		txs, err := repository.Get[repotx.Repository](s.uow)
		if err != nil {
			return nil, err
		}
		if _, err := txs.Get(ctx, who, transactionID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("transaction %s: %w", transactionID, domain.ErrAccessDenied)
			}
			return nil, err
		}
	}
	return tags.ListByTransaction(ctx, transactionID)
}
