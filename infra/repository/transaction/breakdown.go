package transaction

import (
	"context"

	"github.com/feinledger/fein/infra/repository/dberr"
	"github.com/feinledger/fein/infra/repository/model"
	"github.com/feinledger/fein/infra/repository/ownership"
	"github.com/feinledger/fein/pkg/access"
	"github.com/feinledger/fein/pkg/dto"
	repo "github.com/feinledger/fein/pkg/repository/transaction"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type breakdownRepository struct {
	db *gorm.DB
}

// NewBreakdown creates a breakdown repository using the provided *gorm.DB.
func NewBreakdown(db *gorm.DB) repo.BreakdownRepository {
	return &breakdownRepository{db: db}
}

// Create implements transaction.BreakdownRepository.
func (r *breakdownRepository) Create(ctx context.Context, create dto.BreakdownCreate) error {
	b := model.Breakdown{
		ID:            create.ID,
		TransactionID: create.TransactionID,
		AccountID:     create.AccountID,
		EarnedAmount:  create.EarnedAmount,
		SpentAmount:   create.SpentAmount,
	}
	return dberr.WrapError(func() error {
		return r.db.WithContext(ctx).Create(&b).Error
	})
}

// ListByTransaction implements transaction.BreakdownRepository.
func (r *breakdownRepository) ListByTransaction(
	ctx context.Context,
	who access.Identity,
	transactionID uuid.UUID,
) ([]*dto.BreakdownRead, error) {
	var rows []model.Breakdown
	err := r.db.WithContext(ctx).
		Table("breakdowns b").
		Scopes(ownership.Breakdowns(who, "b")).
		Where("b.transaction_id = ?", transactionID).
		Order("b.created_at, b.id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make([]*dto.BreakdownRead, 0, len(rows))
	for i := range rows {
		result = append(result, &dto.BreakdownRead{
			ID:            rows[i].ID,
			TransactionID: rows[i].TransactionID,
			AccountID:     rows[i].AccountID,
			EarnedAmount:  rows[i].EarnedAmount,
			SpentAmount:   rows[i].SpentAmount,
			CreatedAt:     rows[i].CreatedAt,
		})
	}
	return result, nil
}

var _ repo.BreakdownRepository = (*breakdownRepository)(nil)
