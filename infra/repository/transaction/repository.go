package transaction

import (
	"context"

	"github.com/feinledger/fein/infra/repository/dberr"
	"github.com/feinledger/fein/infra/repository/model"
	"github.com/feinledger/fein/infra/repository/ownership"
	"github.com/feinledger/fein/pkg/access"
	"github.com/feinledger/fein/pkg/domain"
	"github.com/feinledger/fein/pkg/dto"
	repo "github.com/feinledger/fein/pkg/repository/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates a transaction repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Create implements transaction.Repository.
func (r *repository) Create(
	ctx context.Context,
	create dto.TransactionCreate,
) error {
	tx := model.Transaction{
		ID:        create.ID,
		Name:      create.Name,
		Amount:    create.Amount,
		NetAmount: create.NetAmount,
		Date:      create.Date,
	}
	return dberr.WrapError(func() error {
		return r.db.WithContext(ctx).Create(&tx).Error
	})
}

// Get implements transaction.Repository.
func (r *repository) Get(
	ctx context.Context,
	who access.Identity,
	id uuid.UUID,
) (*dto.TransactionRead, error) {
	var tx model.Transaction
	err := r.db.WithContext(ctx).
		Table("transactions t").
		Scopes(ownership.Transactions(who, "t")).
		Where("t.id = ?", id).
		Take(&tx).Error
	if err != nil {
		return nil, dberr.MapGormErrorToDomain(err)
	}
	return mapModelToDTO(&tx), nil
}

// Exists implements transaction.Repository.
func (r *repository) Exists(
	ctx context.Context,
	id uuid.UUID,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List implements transaction.Repository.
func (r *repository) List(
	ctx context.Context,
	who access.Identity,
) ([]*dto.TransactionRead, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).
		Table("transactions t").
		Scopes(
			ownership.Transactions(who, "t"),
			ownership.WithoutPlaceholders("t"),
		).
		Order("t.date DESC, t.created_at DESC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	result := make([]*dto.TransactionRead, 0, len(txs))
	for i := range txs {
		result = append(result, mapModelToDTO(&txs[i]))
	}
	return result, nil
}

// Update implements transaction.Repository.
func (r *repository) Update(
	ctx context.Context,
	id uuid.UUID,
	update dto.TransactionUpdate,
) error {
	updates := mapUpdateDTOToModel(update)
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&model.Transaction{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetNetAmount implements transaction.Repository.
func (r *repository) SetNetAmount(
	ctx context.Context,
	id uuid.UUID,
	net decimal.Decimal,
) error {
	res := r.db.WithContext(ctx).Model(&model.Transaction{}).Where("id = ?", id).Update("net_amount", net)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete implements transaction.Repository. Callers run it inside a unit of
// work so the dependent rows and the transaction go away together.
func (r *repository) Delete(
	ctx context.Context,
	id uuid.UUID,
) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("transaction_id = ?", id).Delete(&model.TagAssignment{}).Error; err != nil {
		return err
	}
	if err := db.Where("transaction_id = ?", id).Delete(&model.Breakdown{}).Error; err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&model.Transaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapUpdateDTOToModel(update dto.TransactionUpdate) map[string]any {
	updates := make(map[string]any)
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Amount != nil {
		updates["amount"] = *update.Amount
	}
	if update.Date != nil {
		updates["date"] = *update.Date
	}
	return updates
}

func mapModelToDTO(tx *model.Transaction) *dto.TransactionRead {
	return &dto.TransactionRead{
		ID:        tx.ID,
		Name:      tx.Name,
		Amount:    tx.Amount,
		NetAmount: tx.NetAmount,
		Date:      tx.Date,
	}
}

var _ repo.Repository = (*repository)(nil)
