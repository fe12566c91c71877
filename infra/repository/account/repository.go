package account

import (
	"context"

	"github.com/feinledger/fein/infra/repository/dberr"
	"github.com/feinledger/fein/infra/repository/model"
	"github.com/feinledger/fein/infra/repository/ownership"
	"github.com/feinledger/fein/pkg/access"
	"github.com/feinledger/fein/pkg/dto"
	repo "github.com/feinledger/fein/pkg/repository/account"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates an account repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Create implements account.Repository.
func (r *repository) Create(ctx context.Context, create dto.AccountCreate) error {
	acct := model.Account{
		ID:      create.ID,
		Name:    create.Name,
		Balance: create.Balance,
		UserID:  create.UserID,
	}
	return dberr.WrapError(func() error {
		return r.db.WithContext(ctx).Create(&acct).Error
	})
}

// Get implements account.Repository.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	var acct model.Account
	if err := r.db.WithContext(ctx).First(&acct, "id = ?", id).Error; err != nil {
		return nil, dberr.MapGormErrorToDomain(err)
	}
	return mapModelToDTO(&acct), nil
}

// List implements account.Repository.
func (r *repository) List(ctx context.Context, who access.Identity) ([]*dto.AccountRead, error) {
	var accts []model.Account
	err := r.db.WithContext(ctx).
		Table("accounts a").
		Scopes(ownership.Accounts(who, "a")).
		Order("a.created_at, a.id").
		Find(&accts).Error
	if err != nil {
		return nil, err
	}
	result := make([]*dto.AccountRead, 0, len(accts))
	for i := range accts {
		result = append(result, mapModelToDTO(&accts[i]))
	}
	return result, nil
}

// FirstOwned implements account.Repository.
func (r *repository) FirstOwned(ctx context.Context, userID uuid.UUID) (*dto.AccountRead, error) {
	var acct model.Account
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, id").
		First(&acct).Error
	if err != nil {
		return nil, dberr.MapGormErrorToDomain(err)
	}
	return mapModelToDTO(&acct), nil
}

func mapModelToDTO(a *model.Account) *dto.AccountRead {
	return &dto.AccountRead{
		ID:        a.ID,
		UserID:    a.UserID,
		Name:      a.Name,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
	}
}

var _ repo.Repository = (*repository)(nil)
