package tag

import (
	"context"
	"errors"

	"github.com/feinledger/fein/infra/repository/dberr"
	"github.com/feinledger/fein/infra/repository/model"
	"github.com/feinledger/fein/infra/repository/ownership"
	"github.com/feinledger/fein/pkg/access"
	"github.com/feinledger/fein/pkg/domain"
	"github.com/feinledger/fein/pkg/dto"
	repo "github.com/feinledger/fein/pkg/repository/tag"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates a tag repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Create implements tag.Repository.
func (r *repository) Create(ctx context.Context, create dto.TagCreate) error {
	t := model.Tag{ID: create.ID, Name: create.Name}
	return dberr.WrapError(func() error {
		return r.db.WithContext(ctx).Create(&t).Error
	})
}

// List implements tag.Repository.
func (r *repository) List(ctx context.Context, who access.Identity) ([]*dto.TagRead, error) {
	var tags []model.Tag
	err := r.db.WithContext(ctx).
		Table("tags tg").
		Scopes(ownership.Tags(who, "tg")).
		Order("tg.name, tg.id").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return mapModelsToDTO(tags), nil
}

// ListByTransaction implements tag.Repository.
func (r *repository) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*dto.TagRead, error) {
	var tags []model.Tag
	err := r.db.WithContext(ctx).
		Table("tags tg").
		Joins("JOIN tag_assignments ta ON ta.tag_id = tg.id").
		Where("ta.transaction_id = ?", transactionID).
		Order("tg.name, tg.id").
		Select("tg.*").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return mapModelsToDTO(tags), nil
}

// Accessible implements tag.Repository.
func (r *repository) Accessible(ctx context.Context, who access.Identity, tagID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("tags tg").
		Scopes(ownership.UsableTags(who, "tg")).
		Where("tg.id = ?", tagID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Assign implements tag.Repository.
func (r *repository) Assign(ctx context.Context, create dto.TagAssignmentCreate) error {
	a := model.TagAssignment{
		ID:            create.ID,
		TransactionID: create.TransactionID,
		TagID:         create.TagID,
	}
	err := dberr.WrapError(func() error {
		return r.db.WithContext(ctx).Create(&a).Error
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return domain.ErrAlreadyAssigned
	}
	return err
}

// IsAssigned implements tag.Repository.
func (r *repository) IsAssigned(ctx context.Context, transactionID, tagID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TagAssignment{}).
		Where("transaction_id = ? AND tag_id = ?", transactionID, tagID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func mapModelsToDTO(tags []model.Tag) []*dto.TagRead {
	result := make([]*dto.TagRead, 0, len(tags))
	for i := range tags {
		result = append(result, &dto.TagRead{ID: tags[i].ID, Name: tags[i].Name})
	}
	return result
}

var _ repo.Repository = (*repository)(nil)
