package repository

import (
	"github.com/feinledger/fein/infra/repository/model"
	"gorm.io/gorm"
)

// Migrate creates or updates the tables of every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.All()...)
}
