package initializer

import (
	"context"
	"fmt"

	"github.com/feinledger/fein/infra"
	infra_repository "github.com/feinledger/fein/infra/repository"
	"github.com/feinledger/fein/pkg/app"
	"github.com/feinledger/fein/pkg/config"
)

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App) (
	deps *app.Deps,
	err error,
) {
	deps = &app.Deps{}
	logger := setupLogger(cfg.Log)
	deps.Logger = logger

	// Initialize database
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		logger.Info("Running schema migration")
		if err := infra_repository.Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	deps.Ping = func(ctx context.Context) error {
		return sqlDB.PingContext(ctx)
	}

	// Initialize unit of work
	deps.Uow = infra_repository.NewUoW(db)

	return
}
