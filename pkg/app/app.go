package app

import (
	"context"
	"log/slog"

	"github.com/feinledger/fein/pkg/access"
	"github.com/feinledger/fein/pkg/config"
	"github.com/feinledger/fein/pkg/repository"
	"github.com/feinledger/fein/pkg/service/account"
	"github.com/feinledger/fein/pkg/service/auth"
	"github.com/feinledger/fein/pkg/service/report"
	"github.com/feinledger/fein/pkg/service/tag"
	"github.com/feinledger/fein/pkg/service/transaction"
)

// Deps contains the infrastructure the services are built on.
type Deps struct {
	Uow    repository.UnitOfWork
	Logger *slog.Logger
	// Ping checks that the store is reachable. Nil means always healthy.
	Ping func(ctx context.Context) error
}

type App struct {
	Deps               *Deps
	Config             *config.App
	Policy             *access.Policy
	AuthService        *auth.Service
	AccountService     *account.Service
	TransactionService *transaction.Service
	TagService         *tag.Service
	ReportService      *report.Service
}

func New(deps *Deps, cfg *config.App) *App {
	policy := access.NewPolicy(cfg.Auth.AdminEmails)
	return &App{
		Deps:               deps,
		Config:             cfg,
		Policy:             policy,
		AuthService:        auth.NewWithJWT(deps.Uow, cfg.Auth.Jwt, policy, deps.Logger),
		AccountService:     account.New(deps.Uow, deps.Logger),
		TransactionService: transaction.New(deps.Uow, deps.Logger),
		TagService:         tag.New(deps.Uow, deps.Logger),
		ReportService:      report.New(deps.Uow, deps.Logger),
	}
}

// Healthy reports whether the store answers.
func (a *App) Healthy(ctx context.Context) error {
	if a.Deps.Ping == nil {
		return nil
	}
	return a.Deps.Ping(ctx)
}
