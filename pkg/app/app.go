package app

import (
	"log/slog"

	"github.com/amirasaad/bankapi/pkg/config"
	"github.com/amirasaad/bankapi/pkg/repository"
	"github.com/amirasaad/bankapi/pkg/service/account"
	"github.com/amirasaad/bankapi/pkg/service/alert"
	"github.com/amirasaad/bankapi/pkg/service/auth"
	"github.com/amirasaad/bankapi/pkg/service/ledger"
	"github.com/amirasaad/bankapi/pkg/service/report"
	"github.com/amirasaad/bankapi/pkg/service/user"
)

// Deps contains the handles the services are built from. The process entry
// point owns their lifecycle.
type Deps struct {
	Uow       repository.UnitOfWork
	Publisher alert.Publisher
	Logger    *slog.Logger
}

type App struct {
	Deps           *Deps
	Config         *config.App
	AuthService    *auth.Service
	UserService    *user.Service
	AccountService *account.Service
	LedgerService  *ledger.Service
	ReportService  *report.Service
	AlertService   *alert.Service
}

func New(deps *Deps, cfg *config.App) *App {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	if cfg.Auth.Jwt != nil && cfg.Auth.Jwt.Secret != "" {
		app.AuthService = auth.NewWithJWT(deps.Uow, cfg.Auth.Jwt, deps.Logger)
	} else {
		app.AuthService = auth.NewWithBasic(deps.Uow, deps.Logger)
	}
	app.UserService = user.New(deps.Uow, deps.Logger)
	app.AccountService = account.New(deps.Uow, deps.Logger)
	app.LedgerService = ledger.New(deps.Uow, deps.Logger)
	app.ReportService = report.New(deps.Uow, deps.Logger)
	app.AlertService = alert.New(deps.Uow, deps.Publisher, deps.Logger)
	return app
}

// Dispatcher returns the background alert dispatcher configured by Alerts.
func (a *App) Dispatcher() *alert.Dispatcher {
	return alert.NewDispatcher(
		a.AlertService,
		a.Config.Alerts.Interval,
		a.Config.Alerts.BatchSize,
		a.Deps.Logger,
	)
}
