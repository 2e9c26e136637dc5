package initializer

import (
	"errors"
	"fmt"

	"github.com/amirasaad/bankapi/infra"
	"github.com/amirasaad/bankapi/infra/notify"
	infra_repository "github.com/amirasaad/bankapi/infra/repository"
	"github.com/amirasaad/bankapi/pkg/app"
	"github.com/amirasaad/bankapi/pkg/config"
)

// InitializeDependencies opens the database and the alert publisher. The
// returned cleanup releases both and must be called once the app stops.
func InitializeDependencies(cfg *config.App) (
	deps *app.Deps,
	cleanup func() error,
	err error,
) {
	logger := setupLogger(cfg.Log)
	deps = &app.Deps{Logger: logger}

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	deps.Uow = infra_repository.NewUoW(db)

	publisher, closePublisher, err := notify.New(cfg.Alerts, logger)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to create alert publisher: %w", err)
	}
	deps.Publisher = publisher
	logger.Info("Dependencies initialized", "publisher", cfg.Alerts.Publisher)

	cleanup = func() error {
		return errors.Join(closePublisher(), sqlDB.Close())
	}
	return deps, cleanup, nil
}
