package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"gorm.io/gorm"

	"qmsevents/internal/bootstrap/config"
	"qmsevents/internal/bootstrap/database"
	"qmsevents/internal/bootstrap/logging"
	"qmsevents/internal/errs"
)

type App struct {
	Config  config.Config
	DB      *gorm.DB
	Handler http.Handler
}

func (a *App) InitSchema(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.app"))
	logging.Info(logCtx, "start schema migration")

	if err := database.Migrate(ctx, a.DB); err != nil {
		return errs.Wrap(err, "migrate schema")
	}

	logging.Info(logCtx, "schema migration completed")
	return nil
}
