package bootstrap

import (
	"context"
	"log/slog"
	"net/http"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"qmsevents/internal/bootstrap/config"
	"qmsevents/internal/bootstrap/database"
	"qmsevents/internal/bootstrap/logging"
	"qmsevents/internal/infrastructure/assistant/gemini"
	"qmsevents/internal/infrastructure/assistant/openai"
	"qmsevents/internal/infrastructure/persistence/store/repository"
	"qmsevents/internal/infrastructure/persistence/store/uow"
	"qmsevents/internal/ports"
	"qmsevents/internal/transport/httpapi"
	"qmsevents/internal/usecase/assist"
	eventuc "qmsevents/internal/usecase/event"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			repository.NewEventRepository,
			fx.As(new(ports.EventRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			uow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(eventuc.NewService),
	fx.Provide(provideAssistant),
	fx.Provide(provideAssistService),
	fx.Provide(httpapi.NewMetrics),
	fx.Provide(provideHandler),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(logCtx, db); err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return nil, err
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			if err := sqlDB.Close(); err != nil {
				return err
			}
			logging.Info(logCtx, "database connection closed")
			return nil
		},
	})

	return db, nil
}

func provideAssistant(cfg config.Config) ports.Assistant {
	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		return openai.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout)
	default:
		return gemini.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout)
	}
}

func provideAssistService(cfg config.Config, assistant ports.Assistant) *assist.Service {
	return assist.NewService(assistant, cfg.AI.APIKey, cfg.AI.Timeout)
}

func provideHandler(ctx context.Context, cfg config.Config, events *eventuc.Service, assistSvc *assist.Service, metrics *httpapi.Metrics) http.Handler {
	handler := httpapi.NewHandler(events, assistSvc, metrics)
	return httpapi.NewRouter(httpapi.RouterConfig{
		Prefix:         cfg.HTTP.Prefix,
		MetricsEnabled: cfg.HTTP.MetricsEnabled,
		Logger:         logging.Logger(ctx),
	}, handler)
}

func provideApp(cfg config.Config, db *gorm.DB, handler http.Handler) *App {
	return &App{
		Config:  cfg,
		DB:      db,
		Handler: handler,
	}
}
