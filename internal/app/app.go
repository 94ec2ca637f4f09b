// Package app assembles the service dependencies shared by the API server and the operator CLI.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/auth"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/config"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/events"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/lifecycle"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/observability"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/persistence"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/repository"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/service"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/trust"
)

// App holds wired dependencies.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Postgres   *persistence.Postgres
	Redis      *persistence.Redis
	Metrics    *observability.Metrics
	Dispatcher events.Dispatcher

	Accounts      repository.AccountRepository
	Tokens        *auth.TokenManager
	Trust         *trust.Engine
	Shifts        *service.ShiftService
	Auth          *service.AuthService
	Notifications *service.NotificationService
}

// New connects storage and builds services. Migrations run only when migrate is true.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrate bool) (*App, error) {
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if pg.Pool == nil {
		return nil, persistence.ErrNoDatabase
	}
	if migrate {
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			pg.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	rdb := persistence.NewRedis(ctx, cfg.Redis, logger)

	a := &App{
		Config:     cfg,
		Logger:     logger,
		Postgres:   pg,
		Redis:      rdb,
		Metrics:    observability.NewMetrics(),
		Dispatcher: events.NewInMemoryDispatcher(),
		Accounts:   repository.NewAccountRepository(pg.Pool),
		Tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
	}

	// A nil *RedisScoreCache must not reach the engine as a non-nil interface.
	var cache trust.ScoreCache
	if rdb.Client != nil {
		cache = repository.NewRedisScoreCache(rdb.Client, cfg.Trust.ScoreCacheTTL())
	}
	a.Trust = trust.NewEngine(trust.EngineDependencies{
		Ledger:   repository.NewTrustEventRepository(pg.Pool),
		Profiles: repository.NewProfileRepository(pg.Pool),
		Cache:    cache,
		Logger:   logger.Named("trust"),
	})

	a.Shifts = service.NewShiftService(service.ShiftDependencies{
		ShiftRepo:  repository.NewShiftRepository(pg.Pool),
		Machine:    lifecycle.NewMachine(),
		Trust:      a.Trust,
		Dispatcher: a.Dispatcher,
		Metrics:    a.Metrics,
		Logger:     logger.Named("shifts"),
	})
	a.Auth = service.NewAuthService(cfg.Auth, a.Accounts, a.Tokens)
	a.Notifications = service.NewNotificationService(a.Dispatcher, logger.Named("notifications"), cfg.Notification)
	a.Notifications.RegisterHandlers()

	return a, nil
}

// Close releases storage connections.
func (a *App) Close() {
	a.Redis.Close()
	a.Postgres.Close()
}
