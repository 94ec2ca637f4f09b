package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/artemdali21-ship-it/shef-montazh-sub002/internal/api/http"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/api/http/handlers"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/app"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/auth"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/config"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg, logger, cfg.Postgres.RunMigrations)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	server := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(server, logger, a.Metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(server, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readinessChecks(a)),
		Auth:           handlers.NewAuthHandler(a.Auth),
		Shifts:         handlers.NewShiftsHandler(a.Shifts),
		Trust:          handlers.NewTrustHandler(a.Trust, cfg.Trust.HistoryDefaultLimit),
		Metrics:        handlers.NewMetricsHandler(a.Metrics),
		AuthMiddleware: auth.NewAuthMiddleware(a.Tokens, a.Accounts),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("version", cfg.App.Version))
		if err := server.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func readinessChecks(a *app.App) map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{"postgres": a.Postgres}
	if a.Redis.Client != nil {
		checks["redis"] = a.Redis
	}
	return checks
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
