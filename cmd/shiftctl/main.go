package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/app"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/config"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/observability"
)

var (
	jsonOutput bool
	current    *app.App
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shiftctl",
		Short:         "Operator tooling for the shift service",
		Long:          "Runs migrations, inspects trust scores and moderates flagged accounts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if current != nil {
				current.Close()
				_ = current.Logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of tables")

	root.AddCommand(migrateCmd())
	root.AddCommand(scoreCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(suspiciousCmd())
	root.AddCommand(unblockCmd())
	root.AddCommand(transitionCmd())
	return root
}

// initApp loads config and connects storage. Only the migrate command applies migrations.
func initApp(ctx context.Context, migrate bool) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger = logger.With(zap.String("component", "shiftctl"))

	a, err := app.New(ctx, cfg, logger, migrate)
	if err != nil {
		return nil, err
	}
	current = a
	return a, nil
}

// withApp runs fn against a connected application.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	a, err := initApp(ctx, false)
	if err != nil {
		return err
	}
	return fn(ctx, a)
}
