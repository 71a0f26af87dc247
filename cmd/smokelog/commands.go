package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/SmokeLog/internal/app"
	"github.com/GoArmGo/SmokeLog/internal/config"
	"github.com/GoArmGo/SmokeLog/internal/database/client"
	"github.com/GoArmGo/SmokeLog/internal/di"
	"github.com/GoArmGo/SmokeLog/internal/logger"
	"github.com/spf13/cobra"
)

// newRootCmd собирает дерево команд: server, worker, migrate
func newRootCmd(bootstrapLogger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "smokelog",
		Short:         "Журнал копчений: REST API и воркер экспорта",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServerCmd(bootstrapLogger),
		newWorkerCmd(bootstrapLogger),
		newMigrateCmd(bootstrapLogger),
	)
	return root
}

func newServerCmd(bootstrapLogger *slog.Logger) *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Запустить HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(bootstrapLogger)
			if err != nil {
				return err
			}
			if !skipMigrations {
				if err := client.ApplyMigrations(cfg.DatabaseURL, log); err != nil {
					return err
				}
			}
			return run(cmd.Context(), cfg, log, app.ModeServer)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "не применять миграции при старте")
	return cmd
}

func newWorkerCmd(bootstrapLogger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Запустить воркер экспорта записей",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(bootstrapLogger)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, log, app.ModeWorker)
		},
	}
}

func newMigrateCmd(bootstrapLogger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции базы данных и выйти",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(bootstrapLogger)
			if err != nil {
				return err
			}
			return client.ApplyMigrations(cfg.DatabaseURL, log)
		},
	}
}

// loadConfig читает конфигурацию и создает основной логгер
func loadConfig(bootstrapLogger *slog.Logger) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootstrapLogger.Error("failed to load config", "error", err)
		return nil, nil, err
	}

	log := logger.NewSlog(logger.SlogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)
	return cfg, log, nil
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, mode app.Mode) error {
	if ctx == nil {
		ctx = context.Background()
	}

	application, err := di.BuildApp(ctx, cfg, log, mode)
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}
	defer application.Shutdown()

	if err := application.Run(ctx, mode); err != nil {
		return fmt.Errorf("application run failed: %w", err)
	}

	log.Info("application stopped gracefully")
	return nil
}
