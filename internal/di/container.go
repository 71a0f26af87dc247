package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/SmokeLog/internal/adapter/storage/minio"
	"github.com/GoArmGo/SmokeLog/internal/app"
	"github.com/GoArmGo/SmokeLog/internal/auth"
	"github.com/GoArmGo/SmokeLog/internal/config"
	"github.com/GoArmGo/SmokeLog/internal/core/ports"
	"github.com/GoArmGo/SmokeLog/internal/database/client"
	"github.com/GoArmGo/SmokeLog/internal/database/postgres"
	"github.com/GoArmGo/SmokeLog/internal/database/storage"
	"github.com/GoArmGo/SmokeLog/internal/handler"
	"github.com/GoArmGo/SmokeLog/internal/rabbitmq"
	"github.com/GoArmGo/SmokeLog/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
// При ошибке уже открытые ресурсы закрываются.
func BuildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, mode app.Mode) (_ *app.App, err error) {
	var closers []func() error
	defer func() {
		if err == nil {
			return
		}
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}()

	// 1. Инициализация PostgreSQL клиента
	dbClient, err := client.NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	closers = append(closers, dbClient.Close)

	// 2. Инициализация хранилищ
	smokeStorage, userStorage, err := buildStorages(cfg, dbClient, logger)
	if err != nil {
		return nil, err
	}

	// 3. Сессии и отзыв токенов
	revoker, closeRevoker := buildRevoker(cfg, logger)
	if closeRevoker != nil {
		closers = append(closers, closeRevoker)
	}
	sessions := auth.NewSessionManager([]byte(cfg.JWTSecret), cfg.SessionTTL)
	guard := auth.NewGuard(sessions, revoker, logger)

	// 4. Экспорт: RabbitMQ нужен обоим режимам, MinIO только воркеру
	var (
		publisher ports.SmokeExportPublisher
		consumer  ports.SmokeExportConsumer
		files     ports.FileStorage
	)
	if cfg.ExportEnabled() {
		rabbitMQClient, err := rabbitmq.NewClient(cfg, logger)
		if err != nil {
			return nil, err
		}
		closers = append(closers, rabbitMQClient.Close)
		publisher = rabbitMQClient

		if mode == app.ModeWorker {
			fileStorage, err := minio.NewMinioClient(ctx, cfg, logger)
			if err != nil {
				return nil, err
			}
			files = fileStorage
			consumer = rabbitMQClient
		}
	} else {
		logger.Warn("export is disabled: RabbitMQ or MinIO is not configured")
	}

	// 5. Инициализация бизнес-логики (usecases)
	smokeUseCase := usecase.NewSmokeUseCase(usecase.SmokeUseCaseDeps{
		Smokes:       smokeStorage,
		Guard:        guard,
		Publisher:    publisher,
		Files:        files,
		StoreTimeout: cfg.StoreTimeout,
		Logger:       logger,
	})
	userUseCase := usecase.NewUserUseCase(userStorage, sessions, guard, cfg.StoreTimeout, logger)

	// 6. HTTP маршруты
	router := handler.NewRouter(handler.RouterDeps{
		Smokes:         smokeUseCase,
		Users:          userUseCase,
		Guard:          guard,
		RequestTimeout: cfg.RequestTimeout,
		SecureCookie:   cfg.CookieSecure,
		Logger:         logger,
	})

	// 7. Сборка итогового приложения
	return app.NewApp(app.Deps{
		Config:         cfg,
		Logger:         logger,
		Router:         router,
		SmokeUseCase:   smokeUseCase,
		ExportConsumer: consumer,
		Closers:        closers,
	}), nil
}

// buildStorages выбирает реализацию хранилища по STORAGE_DRIVER
func buildStorages(cfg *config.Config, dbClient *client.Client, logger *slog.Logger) (ports.SmokeStorage, ports.UserStorage, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverGORM:
		gormDB, err := postgres.Open(postgres.Dialector(dbClient.DB.DB), logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("storage driver selected", "driver", config.StorageDriverGORM)
		return postgres.NewGormSmokeStorage(gormDB, logger), postgres.NewGormUserStorage(gormDB, logger), nil
	case config.StorageDriverSQLX, "":
		logger.Info("storage driver selected", "driver", config.StorageDriverSQLX)
		return storage.NewSmokeStorage(dbClient.DB, logger), storage.NewUserStorage(dbClient.DB, logger), nil
	default:
		return nil, nil, fmt.Errorf("неизвестный STORAGE_DRIVER: %q", cfg.StorageDriver)
	}
}

// buildRevoker возвращает Redis-хранилище отозванных токенов, если задан REDIS_ADDR
func buildRevoker(cfg *config.Config, logger *slog.Logger) (auth.TokenRevoker, func() error) {
	if cfg.RedisAddr == "" {
		logger.Info("token revocation kept in memory")
		return auth.NewMemoryTokenRevoker(), nil
	}
	revoker := auth.NewRedisTokenRevoker(cfg.RedisAddr, cfg.RedisPassword)
	logger.Info("token revocation backed by Redis", "addr", cfg.RedisAddr)
	return revoker, revoker.Close
}
