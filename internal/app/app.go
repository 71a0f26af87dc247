package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/SmokeLog/internal/config"
	"github.com/GoArmGo/SmokeLog/internal/core/ports"
	"github.com/GoArmGo/SmokeLog/internal/usecase"
)

// Mode задает режим запуска процесса
type Mode string

const (
	ModeServer Mode = "server"
	ModeWorker Mode = "worker"
)

// ErrExportDisabled возвращается, если воркер запущен без настроенных RabbitMQ и MinIO
var ErrExportDisabled = errors.New("export is not configured: set RABBITMQ_URL, MINIO_ENDPOINT and MINIO_BUCKET_NAME")

// App представляет собой основное приложение
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	router         http.Handler
	smokeUseCase   usecase.SmokeUseCase
	exportConsumer ports.SmokeExportConsumer

	// закрываются в обратном порядке
	closers []func() error
}

// Deps — собранные di-контейнером компоненты
type Deps struct {
	Config         *config.Config
	Logger         *slog.Logger
	Router         http.Handler
	SmokeUseCase   usecase.SmokeUseCase
	ExportConsumer ports.SmokeExportConsumer
	Closers        []func() error
}

// NewApp создает новый экземпляр App
func NewApp(deps Deps) *App {
	return &App{
		cfg:            deps.Config,
		logger:         deps.Logger,
		router:         deps.Router,
		smokeUseCase:   deps.SmokeUseCase,
		exportConsumer: deps.ExportConsumer,
		closers:        deps.Closers,
	}
}

// Logger возвращает основной логгер приложения
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Run запускает приложение в выбранном режиме до SIGINT/SIGTERM или отмены ctx
func (a *App) Run(ctx context.Context, mode Mode) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("application started", "mode", mode)

	switch mode {
	case ModeServer:
		return runServer(ctx, ":"+a.cfg.ServerPort, a.router, a.logger)
	case ModeWorker:
		if a.exportConsumer == nil {
			return ErrExportDisabled
		}
		return runWorker(ctx, a.smokeUseCase, a.exportConsumer, a.logger)
	default:
		return fmt.Errorf("неизвестный режим запуска: %q", mode)
	}
}

// Shutdown освобождает ресурсы: очередь, Redis, базу данных
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Error("shutdown finished with errors", "error", err)
		return err
	}
	a.logger.Info("all resources released")
	return nil
}
