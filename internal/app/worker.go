package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/SmokeLog/internal/core/ports"
	"github.com/GoArmGo/SmokeLog/internal/messaging/payloads"
	"github.com/GoArmGo/SmokeLog/internal/usecase"
)

// runWorker слушает очередь экспорта и выгружает записи пользователей в хранилище
func runWorker(
	ctx context.Context,
	smokeUseCase usecase.SmokeUseCase,
	consumer ports.SmokeExportConsumer,
	logger *slog.Logger,
) error {
	handle := func(ctx context.Context, payload payloads.SmokeExportPayload) error {
		start := time.Now()
		url, err := smokeUseCase.ExportSmokes(ctx, payload)
		if err != nil {
			return err
		}
		logger.Info("export completed",
			"user_id", payload.UserID,
			"url", url,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	if err := consumer.StartConsumingSmokeExportRequests(ctx, handle); err != nil {
		return fmt.Errorf("не удалось запустить потребителя экспорта: %w", err)
	}

	logger.Info("export worker started")
	<-ctx.Done()
	logger.Info("export worker stopping")
	return nil
}
