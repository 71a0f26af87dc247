package ports

import (
	"context"

	"github.com/GoArmGo/SmokeLog/internal/messaging/payloads"
)

// SmokeExportPublisher публикует задачи на экспорт записей пользователя.
// Используется обработчиком HTTP-запросов
type SmokeExportPublisher interface {
	PublishSmokeExportRequest(ctx context.Context, payload payloads.SmokeExportPayload) error
}

// SmokeExportConsumer потребляет задачи на экспорт, используется воркером
type SmokeExportConsumer interface {
	// StartConsumingSmokeExportRequests начинает прослушивание очереди
	// и вызывает handler для каждого полученного сообщения
	StartConsumingSmokeExportRequests(ctx context.Context, handler func(context.Context, payloads.SmokeExportPayload) error) error
}
