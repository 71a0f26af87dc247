package payloads

import (
	"time"

	"github.com/google/uuid"
)

// SmokeExportPayload представляет задачу на выгрузку всех записей пользователя
// через RabbitMQ.
type SmokeExportPayload struct {
	UserID      uuid.UUID `json:"user_id"`
	RequestedAt time.Time `json:"requested_at"`
}
