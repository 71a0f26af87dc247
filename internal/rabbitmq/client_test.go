package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/GoArmGo/SmokeLog/internal/logger"
	"github.com/GoArmGo/SmokeLog/internal/messaging/payloads"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ackRecorder запоминает, как было подтверждено сообщение
type ackRecorder struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *ackRecorder) Ack(uint64, bool) error { a.acked = true; return nil }
func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}
func (a *ackRecorder) Reject(_ uint64, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}

func delivery(t *testing.T, body []byte, redelivered bool) (amqp.Delivery, *ackRecorder) {
	t.Helper()
	rec := &ackRecorder{}
	return amqp.Delivery{Acknowledger: rec, DeliveryTag: 1, Body: body, Redelivered: redelivered}, rec
}

func exportBody(t *testing.T, userID uuid.UUID) []byte {
	t.Helper()
	body, err := json.Marshal(payloads.SmokeExportPayload{UserID: userID, RequestedAt: time.Now().UTC()})
	require.NoError(t, err)
	return body
}

func TestProcessDelivery_Ack(t *testing.T) {
	userID := uuid.New()
	msg, rec := delivery(t, exportBody(t, userID), false)

	var got payloads.SmokeExportPayload
	processDelivery(context.Background(), logger.Discard(), msg, func(_ context.Context, p payloads.SmokeExportPayload) error {
		got = p
		return nil
	})

	assert.True(t, rec.acked)
	assert.False(t, rec.nacked)
	assert.Equal(t, userID, got.UserID)
}

func TestProcessDelivery_MalformedIsDropped(t *testing.T) {
	msg, rec := delivery(t, []byte("{broken"), false)

	called := false
	processDelivery(context.Background(), logger.Discard(), msg, func(context.Context, payloads.SmokeExportPayload) error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.True(t, rec.nacked)
	assert.False(t, rec.requeue)
}

func TestProcessDelivery_FailureRequeuesOnce(t *testing.T) {
	failing := func(context.Context, payloads.SmokeExportPayload) error { return errors.New("s3 down") }

	msg, rec := delivery(t, exportBody(t, uuid.New()), false)
	processDelivery(context.Background(), logger.Discard(), msg, failing)
	assert.True(t, rec.nacked)
	assert.True(t, rec.requeue)

	msg, rec = delivery(t, exportBody(t, uuid.New()), true)
	processDelivery(context.Background(), logger.Discard(), msg, failing)
	assert.True(t, rec.nacked)
	assert.False(t, rec.requeue)
}
