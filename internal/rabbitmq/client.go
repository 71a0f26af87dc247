package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/SmokeLog/internal/config"
	"github.com/GoArmGo/SmokeLog/internal/messaging/payloads"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Client представляет собой клиент RabbitMQ. Реализует и
// ports.SmokeExportPublisher, и ports.SmokeExportConsumer.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

// NewClient создает и инициализирует новый клиент RabbitMQ
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	client := &Client{logger: logger}

	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	client.conn = conn

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	client.channel = ch

	// задачи экспорта обрабатываются по одной на воркер
	if err := ch.Qos(1, 0, false); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	// Объявление очереди идемпотентно
	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.RabbitMQQueueName, // name
		true,                           // durable
		false,                          // delete when unused
		false,                          // exclusive
		false,                          // no-wait
		nil,                            // arguments
	)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}
	client.queue = q

	logger.Info("RabbitMQ connected",
		"queue", q.Name,
		"messages", q.Messages,
	)
	return client, nil
}

// Close закрывает соединение и канал RabbitMQ
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}
	if len(errs) == 0 {
		c.logger.Info("RabbitMQ connection closed")
	}
	return errors.Join(errs...)
}

// PublishSmokeExportRequest публикует задачу экспорта в очередь
func (c *Client) PublishSmokeExportRequest(ctx context.Context, payload payloads.SmokeExportPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload to JSON: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		"",           // exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    payload.RequestedAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish a message: %w", err)
	}

	c.logger.Info("export request published", "queue", c.queue.Name, "user_id", payload.UserID)
	return nil
}

// StartConsumingSmokeExportRequests начинает потребление задач экспорта.
// Горутина завершается при отмене ctx или закрытии канала.
func (c *Client) StartConsumingSmokeExportRequests(ctx context.Context, handler func(context.Context, payloads.SmokeExportPayload) error) error {
	msgs, err := c.channel.Consume(
		c.queue.Name, // queue
		"",           // consumer
		false,        // auto-ack (подтверждаем вручную)
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.logger.Info("consumer registered, waiting for messages", "queue", c.queue.Name)

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Warn("RabbitMQ delivery channel closed, stopping consumer")
					return
				}
				processDelivery(ctx, c.logger, msg, handler)
			case <-ctx.Done():
				c.logger.Info("context cancelled, stopping RabbitMQ consumer")
				return
			}
		}
	}()

	return nil
}

// processDelivery разбирает сообщение и подтверждает его по результату обработки.
// Битое сообщение отбрасывается, ошибка обработки возвращает его в очередь.
func processDelivery(
	ctx context.Context,
	logger *slog.Logger,
	msg amqp.Delivery,
	handler func(context.Context, payloads.SmokeExportPayload) error,
) {
	var payload payloads.SmokeExportPayload
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		logger.Error("failed to unmarshal message", "error", err, "body", string(msg.Body))
		if err := msg.Nack(false, false); err != nil {
			logger.Error("failed to NACK malformed message", "error", err)
		}
		return
	}

	if err := handler(ctx, payload); err != nil {
		logger.Error("failed to process export request", "user_id", payload.UserID, "error", err)
		// повторная доставка уже один раз вернувшегося сообщения не поможет
		requeue := !msg.Redelivered
		if err := msg.Nack(false, requeue); err != nil {
			logger.Error("failed to NACK message", "error", err)
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("failed to ACK message", "error", err)
		return
	}
	logger.Debug("message processed and ACKed", "user_id", payload.UserID)
}
