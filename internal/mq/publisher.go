package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Netobs/internal/telemetry"
)

// Messenger публикует и читает JSON-сообщения через durable очереди.
//
// Перед каждой операцией очередь объявляется заново (идемпотентно),
// поэтому отдельная настройка топологии не нужна.
type Messenger struct {
	conn    *Connection
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewMessenger создаёт Messenger поверх conn.
// metrics может быть nil.
func NewMessenger(conn *Connection, logger *slog.Logger, metrics *telemetry.Metrics) (*Messenger, error) {
	if conn == nil {
		return nil, ErrNilConnection
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Messenger{
		conn:    conn,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Connection возвращает Connection, через которое работает Messenger.
func (m *Messenger) Connection() *Connection {
	return m.conn
}

// PushMessage сериализует payload в JSON и публикует его в очередь queue
// через exchange по умолчанию. Сообщение помечается persistent.
// Подтверждения от брокера не ожидаются.
func (m *Messenger) PushMessage(ctx context.Context, payload any, queue string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ch, err := m.channel(queue)
	if err != nil {
		return err
	}

	msgID := uuid.NewString()
	err = ch.PublishWithContext(
		ctx,
		"",    // exchange по умолчанию
		queue, // routing key = имя очереди
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
			MessageId:    msgID,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", queue, err)
	}

	m.metrics.MessagePushed(queue)
	m.logger.Debug("published message",
		"queue", queue,
		"message_id", msgID,
		"size", len(body),
	)

	return nil
}

// channel возвращает канал и объявляет на нём очередь.
func (m *Messenger) channel(queue string) (Channel, error) {
	if queue == "" {
		return nil, ErrEmptyQueueName
	}

	ch, err := m.conn.GetChannel()
	if err != nil {
		return nil, err
	}

	if err := declareQueue(ch, queue); err != nil {
		return nil, err
	}

	return ch, nil
}
