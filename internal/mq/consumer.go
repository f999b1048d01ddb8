package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// SubscribePrefetch — сколько неподтверждённых доставок брокер отдаёт подписчику.
const SubscribePrefetch = 16

// ReadMessage забирает одно сообщение из очереди (pull, без auto-ack).
//
// Если очередь пуста, возвращает nil, nil и ничего не подтверждает.
// Сообщение подтверждается только после успешной десериализации.
// При ошибке десериализации возвращается *InvalidMessageError, сообщение
// остаётся неподтверждённым и будет доставлено снова.
func ReadMessage[T any](ctx context.Context, m *Messenger, queue string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch, err := m.channel(queue)
	if err != nil {
		return nil, err
	}

	d, ok, err := ch.Get(queue, false)
	if err != nil {
		return nil, fmt.Errorf("get from %s: %w", queue, err)
	}
	if !ok {
		m.metrics.ReadMiss(queue)
		return nil, nil
	}

	msg, err := decode[T](queue, d.Body)
	if err != nil {
		m.metrics.MessageInvalid(queue)
		return nil, err
	}

	if err := ch.Ack(d.DeliveryTag, false); err != nil {
		return nil, fmt.Errorf("ack message from %s: %w", queue, err)
	}
	m.metrics.MessageConsumed(queue)

	return msg, nil
}

// Subscribe подписывает onMessage на очередь (push, без auto-ack).
//
// Каждая доставка десериализуется и передаётся в onMessage синхронно.
// Тело "null" даёт nil. Сообщение подтверждается после возврата из onMessage.
// Паника в onMessage не перехватывается: сообщение остаётся неподтверждённым.
// Сообщение, которое не удалось десериализовать, отклоняется без возврата
// в очередь (nack, requeue=false) и уходит в dead-letter exchange очереди,
// если он настроен. Число неподтверждённых доставок ограничено SubscribePrefetch.
//
// Callback выполняется в отдельной горутине, независимо от вызывающего кода.
// Подписка живёт, пока жив канал или пока не отменён ctx.
func Subscribe[T any](ctx context.Context, m *Messenger, queue string, onMessage func(*T)) error {
	if onMessage == nil {
		return fmt.Errorf("subscribe to %s: callback is nil", queue)
	}

	ch, err := m.channel(queue)
	if err != nil {
		return err
	}

	if err := ch.Qos(SubscribePrefetch, 0, false); err != nil {
		return fmt.Errorf("set prefetch for %s: %w", queue, err)
	}

	tag := "netobs-" + uuid.NewString()
	deliveries, err := ch.Consume(
		queue, // queue
		tag,   // consumer tag
		false, // auto-ack (мы ack вручную)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("consume %s: %w", queue, err)
	}

	m.logger.Info("consumer started", "queue", queue, "consumer", tag)

	go func() {
		for {
			select {
			case <-ctx.Done():
				if err := ch.Cancel(tag, false); err != nil {
					m.logger.Warn("failed to cancel consumer", "queue", queue, "error", err)
				}
				m.logger.Info("consumer stopped", "queue", queue)
				return

			case d, ok := <-deliveries:
				if !ok {
					m.logger.Warn("deliveries channel closed", "queue", queue)
					return
				}
				handleDelivery(m, ch, queue, d, onMessage)
			}
		}
	}()

	return nil
}

// handleDelivery обрабатывает одно сообщение подписки.
func handleDelivery[T any](m *Messenger, ch Channel, queue string, d amqp.Delivery, onMessage func(*T)) {
	msg, err := decode[T](queue, d.Body)
	if err != nil {
		m.metrics.MessageInvalid(queue)
		m.logger.Error("failed to unmarshal message, rejecting",
			"queue", queue,
			"delivery_tag", d.DeliveryTag,
			"error", err,
		)
		if err := ch.Nack(d.DeliveryTag, false, false); err != nil {
			m.logger.Error("failed to nack message",
				"queue", queue,
				"delivery_tag", d.DeliveryTag,
				"error", err,
			)
		}
		return
	}

	onMessage(msg)

	if err := ch.Ack(d.DeliveryTag, false); err != nil {
		m.logger.Error("failed to ack message",
			"queue", queue,
			"delivery_tag", d.DeliveryTag,
			"error", err,
		)
		return
	}
	m.metrics.MessageConsumed(queue)
}

// decode десериализует тело сообщения. Для "null" возвращает nil без ошибки.
func decode[T any](queue string, body []byte) (*T, error) {
	var msg *T
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, &InvalidMessageError{Queue: queue, Body: body, Err: err}
	}
	return msg, nil
}
