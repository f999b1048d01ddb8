package mq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Dialer — фабрика AMQP-соединений.
// Подменяется в тестах; по умолчанию используется AMQPDialer.
type Dialer interface {
	Dial(uri string) (Conn, error)
}

// Conn — транспортное соединение с брокером.
type Conn interface {
	Channel() (Channel, error)
	IsClosed() bool
	Close() error
}

// Channel — AMQP канал. *amqp.Channel удовлетворяет интерфейсу напрямую.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Get(queue string, autoAck bool) (amqp.Delivery, bool, error)
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Cancel(consumer string, noWait bool) error
	Qos(prefetchCount, prefetchSize int, global bool) error
	Ack(tag uint64, multiple bool) error
	Nack(tag uint64, multiple, requeue bool) error
	IsClosed() bool
	Close() error
}

var _ Channel = (*amqp.Channel)(nil)

// AMQPDialer открывает соединения через amqp091-go.
type AMQPDialer struct {
	Config *amqp.Config
}

// Dial открывает новое соединение по URI.
func (d AMQPDialer) Dial(uri string) (Conn, error) {
	var (
		conn *amqp.Connection
		err  error
	)
	if d.Config != nil {
		conn, err = amqp.DialConfig(uri, *d.Config)
	} else {
		conn, err = amqp.Dial(uri)
	}
	if err != nil {
		return nil, err
	}
	return amqpConn{conn: conn}, nil
}

// amqpConn адаптирует *amqp.Connection к Conn.
type amqpConn struct {
	conn *amqp.Connection
}

func (c amqpConn) Channel() (Channel, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func (c amqpConn) IsClosed() bool {
	return c.conn.IsClosed()
}

func (c amqpConn) Close() error {
	return c.conn.Close()
}
