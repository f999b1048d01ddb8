package mq

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Connection — ленивое соединение с RabbitMQ и один канал поверх него.
//
// Особенности:
// - Соединение и канал создаются при первом обращении
// - Закрытое соединение или канал пересоздаётся при следующем запросе
// - В каждый момент времени Connection отдаёт не больше одной пары соединение/канал
// - Проверка и создание выполняются под мьютексом, экземпляр можно разделять между горутинами
//
// Владелец обязан вызвать Dispose (обычно через defer).
type Connection struct {
	details ConnectionDetails
	dialer  Dialer
	logger  *slog.Logger

	mu       sync.Mutex
	conn     Conn
	channel  Channel
	disposed bool
}

// NewConnection создаёт Connection. Сетевых вызовов не делает.
//
// dialer может быть nil — тогда используется AMQPDialer.
func NewConnection(details *ConnectionDetails, dialer Dialer, logger *slog.Logger) (*Connection, error) {
	if err := details.Validate(); err != nil {
		return nil, err
	}

	if dialer == nil {
		dialer = AMQPDialer{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Connection{
		details: *details,
		dialer:  dialer,
		logger:  logger,
	}, nil
}

// GetConnection возвращает открытое соединение.
// Закешированное соединение переиспользуется, пока оно не закрыто.
func (c *Connection) GetConnection() (Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.connectionLocked()
}

// GetChannel возвращает открытый канал.
// При необходимости заодно пересоздаёт соединение.
func (c *Connection) GetChannel() (Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return nil, ErrConnectionDisposed
	}

	if c.channel != nil && !c.channel.IsClosed() {
		return c.channel, nil
	}

	conn, err := c.connectionLocked()
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	c.channel = ch
	c.logger.Debug("opened RabbitMQ channel")

	return ch, nil
}

func (c *Connection) connectionLocked() (Conn, error) {
	if c.disposed {
		return nil, ErrConnectionDisposed
	}

	if c.conn != nil && !c.conn.IsClosed() {
		return c.conn, nil
	}

	conn, err := c.dialer.Dial(c.details.URI())
	if err != nil {
		return nil, fmt.Errorf("dial amqp %s: %w", c.details.RedactedURI(), err)
	}

	c.conn = conn
	c.logger.Info("connected to RabbitMQ", "uri", c.details.RedactedURI())

	return conn, nil
}

// Close закрывает канал, затем соединение, если они есть.
// После Close следующий GetConnection/GetChannel откроет их заново.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closeLocked()
}

func (c *Connection) closeLocked() error {
	var errs []error

	if c.channel != nil && !c.channel.IsClosed() {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}

	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Dispose закрывает и освобождает соединение и канал.
// Повторные вызовы ничего не делают.
func (c *Connection) Dispose() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return nil
	}
	c.disposed = true

	err := c.closeLocked()
	c.channel = nil
	c.conn = nil

	c.logger.Info("connection closed")
	return err
}
