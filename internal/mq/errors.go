package mq

import (
	"errors"
	"fmt"
)

// Ошибки брокера.
var (
	// ErrInvalidConnectionDetails — параметры подключения не заданы или неполные.
	ErrInvalidConnectionDetails = errors.New("invalid connection details")

	// ErrNilConnection — Messenger создан без Connection.
	ErrNilConnection = errors.New("connection is nil")

	// ErrConnectionDisposed — Connection уже освобождён через Dispose.
	ErrConnectionDisposed = errors.New("connection disposed")

	// ErrEmptyQueueName — имя очереди не задано.
	ErrEmptyQueueName = errors.New("queue name is empty")

	// ErrInvalidMessage — тело сообщения не удалось десериализовать.
	ErrInvalidMessage = errors.New("invalid message")
)

// InvalidMessageError — ошибка десериализации тела сообщения.
// Сообщение при этом не подтверждается и остаётся в очереди.
type InvalidMessageError struct {
	Queue string
	Body  []byte
	Err   error
}

func (e *InvalidMessageError) Error() string {
	return fmt.Sprintf("invalid message in queue %s: %v", e.Queue, e.Err)
}

// Unwrap позволяет errors.Is(err, ErrInvalidMessage) и доступ к исходной ошибке.
func (e *InvalidMessageError) Unwrap() []error {
	return []error{ErrInvalidMessage, e.Err}
}
