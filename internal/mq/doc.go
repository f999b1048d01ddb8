// Package mq предоставляет клиент RabbitMQ для передачи состояния job между этапами.
//
// Структура:
//   - details.go    — параметры подключения и построение amqp:// URI
//   - transport.go  — интерфейсы Dialer/Conn/Channel и адаптер amqp091-go
//   - connection.go — ленивое соединение и канал с пересозданием после закрытия
//   - topology.go   — объявление durable очередей, имена очередей по умолчанию
//   - publisher.go  — Messenger и PushMessage
//   - consumer.go   — ReadMessage (pull) и Subscribe (push)
//   - messages.go   — форматы сообщений и ProcessingState
//
// Формат на проводе: UTF-8 JSON, delivery mode persistent, exchange по умолчанию,
// routing key = имя очереди. Очереди durable, non-exclusive, без auto-delete.
//
// Гарантия доставки: at-least-once. Сообщение подтверждается только после
// успешной обработки, поэтому повторная обработка дубликатов возможна.
package mq
