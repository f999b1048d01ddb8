// Package api содержит HTTP API журнала обработки.
//
// Структура:
//   - handler.go     — Handler с DI (журнал, logger)
//   - routes.go      — регистрация маршрутов
//   - middleware.go  — middleware (logging, recovery)
//   - response.go    — унифицированные JSON-ответы и обработка ошибок
//   - dto.go         — Data Transfer Objects
//   - job_handler.go — обработчики для /jobs
//
// API только читает: jobs создаёт ingest, статусы меняет tracker.
package api
