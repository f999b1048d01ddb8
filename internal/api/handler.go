package api

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shaiso/Netobs/internal/domain"
)

// JobReader — чтение журнала обработки. *repo.JobRepo удовлетворяет интерфейсу.
type JobReader interface {
	GetJob(ctx context.Context, jobID uuid.UUID) (*domain.ProcessingLog, error)
	ListRecent(ctx context.Context, limit int) ([]domain.ProcessingLog, error)
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	jobs   JobReader
	logger *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Jobs   JobReader
	Logger *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		jobs:   cfg.Jobs,
		logger: logger,
	}
}
