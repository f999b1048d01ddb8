package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shaiso/Netobs/internal/domain"
	"github.com/shaiso/Netobs/internal/mq"
	"github.com/shaiso/Netobs/internal/telemetry"
)

// JobStore — обновление журнала обработки.
type JobStore interface {
	UpdateStatus(ctx context.Context, jobID uuid.UUID, status domain.JobStatus) error
	UpdateNotes(ctx context.Context, jobID uuid.UUID, notes string) error
}

// EventStore — сохранение метаданных событий.
type EventStore interface {
	InsertEventMetaData(ctx context.Context, ev *domain.EventMetaData) (int64, error)
}

// Config — зависимости и настройки Service.
type Config struct {
	Jobs      JobStore
	Events    EventStore // nil — метаданные событий не принимаются
	Messenger *mq.Messenger

	StateQueue string
	EventQueue string

	Logger *slog.Logger
}

// Service следит за состояниями job и ведёт по ним журнал обработки.
type Service struct {
	jobs      JobStore
	events    EventStore
	messenger *mq.Messenger

	stateQueue string
	eventQueue string

	logger *slog.Logger
}

// New создаёт Service.
func New(cfg Config) (*Service, error) {
	if cfg.Jobs == nil {
		return nil, errors.New("tracker: job store is required")
	}
	if cfg.StateQueue == "" {
		cfg.StateQueue = mq.DefaultJobStateQueue
	}
	if cfg.EventQueue == "" {
		cfg.EventQueue = mq.DefaultEventDataProcessQueue
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Service{
		jobs:       cfg.Jobs,
		events:     cfg.Events,
		messenger:  cfg.Messenger,
		stateQueue: cfg.StateQueue,
		eventQueue: cfg.EventQueue,
		logger:     cfg.Logger,
	}, nil
}

// Start подписывается на очереди состояний и метаданных событий.
// Подписки живут до отмены ctx.
func (s *Service) Start(ctx context.Context) error {
	if s.messenger == nil {
		return errors.New("tracker: messenger is required to start")
	}

	err := mq.Subscribe(ctx, s.messenger, s.stateQueue, func(msg *mq.RabbitMQMessage) {
		if err := s.HandleState(ctx, msg); err != nil {
			s.logger.Error("failed to handle job state", "queue", s.stateQueue, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe to job state: %w", err)
	}

	if s.events == nil {
		return nil
	}

	err = mq.Subscribe(ctx, s.messenger, s.eventQueue, func(msg *mq.EventMetaDataMessage) {
		if err := s.HandleEventMetaData(ctx, msg); err != nil {
			s.logger.Error("failed to handle event metadata", "queue", s.eventQueue, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe to event metadata: %w", err)
	}

	return nil
}

// StatusFor возвращает статус job для этапа pipeline.
// false — этап неизвестен.
func StatusFor(state mq.ProcessingState) (domain.JobStatus, bool) {
	switch state {
	case mq.StateIngested, mq.StateValidated, mq.StateProcessing,
		mq.StatePcapProcessed, mq.StateEventProcessed:
		return domain.JobStatusInProgress, true
	case mq.StateNOStatsCreated:
		return domain.JobStatusCompleted, true
	default:
		return "", false
	}
}

// HandleState применяет сообщение о состоянии к журналу.
// Неизвестное состояние переводит job в FAILED с пояснением в заметках.
func (s *Service) HandleState(ctx context.Context, msg *mq.RabbitMQMessage) error {
	if msg == nil {
		s.logger.Warn("empty job state message")
		return nil
	}

	jobID, err := uuid.Parse(msg.JobID)
	if err != nil {
		return fmt.Errorf("job id %q: %w", msg.JobID, err)
	}
	logger := telemetry.WithJobID(s.logger, msg.JobID)

	status, ok := StatusFor(msg.State)
	if !ok {
		notes := fmt.Sprintf("unknown processing state %s", msg.State)
		if err := s.jobs.UpdateNotes(ctx, jobID, notes); err != nil {
			return fmt.Errorf("update notes: %w", err)
		}
		status = domain.JobStatusFailed
		logger.Warn("unknown processing state", "state", int(msg.State))
	}

	if err := s.jobs.UpdateStatus(ctx, jobID, status); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	logger.Info("job state updated", "state", msg.State.String(), "status", status)
	return nil
}

// HandleEventMetaData сохраняет метаданные события.
// Сообщение с неразбираемыми полями пропускается.
func (s *Service) HandleEventMetaData(ctx context.Context, msg *mq.EventMetaDataMessage) error {
	if msg == nil {
		s.logger.Warn("empty event metadata message")
		return nil
	}

	ev, err := domain.ParseEventMetaData(msg.JulianDay, msg.Ready, msg.ReProcess, msg.IntervalInSeconds)
	if err != nil {
		s.logger.Warn("skipping event metadata", "error", err)
		return nil
	}

	id, err := s.events.InsertEventMetaData(ctx, ev)
	if err != nil {
		return fmt.Errorf("insert event metadata: %w", err)
	}

	s.logger.Debug("event metadata stored", "id", id, "julian_day", ev.JulianDay)
	return nil
}
