package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Netobs/internal/domain"
	"github.com/shaiso/Netobs/internal/mq"
	"github.com/shaiso/Netobs/internal/telemetry"
	"github.com/shaiso/Netobs/internal/watcher"
)

// JobStore — запись в журнал обработки.
type JobStore interface {
	CreateJob(ctx context.Context, log *domain.ProcessingLog) (int64, error)
	UpdateStatus(ctx context.Context, jobID uuid.UUID, status domain.JobStatus) error
	UpdateNotes(ctx context.Context, jobID uuid.UUID, notes string) error
}

// Publisher — публикация сообщений в очередь. *mq.Messenger удовлетворяет интерфейсу.
type Publisher interface {
	PushMessage(ctx context.Context, payload any, queue string) error
}

// Config — зависимости и настройки Service.
type Config struct {
	Jobs      JobStore
	Publisher Publisher

	// PcapQueue — очередь работы для обработчика pcap.
	PcapQueue string
	// StateQueue — очередь смены состояний job.
	StateQueue string

	// ValidatedDir — куда переносится принятый файл. Пусто — файл остаётся на месте.
	ValidatedDir string
	// ErrorDir — куда переносится файл, который не удалось принять. Пусто — файл остаётся на месте.
	ErrorDir string

	Logger *slog.Logger
	Now    func() time.Time
}

// Service принимает готовые файлы: заводит job, переносит файл
// и объявляет о нём обработчику pcap.
type Service struct {
	jobs      JobStore
	publisher Publisher

	pcapQueue    string
	stateQueue   string
	validatedDir string
	errorDir     string

	logger *slog.Logger
	now    func() time.Time
}

// New создаёт Service.
func New(cfg Config) (*Service, error) {
	if cfg.Jobs == nil || cfg.Publisher == nil {
		return nil, errors.New("ingest: job store and publisher are required")
	}

	if cfg.PcapQueue == "" {
		cfg.PcapQueue = mq.DefaultPcapProcessQueue
	}
	if cfg.StateQueue == "" {
		cfg.StateQueue = mq.DefaultJobStateQueue
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}

	return &Service{
		jobs:         cfg.Jobs,
		publisher:    cfg.Publisher,
		pcapQueue:    cfg.PcapQueue,
		stateQueue:   cfg.StateQueue,
		validatedDir: cfg.ValidatedDir,
		errorDir:     cfg.ErrorDir,
		logger:       cfg.Logger,
		now:          cfg.Now,
	}, nil
}

// Handler возвращает обработчик для watcher. Ошибки логируются.
func (s *Service) Handler(ctx context.Context) watcher.Handler {
	return func(path string) {
		if err := s.Ingest(ctx, path); err != nil {
			s.logger.Error("failed to ingest file", "file", path, "error", err)
		}
	}
}

// Ingest принимает один файл.
//
//  1. Заводит запись в журнале (IN_PROGRESS)
//  2. Переносит файл в ValidatedDir, если он задан
//  3. Публикует PcapValidatedMessage в очередь pcap и Ingested в очередь состояний
//
// Если шаги 2-3 не удались, job помечается VALIDATION_FAILED, а файл
// переносится в ErrorDir. Файлы с тем же именем в целевом каталоге
// не перезаписываются: к имени добавляется job id.
func (s *Service) Ingest(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	job := domain.NewProcessingLog(path, info.Size(), s.now())
	logger := telemetry.WithJobID(telemetry.WithFile(s.logger, path), job.JobID.String())

	if _, err := s.jobs.CreateJob(ctx, job); err != nil {
		s.quarantine(path, job.JobID.String(), logger)
		return fmt.Errorf("create job: %w", err)
	}
	logger.Info("job created", "job_pk", job.PK, "size", job.FileSize)

	current := path
	if s.validatedDir != "" {
		moved, err := moveFile(path, s.validatedDir, job.JobID.String())
		if err != nil {
			return s.fail(ctx, job, current, logger, fmt.Errorf("move to validated: %w", err))
		}
		current = moved
	}

	base := mq.RabbitMQMessage{
		JobPK: job.PK,
		JobID: job.JobID.String(),
		State: mq.StateIngested,
	}

	work := mq.PcapValidatedMessage{RabbitMQMessage: base, PathAndFileName: current}
	if err := s.publisher.PushMessage(ctx, work, s.pcapQueue); err != nil {
		return s.fail(ctx, job, current, logger, fmt.Errorf("push to %s: %w", s.pcapQueue, err))
	}

	// Сообщение о состоянии вторично: файл уже передан дальше
	if err := s.publisher.PushMessage(ctx, base, s.stateQueue); err != nil {
		logger.Warn("failed to publish job state", "queue", s.stateQueue, "error", err)
	}

	logger.Info("file ingested", "path", current)
	return nil
}

// fail фиксирует ошибку в журнале и убирает файл в ErrorDir.
func (s *Service) fail(ctx context.Context, job *domain.ProcessingLog, path string, logger *slog.Logger, cause error) error {
	if err := s.jobs.UpdateNotes(ctx, job.JobID, cause.Error()); err != nil {
		logger.Warn("failed to update job notes", "error", err)
	}
	if err := s.jobs.UpdateStatus(ctx, job.JobID, domain.JobStatusValidationFailed); err != nil {
		logger.Warn("failed to update job status", "error", err)
	}

	s.quarantine(path, job.JobID.String(), logger)
	return cause
}

func (s *Service) quarantine(path, tag string, logger *slog.Logger) {
	if s.errorDir == "" {
		return
	}

	moved, err := moveFile(path, s.errorDir, tag)
	if err != nil {
		logger.Error("failed to move file to error directory", "error", err)
		return
	}
	logger.Warn("file moved to error directory", "path", moved)
}
