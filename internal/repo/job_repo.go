package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Netobs/internal/domain"
)

// JobRepo — репозиторий журнала обработки файлов.
type JobRepo struct {
	pool *pgxpool.Pool
}

// NewJobRepo создаёт новый JobRepo.
func NewJobRepo(pool *pgxpool.Pool) *JobRepo {
	return &JobRepo{pool: pool}
}

const jobColumns = `
	id, job_id, original_file_name, timestamp_detected, file_size, file_type,
	start_date_time, end_date_time, status, notes`

// CreateJob добавляет запись и возвращает её первичный ключ.
// PK записывается обратно в log.
func (r *JobRepo) CreateJob(ctx context.Context, log *domain.ProcessingLog) (int64, error) {
	query := `
		INSERT INTO file_processing_log
			(job_id, original_file_name, timestamp_detected, file_size, file_type,
			 start_date_time, end_date_time, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		log.JobID,
		nullString(log.OriginalFileName),
		log.TimestampDetected,
		log.FileSize,
		nullString(log.FileType),
		log.StartDateTime,
		log.EndDateTime,
		log.Status,
		nullString(log.Notes),
	).Scan(&log.PK)
	if err != nil {
		return 0, fmt.Errorf("insert job: %w", err)
	}
	return log.PK, nil
}

// GetJob возвращает запись по идентификатору job.
func (r *JobRepo) GetJob(ctx context.Context, jobID uuid.UUID) (*domain.ProcessingLog, error) {
	query := `SELECT ` + jobColumns + ` FROM file_processing_log WHERE job_id = $1`

	log, err := scanJob(r.pool.QueryRow(ctx, query, jobID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return log, nil
}

// ListRecent возвращает последние записи, новые первыми.
func (r *JobRepo) ListRecent(ctx context.Context, limit int) ([]domain.ProcessingLog, error) {
	query := `SELECT ` + jobColumns + `
		FROM file_processing_log
		ORDER BY start_date_time DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var logs []domain.ProcessingLog
	for rows.Next() {
		log, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *log)
	}
	return logs, rows.Err()
}

// UpdateStatus меняет статус job. COMPLETED заодно проставляет время завершения.
func (r *JobRepo) UpdateStatus(ctx context.Context, jobID uuid.UUID, status domain.JobStatus) error {
	var endedAt *time.Time
	if status == domain.JobStatusCompleted {
		now := time.Now().UTC()
		endedAt = &now
	}

	query := `
		UPDATE file_processing_log
		SET status = $2, end_date_time = COALESCE($3, end_date_time)
		WHERE job_id = $1
	`
	result, err := r.pool.Exec(ctx, query, jobID, status, endedAt)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateNotes заменяет заметки job.
func (r *JobRepo) UpdateNotes(ctx context.Context, jobID uuid.UUID, notes string) error {
	query := `UPDATE file_processing_log SET notes = $2 WHERE job_id = $1`

	result, err := r.pool.Exec(ctx, query, jobID, nullString(notes))
	if err != nil {
		return fmt.Errorf("update job notes: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanJob сканирует одну строку в ProcessingLog. pgx.Row и pgx.Rows подходят оба.
func scanJob(row pgx.Row) (*domain.ProcessingLog, error) {
	var log domain.ProcessingLog
	var name, fileType, notes *string

	err := row.Scan(
		&log.PK,
		&log.JobID,
		&name,
		&log.TimestampDetected,
		&log.FileSize,
		&fileType,
		&log.StartDateTime,
		&log.EndDateTime,
		&log.Status,
		&notes,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan job: %w", err)
	}

	if name != nil {
		log.OriginalFileName = *name
	}
	if fileType != nil {
		log.FileType = *fileType
	}
	if notes != nil {
		log.Notes = *notes
	}

	return &log, nil
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
