package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Netobs/internal/domain"
)

// JobResponse — ответ с записью журнала обработки.
type JobResponse struct {
	PK                int64            `json:"pk"`
	JobID             uuid.UUID        `json:"job_id"`
	OriginalFileName  string           `json:"original_file_name"`
	FileType          string           `json:"file_type,omitempty"`
	FileSize          int64            `json:"file_size"`
	TimestampDetected time.Time        `json:"timestamp_detected"`
	StartDateTime     time.Time        `json:"start_date_time"`
	EndDateTime       *time.Time       `json:"end_date_time,omitempty"`
	DurationMs        int64            `json:"duration_ms,omitempty"`
	Status            domain.JobStatus `json:"status"`
	Notes             string           `json:"notes,omitempty"`
}

// JobFromDomain конвертирует domain.ProcessingLog в JobResponse.
func JobFromDomain(l domain.ProcessingLog) JobResponse {
	return JobResponse{
		PK:                l.PK,
		JobID:             l.JobID,
		OriginalFileName:  l.OriginalFileName,
		FileType:          l.FileType,
		FileSize:          l.FileSize,
		TimestampDetected: l.TimestampDetected,
		StartDateTime:     l.StartDateTime,
		EndDateTime:       l.EndDateTime,
		DurationMs:        l.Duration().Milliseconds(),
		Status:            l.Status,
		Notes:             l.Notes,
	}
}
