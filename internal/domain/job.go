package domain

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProcessingLog — запись журнала обработки одного файла (job).
//
// Создаётся при обнаружении файла в каталоге приёма, дальше статус
// меняют этапы pipeline через очередь состояний.
type ProcessingLog struct {
	// PK — первичный ключ записи. Передаётся в сообщениях как JobPK.
	PK int64 `json:"pk"`

	// JobID — уникальный идентификатор job.
	JobID uuid.UUID `json:"job_id"`

	// OriginalFileName — имя файла в момент обнаружения.
	OriginalFileName string `json:"original_file_name"`

	// TimestampDetected — когда файл был обнаружен.
	TimestampDetected time.Time `json:"timestamp_detected"`

	FileSize int64  `json:"file_size"`
	FileType string `json:"file_type,omitempty"`

	// StartDateTime — начало обработки.
	StartDateTime time.Time `json:"start_date_time"`

	// EndDateTime — завершение обработки. Nil, пока job не в COMPLETED.
	EndDateTime *time.Time `json:"end_date_time,omitempty"`

	Status JobStatus `json:"status"`
	Notes  string    `json:"notes,omitempty"`
}

// NewProcessingLog создаёт запись для только что обнаруженного файла.
func NewProcessingLog(path string, size int64, detected time.Time) *ProcessingLog {
	return &ProcessingLog{
		JobID:             uuid.New(),
		OriginalFileName:  filepath.Base(path),
		TimestampDetected: detected,
		FileSize:          size,
		FileType:          FileType(path),
		StartDateTime:     detected,
		Status:            JobStatusInProgress,
	}
}

// Duration возвращает продолжительность обработки.
// Возвращает 0, если job ещё не завершён.
func (l *ProcessingLog) Duration() time.Duration {
	if l.EndDateTime == nil {
		return 0
	}
	return l.EndDateTime.Sub(l.StartDateTime)
}

// FileType возвращает расширение файла без точки в нижнем регистре.
func FileType(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
