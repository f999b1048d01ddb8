package domain

import "fmt"

// JobStatus — статус обработки файла в журнале.
//
// Жизненный цикл:
//
//	IN_PROGRESS → COMPLETED
//	            ↘ FAILED
//	VALIDATION_FAILED (файл не прошёл приём)
type JobStatus string

const (
	// JobStatusCompleted — обработка файла завершена.
	JobStatusCompleted JobStatus = "COMPLETED"

	// JobStatusInProgress — обработка файла идёт.
	JobStatusInProgress JobStatus = "IN_PROGRESS"

	// JobStatusFailed — обработка файла завершилась с ошибкой.
	JobStatusFailed JobStatus = "FAILED"

	// JobStatusValidationFailed — файл не прошёл валидацию.
	JobStatusValidationFailed JobStatus = "VALIDATION_FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusValidationFailed:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление JobStatus.
func (s JobStatus) String() string {
	return string(s)
}

// ParseJobStatus парсит строку в JobStatus.
func ParseJobStatus(s string) (JobStatus, error) {
	switch JobStatus(s) {
	case JobStatusCompleted, JobStatusInProgress, JobStatusFailed, JobStatusValidationFailed:
		return JobStatus(s), nil
	default:
		return "", fmt.Errorf("unknown job status %q", s)
	}
}
