package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shaiso/Netobs/internal/repo"
	"github.com/shaiso/Netobs/internal/telemetry"
)

// ErrorCode — машиночитаемый код ошибки в ответе.
type ErrorCode string

const (
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrorDetail — тело ошибки.
type ErrorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorResponse — ответ с ошибкой: {"error": {...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// envelope — успешный ответ: {"data": ...}, для списков ещё и "total".
type envelope struct {
	Data  any  `json:"data"`
	Total *int `json:"total,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Data: data})
}

func writeList(w http.ResponseWriter, items any, total int) {
	writeJSON(w, http.StatusOK, envelope{Data: items, Total: &total})
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// writeInternal логирует причину и отвечает 500 без подробностей.
func writeInternal(w http.ResponseWriter, logger *slog.Logger, cause any) {
	logger.Error("internal error", "error", cause)
	writeError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
}

// writeRepoError отвечает на ошибку хранилища: repo.ErrNotFound даёт 404,
// остальное 500. Возвращает false, если err == nil.
func writeRepoError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, repo.ErrNotFound):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, notFoundMsg)
	default:
		writeInternal(w, telemetry.FromContext(r.Context()), err)
	}
	return true
}
