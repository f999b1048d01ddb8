package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// ListJobs возвращает последние jobs, новые первыми.
// GET /api/v1/jobs?limit=...
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxListLimit)
	}

	jobs, err := h.jobs.ListRecent(r.Context(), limit)
	if writeRepoError(w, r, err, "") {
		return
	}

	result := make([]JobResponse, len(jobs))
	for i, job := range jobs {
		result[i] = JobFromDomain(job)
	}

	writeList(w, result, len(result))
}

// GetJob возвращает job по идентификатору.
// GET /api/v1/jobs/{job_id}
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("job_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid job id")
		return
	}

	job, err := h.jobs.GetJob(r.Context(), jobID)
	if writeRepoError(w, r, err, "job not found") {
		return
	}

	writeData(w, JobFromDomain(*job))
}
