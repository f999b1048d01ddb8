package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Jobs
	mux.Handle("GET /api/v1/jobs", chain(http.HandlerFunc(h.ListJobs)))
	mux.Handle("GET /api/v1/jobs/{job_id}", chain(http.HandlerFunc(h.GetJob)))
}
