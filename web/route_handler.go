package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"inkwell/internal/app"
	"inkwell/internal/models"
	"inkwell/internal/provider"
	"inkwell/internal/store"
)

type HttpRouteHandler struct {
	producer       *app.Producer
	progress       *app.ProgressReporter
	claimer        *app.ScheduleClaimer
	jobs           store.RenderJobStore
	stepper        *provider.Stepper
	ScheduleSecret string
	Port           uint
}

func NewRouteHandler(
	producer *app.Producer,
	progress *app.ProgressReporter,
	claimer *app.ScheduleClaimer,
	jobs store.RenderJobStore,
	stepper *provider.Stepper,
	scheduleSecret string,
	port uint,
) *HttpRouteHandler {
	return &HttpRouteHandler{
		producer:       producer,
		progress:       progress,
		claimer:        claimer,
		jobs:           jobs,
		stepper:        stepper,
		ScheduleSecret: scheduleSecret,
		Port:           port,
	}
}

// Routes registers all endpoints on a fresh mux.
func (handler *HttpRouteHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/render-jobs", handler.handleCreateRenderJob)
	mux.HandleFunc("GET /api/render-jobs/stats", handler.handleRenderJobStats)
	mux.HandleFunc("GET /api/render-jobs/{id}", handler.handleGetRenderJob)
	mux.HandleFunc("POST /api/render-jobs/{id}/progress", handler.handleReportProgress)
	mux.HandleFunc("POST /api/render-jobs/{id}/simulate", handler.handleSimulate)
	mux.HandleFunc("POST /api/schedule/run", scheduleAuthMiddleware(handler.ScheduleSecret, handler.handleScheduleRun))

	return mux
}

func (handler *HttpRouteHandler) Serve() error {
	addr := fmt.Sprintf(":%d", handler.Port)
	printBanner(addr)
	return http.ListenAndServe(addr, handler.Routes())
}

func (handler *HttpRouteHandler) handleCreateRenderJob(w http.ResponseWriter, r *http.Request) {
	var req app.RenderRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("malformed request body: %w", err))
		return
	}

	job, err := handler.producer.Create(r.Context(), req)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"jobId": job.ID.String()})
}

func (handler *HttpRouteHandler) handleGetRenderJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("malformed job id"))
		return
	}

	job, err := handler.progress.Get(r.Context(), id)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func (handler *HttpRouteHandler) handleReportProgress(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("malformed job id"))
		return
	}

	var update models.ProgressUpdate
	if err := readJSON(r, &update); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("malformed request body: %w", err))
		return
	}

	job, err := handler.progress.Report(r.Context(), id, update)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// handleSimulate fires the synthetic stepper once, fire-and-forget. The
// route only exists in environments where the stepper is configured.
func (handler *HttpRouteHandler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if handler.stepper == nil {
		http.NotFound(w, r)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("malformed job id"))
		return
	}

	go handler.stepper.Run(context.WithoutCancel(r.Context()), id)

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "simulation started"})
}

func (handler *HttpRouteHandler) handleScheduleRun(w http.ResponseWriter, r *http.Request) {
	result, err := handler.claimer.RunOnce(r.Context())
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (handler *HttpRouteHandler) handleRenderJobStats(w http.ResponseWriter, r *http.Request) {
	counts, err := handler.jobs.CountGroupedByStatus(r.Context())
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, counts)
}
