package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"inkwell/custom_errors"
	"inkwell/internal/models"
	"inkwell/internal/provider"
	"inkwell/internal/state"
	"inkwell/internal/store"
)

var allowedFormats = map[string]bool{
	"mp4":  true,
	"webm": true,
	"gif":  true,
}

// RenderRequest describes one desired render. Every call is a distinct
// request: duplicates create duplicate jobs on purpose, there is no
// idempotency key at this layer.
type RenderRequest struct {
	OwnerID    uuid.UUID           `json:"owner_id"`
	SessionID  *uuid.UUID          `json:"session_id,omitempty"`
	ContentURL string              `json:"content_url"`
	Params     models.RenderParams `json:"params"`
}

// Producer validates render requests, records them as queued jobs and
// hands them to the external provider.
type Producer struct {
	jobs        store.RenderJobStore
	renderer    provider.RenderProvider
	callbackURL string
}

func NewProducer(jobs store.RenderJobStore, renderer provider.RenderProvider, callbackURL string) *Producer {
	return &Producer{
		jobs:        jobs,
		renderer:    renderer,
		callbackURL: callbackURL,
	}
}

func validateRenderRequest(req RenderRequest) error {
	verr := &custom_errors.ValidationError{}

	if req.OwnerID == uuid.Nil {
		verr.Addf("owner_id is required")
	}
	if req.ContentURL == "" {
		verr.Addf("content_url is required")
	}
	if req.Params.Width < 16 || req.Params.Width > 7680 {
		verr.Addf("width %d outside range [16, 7680]", req.Params.Width)
	}
	if req.Params.Height < 16 || req.Params.Height > 4320 {
		verr.Addf("height %d outside range [16, 4320]", req.Params.Height)
	}
	if !allowedFormats[req.Params.Format] {
		verr.Addf("format %q is not supported", req.Params.Format)
	}
	if req.Params.Quality < 1 || req.Params.Quality > 100 {
		verr.Addf("quality %d outside range [1, 100]", req.Params.Quality)
	}

	if verr.HasError() {
		return verr
	}
	return nil
}

// Create inserts the job row queued with progress 0, then invokes the
// provider. On provider failure the row stays queued and a ProviderError
// is surfaced to the caller; this layer never retries.
func (p *Producer) Create(ctx context.Context, req RenderRequest) (*models.RenderJob, error) {
	if err := validateRenderRequest(req); err != nil {
		return nil, err
	}

	job := &models.RenderJob{
		ID:        uuid.New(),
		OwnerID:   req.OwnerID,
		SessionID: req.SessionID,
		Provider:  p.renderer.Name(),
	}
	if err := p.jobs.Insert(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to record render job: %w", err)
	}

	providerJobID, err := p.renderer.StartRender(ctx, provider.StartRequest{
		JobID:       job.ID,
		ContentURL:  req.ContentURL,
		Params:      req.Params,
		CallbackURL: fmt.Sprintf("%s/api/render-jobs/%s/progress", p.callbackURL, job.ID),
	})
	if err != nil {
		return job, custom_errors.NewProviderError(p.renderer.Name(), err)
	}

	ok, err := p.jobs.AttachProviderJob(ctx, job.ID, providerJobID)
	if err != nil {
		return job, err
	}
	if ok {
		job.Status = state.RenderProcessing
		job.ProviderJobID = &providerJobID
	}
	return job, nil
}
