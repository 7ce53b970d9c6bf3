package app

import (
	"context"

	"github.com/google/uuid"

	"inkwell/custom_errors"
	"inkwell/internal/models"
	"inkwell/internal/state"
	"inkwell/internal/store"
)

const defaultFailureMessage = "render failed"

// ProgressReporter advances render jobs on behalf of the provider webhook
// and the synthetic stepper, and serves the polling read path.
type ProgressReporter struct {
	jobs store.RenderJobStore
}

func NewProgressReporter(jobs store.RenderJobStore) *ProgressReporter {
	return &ProgressReporter{jobs: jobs}
}

func (r *ProgressReporter) Get(ctx context.Context, id uuid.UUID) (*models.RenderJob, error) {
	return r.jobs.FindByID(ctx, id)
}

// Report applies one webhook/stepper update. Every write is conditional
// on the row not already being terminal, so a stray late delivery cannot
// revive a finished job, and a repeated identical terminal write is a
// silent no-op. The updated row is returned.
func (r *ProgressReporter) Report(ctx context.Context, id uuid.UUID, update models.ProgressUpdate) (*models.RenderJob, error) {
	if update.Status != nil {
		if err := r.applyTerminal(ctx, id, update); err != nil {
			return nil, err
		}
	} else if update.Progress != nil {
		if _, err := r.jobs.UpdateProgress(ctx, id, *update.Progress); err != nil {
			return nil, err
		}
	}

	return r.jobs.FindByID(ctx, id)
}

func (r *ProgressReporter) applyTerminal(ctx context.Context, id uuid.UUID, update models.ProgressUpdate) error {
	switch *update.Status {
	case state.RenderSucceeded:
		verr := &custom_errors.ValidationError{}
		if update.OutputURL == nil || *update.OutputURL == "" {
			verr.Addf("output_url is required for status succeeded")
		}
		if verr.HasError() {
			return verr
		}
		if state.IsValidRenderTransition(state.RenderProcessing, state.RenderSucceeded) {
			_, err := r.jobs.MarkSucceeded(ctx, id, *update.OutputURL)
			return err
		}
		return nil

	case state.RenderFailed:
		msg := defaultFailureMessage
		if update.ErrorMessage != nil && *update.ErrorMessage != "" {
			msg = *update.ErrorMessage
		}
		if state.IsValidRenderTransition(state.RenderProcessing, state.RenderFailed) {
			_, err := r.jobs.MarkFailed(ctx, id, msg)
			return err
		}
		return nil

	default:
		// Cancellation belongs to the job's creator and unknown statuses
		// are rejected rather than guessed at.
		verr := &custom_errors.ValidationError{}
		verr.Addf("status %q cannot be reported through this endpoint", *update.Status)
		return verr
	}
}
