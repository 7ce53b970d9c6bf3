package models

import (
	"time"

	"github.com/google/uuid"

	"inkwell/internal/state"
)

// RenderJob is a unit of asynchronous media-processing work. The row in
// Postgres is the only representation of the job; there is no separate
// queue artifact.
type RenderJob struct {
	ID            uuid.UUID          `json:"id"`
	OwnerID       uuid.UUID          `json:"owner_id"`
	SessionID     *uuid.UUID         `json:"session_id,omitempty"`
	Status        state.RenderStatus `json:"status"`
	Progress      int                `json:"progress"`
	Provider      string             `json:"provider"`
	ProviderJobID *string            `json:"provider_job_id,omitempty"`
	OutputURL     *string            `json:"output_url,omitempty"`
	ErrorMessage  *string            `json:"error_message,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// RenderParams are the processing parameters of a render request.
type RenderParams struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Format  string `json:"format"`
	Quality int    `json:"quality"`
}

// ProgressUpdate is a partial write against a render job, delivered by the
// provider webhook or the synthetic stepper. Nil fields are left untouched.
type ProgressUpdate struct {
	Progress     *int                `json:"progress,omitempty"`
	Status       *state.RenderStatus `json:"status,omitempty"`
	OutputURL    *string             `json:"output_url,omitempty"`
	ErrorMessage *string             `json:"error_message,omitempty"`
}
