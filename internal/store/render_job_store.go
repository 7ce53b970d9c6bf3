package store

import (
	"context"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/state"
)

// RenderJobStore manages render job rows in the shared relational store.
// Conditional updates return whether a row was actually written so callers
// can distinguish a no-op against a terminal row from a real transition.
type RenderJobStore interface {
	// Insert creates the job row in queued state with progress 0.
	Insert(ctx context.Context, job *models.RenderJob) error

	FindByID(ctx context.Context, id uuid.UUID) (*models.RenderJob, error)

	// AttachProviderJob moves a queued job to processing and stores the
	// provider's correlation id. Returns false when the job is no longer
	// queued.
	AttachProviderJob(ctx context.Context, id uuid.UUID, providerJobID string) (bool, error)

	// UpdateProgress raises progress on a non-terminal job. Progress never
	// decreases; a lower value than the stored one is absorbed.
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int) (bool, error)

	// MarkSucceeded performs the one-time terminal write with the output
	// artifact reference. A repeat against an already-terminal row is a
	// no-op returning false.
	MarkSucceeded(ctx context.Context, id uuid.UUID, outputURL string) (bool, error)

	// MarkFailed performs the one-time terminal write with the error
	// message. Same idempotency contract as MarkSucceeded.
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) (bool, error)

	CountGroupedByStatus(ctx context.Context) (map[state.RenderStatus]int, error)

	Close() error
}
