package store

import (
	"context"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// ContentStore reads content sessions and applies the publish mutation.
type ContentStore interface {
	// FindSession loads a session with its snippets in position order.
	// Returns a NotFoundError when the session does not exist.
	FindSession(ctx context.Context, id uuid.UUID) (*models.ContentSession, error)

	// ApplyPublish writes the publish fields one by one, skipping fields
	// whose column does not exist in this deployment. Any other write
	// error aborts.
	ApplyPublish(ctx context.Context, sessionID uuid.UUID, fields models.PublishFields) error
}
