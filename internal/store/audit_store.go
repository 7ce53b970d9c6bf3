package store

import (
	"context"

	"inkwell/internal/models"
)

// AuditStore is the sink for best-effort side effects. Errors from these
// writes are logged by the caller and never change a primary outcome.
type AuditStore interface {
	RecordEvent(ctx context.Context, event models.AuditEvent) error

	// IncrementCounter bumps a named metric by one.
	IncrementCounter(ctx context.Context, name string) error
}
