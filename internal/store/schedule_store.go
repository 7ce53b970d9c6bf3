package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/state"
)

// ScheduleStore manages publish schedule entries. The status column is the
// claim lock: MarkRunning is a best-effort bulk flip, not a transactional
// claim, so overlapping passes may process the same entry more than once.
type ScheduleStore interface {
	// FetchDue returns up to limit scheduled entries whose run_at has
	// passed, oldest due first.
	FetchDue(ctx context.Context, now time.Time, limit int) ([]models.PublishScheduleEntry, error)

	// MarkRunning bulk-flips the given entries from scheduled to running.
	MarkRunning(ctx context.Context, ids []uuid.UUID) error

	// MarkDone finalizes a processed entry: done, attempts+1, last_error
	// cleared.
	MarkDone(ctx context.Context, id uuid.UUID) error

	// MarkFailed finalizes a failed attempt: failed, attempts+1,
	// last_error overwritten.
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error

	// RequeueStale flips entries stranded in running since before cutoff
	// back to scheduled, so a pass abandoned mid-batch cannot orphan its
	// claims. Returns the number of entries recovered.
	RequeueStale(ctx context.Context, cutoff time.Time) (int64, error)

	CountGroupedByStatus(ctx context.Context) (map[state.ScheduleStatus]int, error)

	Close() error
}
