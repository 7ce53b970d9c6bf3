package postgres

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"inkwell/internal/models"
	"inkwell/internal/state"
)

type PostgresScheduleStore struct {
	db *sql.DB
}

func NewPostgresScheduleStore(db *sql.DB) *PostgresScheduleStore {
	return &PostgresScheduleStore{db: db}
}

func (r *PostgresScheduleStore) FetchDue(ctx context.Context, now time.Time, limit int) ([]models.PublishScheduleEntry, error) {
	query := `
		SELECT id, session_id, run_at, visibility, note, status,
		       attempts, last_error, created_at, updated_at
		FROM inkwell_schema.publish_schedule
		WHERE status = $1 AND run_at <= $2
		ORDER BY run_at ASC
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, state.ScheduleScheduled, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.PublishScheduleEntry
	for rows.Next() {
		var entry models.PublishScheduleEntry
		err := rows.Scan(
			&entry.ID, &entry.SessionID, &entry.RunAt, &entry.Visibility,
			&entry.Note, &entry.Status, &entry.Attempts, &entry.LastError,
			&entry.CreatedAt, &entry.UpdatedAt,
		)
		if err != nil {
			log.Println("schedule scan error:", err)
			continue
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// MarkRunning is a best-effort claim, not a lock: the status predicate
// narrows the window but two overlapping passes can still both flip and
// process the same entry. Per-entry processing tolerates that (publish
// fields are overwritten, not appended).
func (r *PostgresScheduleStore) MarkRunning(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE inkwell_schema.publish_schedule
		SET status = $1, updated_at = now()
		WHERE id = ANY($2) AND status = $3
	`, state.ScheduleRunning, pq.Array(raw), state.ScheduleScheduled)
	return err
}

func (r *PostgresScheduleStore) MarkDone(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE inkwell_schema.publish_schedule
		SET status = $1,
		    attempts = attempts + 1,
		    last_error = NULL,
		    updated_at = now()
		WHERE id = $2
	`, state.ScheduleDone, id)
	return err
}

func (r *PostgresScheduleStore) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE inkwell_schema.publish_schedule
		SET status = $1,
		    attempts = attempts + 1,
		    last_error = $2,
		    updated_at = now()
		WHERE id = $3
	`, state.ScheduleFailed, errMsg, id)
	return err
}

// RequeueStale recovers claims orphaned by a pass that died between
// MarkRunning and finalization. Stranded entries become selectable again
// on the next pass; attempts is untouched because no attempt ran.
func (r *PostgresScheduleStore) RequeueStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE inkwell_schema.publish_schedule
		SET status = $1, updated_at = now()
		WHERE status = $2 AND updated_at <= $3
	`, state.ScheduleScheduled, state.ScheduleRunning, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresScheduleStore) CountGroupedByStatus(ctx context.Context) (map[state.ScheduleStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*) AS count
		FROM inkwell_schema.publish_schedule
		GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[state.ScheduleStatus]int)
	for rows.Next() {
		var status state.ScheduleStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		result[status] = count
	}

	for _, status := range state.AllScheduleStatuses {
		if _, ok := result[status]; !ok {
			result[status] = 0
		}
	}

	return result, rows.Err()
}

func (r *PostgresScheduleStore) Close() error {
	return r.db.Close()
}
