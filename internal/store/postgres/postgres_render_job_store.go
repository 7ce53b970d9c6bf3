package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/custom_errors"
	"inkwell/internal/models"
	"inkwell/internal/state"
)

type PostgresRenderJobStore struct {
	db *sql.DB
}

func NewPostgresRenderJobStore(db *sql.DB) *PostgresRenderJobStore {
	return &PostgresRenderJobStore{db: db}
}

const renderJobColumns = `
	id, owner_id, session_id, status, progress, provider,
	provider_job_id, output_url, error_message, created_at, updated_at
`

func (r *PostgresRenderJobStore) Insert(ctx context.Context, job *models.RenderJob) error {
	query := `
		INSERT INTO inkwell_schema.render_jobs
			(id, owner_id, session_id, status, progress, provider, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
	`

	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.OwnerID, job.SessionID, state.RenderQueued, 0, job.Provider)
	if err != nil {
		return fmt.Errorf("failed to insert render job: %w", err)
	}
	job.Status = state.RenderQueued
	job.Progress = 0
	return nil
}

func (r *PostgresRenderJobStore) FindByID(ctx context.Context, id uuid.UUID) (*models.RenderJob, error) {
	query := `SELECT ` + renderJobColumns + ` FROM inkwell_schema.render_jobs WHERE id = $1`

	var job models.RenderJob
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID, &job.OwnerID, &job.SessionID, &job.Status, &job.Progress,
		&job.Provider, &job.ProviderJobID, &job.OutputURL, &job.ErrorMessage,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, custom_errors.NewNotFoundError("render job", id.String())
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *PostgresRenderJobStore) AttachProviderJob(ctx context.Context, id uuid.UUID, providerJobID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inkwell_schema.render_jobs
		SET status = $1,
		    provider_job_id = $2,
		    updated_at = now()
		WHERE id = $3 AND status = $4
	`, state.RenderProcessing, providerJobID, id, state.RenderQueued)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// UpdateProgress absorbs stale or out-of-order webhook deliveries:
// GREATEST keeps progress monotone and the status predicate freezes
// terminal rows.
func (r *PostgresRenderJobStore) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) (bool, error) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE inkwell_schema.render_jobs
		SET progress = GREATEST(progress, $1),
		    updated_at = now()
		WHERE id = $2 AND status NOT IN ($3, $4, $5)
	`, progress, id, state.RenderSucceeded, state.RenderFailed, state.RenderCanceled)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (r *PostgresRenderJobStore) MarkSucceeded(ctx context.Context, id uuid.UUID, outputURL string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inkwell_schema.render_jobs
		SET status = $1,
		    progress = 100,
		    output_url = $2,
		    error_message = NULL,
		    updated_at = now()
		WHERE id = $3 AND status NOT IN ($4, $5, $6)
	`, state.RenderSucceeded, outputURL, id, state.RenderSucceeded, state.RenderFailed, state.RenderCanceled)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (r *PostgresRenderJobStore) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inkwell_schema.render_jobs
		SET status = $1,
		    error_message = $2,
		    updated_at = now()
		WHERE id = $3 AND status NOT IN ($4, $5, $6)
	`, state.RenderFailed, errMsg, id, state.RenderSucceeded, state.RenderFailed, state.RenderCanceled)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (r *PostgresRenderJobStore) CountGroupedByStatus(ctx context.Context) (map[state.RenderStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*) AS count
		FROM inkwell_schema.render_jobs
		GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[state.RenderStatus]int)
	for rows.Next() {
		var status state.RenderStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		result[status] = count
	}

	for _, status := range state.AllRenderStatuses {
		if _, ok := result[status]; !ok {
			result[status] = 0
		}
	}

	return result, rows.Err()
}

func (r *PostgresRenderJobStore) Close() error {
	return r.db.Close()
}
