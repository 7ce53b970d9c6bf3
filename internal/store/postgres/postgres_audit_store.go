package postgres

import (
	"context"
	"database/sql"

	"inkwell/internal/models"
)

type PostgresAuditStore struct {
	db *sql.DB
}

func NewPostgresAuditStore(db *sql.DB) *PostgresAuditStore {
	return &PostgresAuditStore{db: db}
}

func (r *PostgresAuditStore) RecordEvent(ctx context.Context, event models.AuditEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inkwell_schema.audit_events (kind, subject_id, detail, created_at)
		VALUES ($1, $2, $3, now())
	`, event.Kind, event.SubjectID, event.Detail)
	return err
}

func (r *PostgresAuditStore) IncrementCounter(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inkwell_schema.job_metrics (name, value, updated_at)
		VALUES ($1, 1, now())
		ON CONFLICT (name) DO UPDATE SET
			value = inkwell_schema.job_metrics.value + 1,
			updated_at = now()
	`, name)
	return err
}
