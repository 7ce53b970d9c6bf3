package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"inkwell/custom_errors"
	"inkwell/internal/models"
)

// pgUndefinedColumn is the Postgres error code for "column does not
// exist". The publish mutation treats it as ignorable so deployments whose
// content table predates a field only skip that field.
const pgUndefinedColumn = "42703"

type PostgresContentStore struct {
	db *sql.DB
}

func NewPostgresContentStore(db *sql.DB) *PostgresContentStore {
	return &PostgresContentStore{db: db}
}

func (r *PostgresContentStore) FindSession(ctx context.Context, id uuid.UUID) (*models.ContentSession, error) {
	query := `
		SELECT id, owner_id, title, visibility, publish_status,
		       published_at, quality_score, quality_insight, content_hash
		FROM inkwell_schema.content_sessions
		WHERE id = $1
	`

	var session models.ContentSession
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID, &session.OwnerID, &session.Title, &session.Visibility,
		&session.PublishStatus, &session.PublishedAt, &session.QualityScore,
		&session.QualityInsight, &session.ContentHash,
	)
	if err == sql.ErrNoRows {
		return nil, custom_errors.NewNotFoundError("content session", id.String())
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, position, body
		FROM inkwell_schema.content_snippets
		WHERE session_id = $1
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var snippet models.Snippet
		if err := rows.Scan(&snippet.ID, &snippet.SessionID, &snippet.Position, &snippet.Body); err != nil {
			log.Println("snippet scan error:", err)
			continue
		}
		session.Snippets = append(session.Snippets, snippet)
	}

	return &session, rows.Err()
}

// ApplyPublish writes each publish field with its own statement. A column
// missing in this deployment skips that field only; every other error
// aborts the mutation.
func (r *PostgresContentStore) ApplyPublish(ctx context.Context, sessionID uuid.UUID, fields models.PublishFields) error {
	updates := []struct {
		column string
		value  any
	}{
		{"publish_status", fields.PublishStatus},
		{"visibility", fields.Visibility},
		{"published_at", fields.PublishedAt},
		{"quality_score", fields.QualityScore},
		{"quality_insight", fields.QualityInsight},
		{"content_hash", fields.ContentHash},
	}

	for _, u := range updates {
		query := fmt.Sprintf(
			"UPDATE inkwell_schema.content_sessions SET %s = $1, updated_at = now() WHERE id = $2",
			u.column,
		)
		if _, err := r.db.ExecContext(ctx, query, u.value, sessionID); err != nil {
			if isUndefinedColumn(err) {
				log.Printf("content store: skipping missing column %s", u.column)
				continue
			}
			return fmt.Errorf("failed to set %s: %w", u.column, err)
		}
	}

	return nil
}

func isUndefinedColumn(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUndefinedColumn
	}
	return false
}
