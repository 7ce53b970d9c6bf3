package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/custom_errors"
	"inkwell/internal/models"
	"inkwell/internal/state"
)

func TestNewPostgresRenderJobStore(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresRenderJobStore(db)
	require.NotNil(t, store)
}

func TestPostgresRenderJobStore_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresRenderJobStore(db)
	ctx := context.Background()

	job := &models.RenderJob{
		ID:       uuid.New(),
		OwnerID:  uuid.New(),
		Provider: "renderfarm",
	}

	mock.ExpectExec("INSERT INTO inkwell_schema.render_jobs").
		WithArgs(job.ID, job.OwnerID, nil, state.RenderQueued, 0, "renderfarm").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Insert(ctx, job))
	assert.Equal(t, state.RenderQueued, job.Status)
	assert.Equal(t, 0, job.Progress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRenderJobStore_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresRenderJobStore(db)
	ctx := context.Background()

	id := uuid.New()
	owner := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "session_id", "status", "progress", "provider",
		"provider_job_id", "output_url", "error_message", "created_at", "updated_at",
	}).AddRow(id, owner, nil, "processing", 55, "renderfarm", "rf-123", nil, nil, now, now)

	mock.ExpectQuery("SELECT (.+) FROM inkwell_schema.render_jobs WHERE id").
		WithArgs(id).
		WillReturnRows(rows)

	job, err := store.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, job.ID)
	assert.Equal(t, state.RenderProcessing, job.Status)
	assert.Equal(t, 55, job.Progress)
	require.NotNil(t, job.ProviderJobID)
	assert.Equal(t, "rf-123", *job.ProviderJobID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRenderJobStore_FindByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresRenderJobStore(db)
	ctx := context.Background()

	id := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM inkwell_schema.render_jobs WHERE id").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = store.FindByID(ctx, id)
	require.Error(t, err)
	assert.True(t, custom_errors.IsNotFound(err))
}

func TestPostgresRenderJobStore_AttachProviderJob(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresRenderJobStore(db)
	ctx := context.Background()
	id := uuid.New()

	mock.ExpectExec("UPDATE inkwell_schema.render_jobs").
		WithArgs(state.RenderProcessing, "rf-123", id, state.RenderQueued).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := store.AttachProviderJob(ctx, id, "rf-123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRenderJobStore_AttachProviderJob_NotQueued(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresRenderJobStore(db)
	ctx := context.Background()
	id := uuid.New()

	mock.ExpectExec("UPDATE inkwell_schema.render_jobs").
		WithArgs(state.RenderProcessing, "rf-123", id, state.RenderQueued).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := store.AttachProviderJob(ctx, id, "rf-123")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgresRenderJobStore_UpdateProgress_ClampsRange(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresRenderJobStore(db)
	ctx := context.Background()
	id := uuid.New()

	mock.ExpectExec("UPDATE inkwell_schema.render_jobs").
		WithArgs(100, id, state.RenderSucceeded, state.RenderFailed, state.RenderCanceled).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := store.UpdateProgress(ctx, id, 250)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec("UPDATE inkwell_schema.render_jobs").
		WithArgs(0, id, state.RenderSucceeded, state.RenderFailed, state.RenderCanceled).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err = store.UpdateProgress(ctx, id, -5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRenderJobStore_UpdateProgress_TerminalRowFrozen(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresRenderJobStore(db)
	ctx := context.Background()
	id := uuid.New()

	// Terminal rows match no predicate, so the write lands nowhere.
	mock.ExpectExec("UPDATE inkwell_schema.render_jobs").
		WithArgs(80, id, state.RenderSucceeded, state.RenderFailed, state.RenderCanceled).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := store.UpdateProgress(ctx, id, 80)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgresRenderJobStore_MarkSucceeded(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresRenderJobStore(db)
	ctx := context.Background()
	id := uuid.New()

	mock.ExpectExec("UPDATE inkwell_schema.render_jobs").
		WithArgs(state.RenderSucceeded, "https://cdn.example.com/out.mp4", id,
			state.RenderSucceeded, state.RenderFailed, state.RenderCanceled).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := store.MarkSucceeded(ctx, id, "https://cdn.example.com/out.mp4")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPostgresRenderJobStore_MarkSucceeded_Repeat(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresRenderJobStore(db)
	ctx := context.Background()
	id := uuid.New()

	// Second identical terminal write hits an already-terminal row.
	mock.ExpectExec("UPDATE inkwell_schema.render_jobs").
		WithArgs(state.RenderSucceeded, "https://cdn.example.com/out.mp4", id,
			state.RenderSucceeded, state.RenderFailed, state.RenderCanceled).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := store.MarkSucceeded(ctx, id, "https://cdn.example.com/out.mp4")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgresRenderJobStore_MarkFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresRenderJobStore(db)
	ctx := context.Background()
	id := uuid.New()

	mock.ExpectExec("UPDATE inkwell_schema.render_jobs").
		WithArgs(state.RenderFailed, "render crashed", id,
			state.RenderSucceeded, state.RenderFailed, state.RenderCanceled).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := store.MarkFailed(ctx, id, "render crashed")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPostgresRenderJobStore_CountGroupedByStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresRenderJobStore(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("queued", 2).
		AddRow("succeeded", 7)

	mock.ExpectQuery("SELECT status, COUNT").WillReturnRows(rows)

	counts, err := store.CountGroupedByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[state.RenderQueued])
	assert.Equal(t, 7, counts[state.RenderSucceeded])
	// Absent statuses are reported as zero.
	assert.Equal(t, 0, counts[state.RenderFailed])
	assert.Equal(t, 0, counts[state.RenderCanceled])
}
