package app

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/custom_errors"
	"inkwell/internal/models"
	"inkwell/internal/state"
	"inkwell/internal/store/mocks"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func statusPtr(v state.RenderStatus) *state.RenderStatus { return &v }

func newTrackedJob(t *testing.T, jobs *mocks.MockRenderJobStore) *models.RenderJob {
	t.Helper()
	job := &models.RenderJob{ID: uuid.New(), OwnerID: uuid.New()}
	require.NoError(t, jobs.Insert(context.Background(), job))
	return job
}

func TestProgressReporter_ProgressIsMonotone(t *testing.T) {
	jobs := &mocks.MockRenderJobStore{}
	reporter := NewProgressReporter(jobs)
	job := newTrackedJob(t, jobs)
	ctx := context.Background()

	for _, p := range []int{8, 22, 37, 15, 55, 3, 72} {
		_, err := reporter.Report(ctx, job.ID, models.ProgressUpdate{Progress: intPtr(p)})
		require.NoError(t, err)
	}

	final, err := reporter.Get(ctx, job.ID)
	require.NoError(t, err)
	// Lower values were absorbed, never applied.
	assert.Equal(t, 72, final.Progress)
}

func TestProgressReporter_ProgressBounded(t *testing.T) {
	jobs := &mocks.MockRenderJobStore{}
	reporter := NewProgressReporter(jobs)
	job := newTrackedJob(t, jobs)
	ctx := context.Background()

	_, err := reporter.Report(ctx, job.ID, models.ProgressUpdate{Progress: intPtr(250)})
	require.NoError(t, err)

	final, err := reporter.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, final.Progress)
}

func TestProgressReporter_TerminalWriteSucceeded(t *testing.T) {
	jobs := &mocks.MockRenderJobStore{}
	reporter := NewProgressReporter(jobs)
	job := newTrackedJob(t, jobs)
	ctx := context.Background()

	final, err := reporter.Report(ctx, job.ID, models.ProgressUpdate{
		Status:    statusPtr(state.RenderSucceeded),
		OutputURL: strPtr("https://cdn.example.com/out.mp4"),
	})
	require.NoError(t, err)
	assert.Equal(t, state.RenderSucceeded, final.Status)
	assert.Equal(t, 100, final.Progress)
	require.NotNil(t, final.OutputURL)
	assert.Equal(t, "https://cdn.example.com/out.mp4", *final.OutputURL)
}

func TestProgressReporter_TerminalFreezesJob(t *testing.T) {
	jobs := &mocks.MockRenderJobStore{}
	reporter := NewProgressReporter(jobs)
	job := newTrackedJob(t, jobs)
	ctx := context.Background()

	_, err := reporter.Report(ctx, job.ID, models.ProgressUpdate{
		Status:       statusPtr(state.RenderFailed),
		ErrorMessage: strPtr("codec error"),
	})
	require.NoError(t, err)

	// Late progress update from a stray webhook.
	after, err := reporter.Report(ctx, job.ID, models.ProgressUpdate{Progress: intPtr(90)})
	require.NoError(t, err)
	assert.Equal(t, state.RenderFailed, after.Status)
	assert.Equal(t, 0, after.Progress)

	// Late terminal flip attempt.
	after, err = reporter.Report(ctx, job.ID, models.ProgressUpdate{
		Status:    statusPtr(state.RenderSucceeded),
		OutputURL: strPtr("https://cdn.example.com/late.mp4"),
	})
	require.NoError(t, err)
	assert.Equal(t, state.RenderFailed, after.Status)
	assert.Nil(t, after.OutputURL)
	require.NotNil(t, after.ErrorMessage)
	assert.Equal(t, "codec error", *after.ErrorMessage)
}

func TestProgressReporter_RepeatedTerminalWriteIsNoOp(t *testing.T) {
	jobs := &mocks.MockRenderJobStore{}
	reporter := NewProgressReporter(jobs)
	job := newTrackedJob(t, jobs)
	ctx := context.Background()

	update := models.ProgressUpdate{
		Status:    statusPtr(state.RenderSucceeded),
		OutputURL: strPtr("https://cdn.example.com/out.mp4"),
	}

	first, err := reporter.Report(ctx, job.ID, update)
	require.NoError(t, err)
	second, err := reporter.Report(ctx, job.ID, update)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, *first.OutputURL, *second.OutputURL)
	assert.Equal(t, first.Progress, second.Progress)
}

func TestProgressReporter_SucceededRequiresOutputURL(t *testing.T) {
	jobs := &mocks.MockRenderJobStore{}
	reporter := NewProgressReporter(jobs)
	job := newTrackedJob(t, jobs)

	_, err := reporter.Report(context.Background(), job.ID, models.ProgressUpdate{
		Status: statusPtr(state.RenderSucceeded),
	})
	var verr *custom_errors.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestProgressReporter_FailedDefaultsMessage(t *testing.T) {
	jobs := &mocks.MockRenderJobStore{}
	reporter := NewProgressReporter(jobs)
	job := newTrackedJob(t, jobs)

	final, err := reporter.Report(context.Background(), job.ID, models.ProgressUpdate{
		Status: statusPtr(state.RenderFailed),
	})
	require.NoError(t, err)
	require.NotNil(t, final.ErrorMessage)
	assert.Equal(t, defaultFailureMessage, *final.ErrorMessage)
}

func TestProgressReporter_RejectsUnreportableStatus(t *testing.T) {
	jobs := &mocks.MockRenderJobStore{}
	reporter := NewProgressReporter(jobs)
	job := newTrackedJob(t, jobs)

	for _, status := range []state.RenderStatus{state.RenderCanceled, state.RenderQueued, "archived"} {
		_, err := reporter.Report(context.Background(), job.ID, models.ProgressUpdate{
			Status: statusPtr(status),
		})
		var verr *custom_errors.ValidationError
		require.ErrorAs(t, err, &verr, "status %s", status)
	}
}

func TestProgressReporter_GetMissingJob(t *testing.T) {
	reporter := NewProgressReporter(&mocks.MockRenderJobStore{})

	_, err := reporter.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, custom_errors.IsNotFound(err))
}

func TestProgressReporter_SimulatedRunEndsSucceeded(t *testing.T) {
	jobs := &mocks.MockRenderJobStore{}
	reporter := NewProgressReporter(jobs)
	job := newTrackedJob(t, jobs)
	ctx := context.Background()

	for _, p := range []int{8, 22, 37, 55, 72, 88, 100} {
		_, err := reporter.Report(ctx, job.ID, models.ProgressUpdate{Progress: intPtr(p)})
		require.NoError(t, err)
	}
	final, err := reporter.Report(ctx, job.ID, models.ProgressUpdate{
		Status:    statusPtr(state.RenderSucceeded),
		OutputURL: strPtr("https://cdn.example.com/sim.mp4"),
	})
	require.NoError(t, err)

	assert.Equal(t, state.RenderSucceeded, final.Status)
	assert.Equal(t, 100, final.Progress)
	require.NotNil(t, final.OutputURL)
}
