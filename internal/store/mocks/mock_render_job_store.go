package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"inkwell/custom_errors"
	"inkwell/internal/models"
	"inkwell/internal/state"
)

// MockRenderJobStore is a mock implementation of store.RenderJobStore for
// testing. Unset funcs fall back to an in-memory row map so tests can use
// it as a lightweight fake.
type MockRenderJobStore struct {
	InsertFunc               func(ctx context.Context, job *models.RenderJob) error
	FindByIDFunc             func(ctx context.Context, id uuid.UUID) (*models.RenderJob, error)
	AttachProviderJobFunc    func(ctx context.Context, id uuid.UUID, providerJobID string) (bool, error)
	UpdateProgressFunc       func(ctx context.Context, id uuid.UUID, progress int) (bool, error)
	MarkSucceededFunc        func(ctx context.Context, id uuid.UUID, outputURL string) (bool, error)
	MarkFailedFunc           func(ctx context.Context, id uuid.UUID, errMsg string) (bool, error)
	CountGroupedByStatusFunc func(ctx context.Context) (map[state.RenderStatus]int, error)
	CloseFunc                func() error

	mu   sync.Mutex
	rows map[uuid.UUID]*models.RenderJob
}

func (m *MockRenderJobStore) withRows(fn func(rows map[uuid.UUID]*models.RenderJob)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows == nil {
		m.rows = make(map[uuid.UUID]*models.RenderJob)
	}
	fn(m.rows)
}

func (m *MockRenderJobStore) Insert(ctx context.Context, job *models.RenderJob) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, job)
	}
	job.Status = state.RenderQueued
	job.Progress = 0
	m.withRows(func(rows map[uuid.UUID]*models.RenderJob) {
		copied := *job
		rows[job.ID] = &copied
	})
	return nil
}

func (m *MockRenderJobStore) FindByID(ctx context.Context, id uuid.UUID) (*models.RenderJob, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	var job *models.RenderJob
	m.withRows(func(rows map[uuid.UUID]*models.RenderJob) {
		if row, ok := rows[id]; ok {
			copied := *row
			job = &copied
		}
	})
	if job == nil {
		return nil, custom_errors.NewNotFoundError("render job", id.String())
	}
	return job, nil
}

func (m *MockRenderJobStore) AttachProviderJob(ctx context.Context, id uuid.UUID, providerJobID string) (bool, error) {
	if m.AttachProviderJobFunc != nil {
		return m.AttachProviderJobFunc(ctx, id, providerJobID)
	}
	ok := false
	m.withRows(func(rows map[uuid.UUID]*models.RenderJob) {
		row, found := rows[id]
		if !found || row.Status != state.RenderQueued {
			return
		}
		row.Status = state.RenderProcessing
		row.ProviderJobID = &providerJobID
		ok = true
	})
	return ok, nil
}

func (m *MockRenderJobStore) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) (bool, error) {
	if m.UpdateProgressFunc != nil {
		return m.UpdateProgressFunc(ctx, id, progress)
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	ok := false
	m.withRows(func(rows map[uuid.UUID]*models.RenderJob) {
		row, found := rows[id]
		if !found || row.Status.IsTerminal() {
			return
		}
		if progress > row.Progress {
			row.Progress = progress
		}
		ok = true
	})
	return ok, nil
}

func (m *MockRenderJobStore) MarkSucceeded(ctx context.Context, id uuid.UUID, outputURL string) (bool, error) {
	if m.MarkSucceededFunc != nil {
		return m.MarkSucceededFunc(ctx, id, outputURL)
	}
	ok := false
	m.withRows(func(rows map[uuid.UUID]*models.RenderJob) {
		row, found := rows[id]
		if !found || row.Status.IsTerminal() {
			return
		}
		row.Status = state.RenderSucceeded
		row.Progress = 100
		row.OutputURL = &outputURL
		row.ErrorMessage = nil
		ok = true
	})
	return ok, nil
}

func (m *MockRenderJobStore) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) (bool, error) {
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(ctx, id, errMsg)
	}
	ok := false
	m.withRows(func(rows map[uuid.UUID]*models.RenderJob) {
		row, found := rows[id]
		if !found || row.Status.IsTerminal() {
			return
		}
		row.Status = state.RenderFailed
		row.ErrorMessage = &errMsg
		ok = true
	})
	return ok, nil
}

func (m *MockRenderJobStore) CountGroupedByStatus(ctx context.Context) (map[state.RenderStatus]int, error) {
	if m.CountGroupedByStatusFunc != nil {
		return m.CountGroupedByStatusFunc(ctx)
	}
	counts := make(map[state.RenderStatus]int)
	m.withRows(func(rows map[uuid.UUID]*models.RenderJob) {
		for _, row := range rows {
			counts[row.Status]++
		}
	})
	return counts, nil
}

func (m *MockRenderJobStore) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
