package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/state"
)

// MockScheduleStore is a mock implementation of store.ScheduleStore for
// testing.
type MockScheduleStore struct {
	FetchDueFunc             func(ctx context.Context, now time.Time, limit int) ([]models.PublishScheduleEntry, error)
	MarkRunningFunc          func(ctx context.Context, ids []uuid.UUID) error
	MarkDoneFunc             func(ctx context.Context, id uuid.UUID) error
	MarkFailedFunc           func(ctx context.Context, id uuid.UUID, errMsg string) error
	RequeueStaleFunc         func(ctx context.Context, cutoff time.Time) (int64, error)
	CountGroupedByStatusFunc func(ctx context.Context) (map[state.ScheduleStatus]int, error)
	CloseFunc                func() error
}

func (m *MockScheduleStore) FetchDue(ctx context.Context, now time.Time, limit int) ([]models.PublishScheduleEntry, error) {
	if m.FetchDueFunc != nil {
		return m.FetchDueFunc(ctx, now, limit)
	}
	return nil, nil
}

func (m *MockScheduleStore) MarkRunning(ctx context.Context, ids []uuid.UUID) error {
	if m.MarkRunningFunc != nil {
		return m.MarkRunningFunc(ctx, ids)
	}
	return nil
}

func (m *MockScheduleStore) MarkDone(ctx context.Context, id uuid.UUID) error {
	if m.MarkDoneFunc != nil {
		return m.MarkDoneFunc(ctx, id)
	}
	return nil
}

func (m *MockScheduleStore) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(ctx, id, errMsg)
	}
	return nil
}

func (m *MockScheduleStore) RequeueStale(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.RequeueStaleFunc != nil {
		return m.RequeueStaleFunc(ctx, cutoff)
	}
	return 0, nil
}

func (m *MockScheduleStore) CountGroupedByStatus(ctx context.Context) (map[state.ScheduleStatus]int, error) {
	if m.CountGroupedByStatusFunc != nil {
		return m.CountGroupedByStatusFunc(ctx)
	}
	return map[state.ScheduleStatus]int{}, nil
}

func (m *MockScheduleStore) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
