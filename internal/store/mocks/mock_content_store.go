package mocks

import (
	"context"

	"github.com/google/uuid"

	"inkwell/custom_errors"
	"inkwell/internal/models"
)

// MockContentStore is a mock implementation of store.ContentStore for
// testing.
type MockContentStore struct {
	FindSessionFunc  func(ctx context.Context, id uuid.UUID) (*models.ContentSession, error)
	ApplyPublishFunc func(ctx context.Context, sessionID uuid.UUID, fields models.PublishFields) error
}

func (m *MockContentStore) FindSession(ctx context.Context, id uuid.UUID) (*models.ContentSession, error) {
	if m.FindSessionFunc != nil {
		return m.FindSessionFunc(ctx, id)
	}
	return nil, custom_errors.NewNotFoundError("content session", id.String())
}

func (m *MockContentStore) ApplyPublish(ctx context.Context, sessionID uuid.UUID, fields models.PublishFields) error {
	if m.ApplyPublishFunc != nil {
		return m.ApplyPublishFunc(ctx, sessionID, fields)
	}
	return nil
}

// MockAuditStore is a mock implementation of store.AuditStore for testing.
type MockAuditStore struct {
	RecordEventFunc      func(ctx context.Context, event models.AuditEvent) error
	IncrementCounterFunc func(ctx context.Context, name string) error
}

func (m *MockAuditStore) RecordEvent(ctx context.Context, event models.AuditEvent) error {
	if m.RecordEventFunc != nil {
		return m.RecordEventFunc(ctx, event)
	}
	return nil
}

func (m *MockAuditStore) IncrementCounter(ctx context.Context, name string) error {
	if m.IncrementCounterFunc != nil {
		return m.IncrementCounterFunc(ctx, name)
	}
	return nil
}
