package dynamodb

import (
	"context"

	"github.com/wingops/registry-workspace-sync/internal/models"
)

// MockStore implements CheckpointStore for testing.
type MockStore struct {
	GetCheckpointFunc  func(ctx context.Context, domain string) (*models.RunCheckpoint, error)
	SaveCheckpointFunc func(ctx context.Context, checkpoint models.RunCheckpoint) error

	// Track calls for assertions.
	Saved []models.RunCheckpoint
}

func (m *MockStore) GetCheckpoint(ctx context.Context, domain string) (*models.RunCheckpoint, error) {
	if m.GetCheckpointFunc == nil {
		return nil, nil
	}
	return m.GetCheckpointFunc(ctx, domain)
}

func (m *MockStore) SaveCheckpoint(ctx context.Context, checkpoint models.RunCheckpoint) error {
	m.Saved = append(m.Saved, checkpoint)
	if m.SaveCheckpointFunc == nil {
		return nil
	}
	return m.SaveCheckpointFunc(ctx, checkpoint)
}
