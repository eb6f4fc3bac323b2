// Package checkpoint provides a local JSON file checkpoint store for CLI
// runs without AWS access. The DynamoDB store in internal/dynamodb is the
// production backend.
package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wingops/registry-workspace-sync/internal/models"
)

// FileStore persists the checkpoint as a single JSON file. Writes go through
// a temp file and rename so a crash never leaves a half-written checkpoint.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed checkpoint store.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("checkpoint file path is required")
	}
	return &FileStore{path: path}, nil
}

// GetCheckpoint returns the stored checkpoint, or nil when the file does not
// exist yet. An unreadable or corrupt file is an error, not a silent reset.
func (s *FileStore) GetCheckpoint(ctx context.Context, domain string) (*models.RunCheckpoint, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading checkpoint file: %w", err)
	}

	var checkpoint models.RunCheckpoint
	if err := json.Unmarshal(data, &checkpoint); err != nil {
		return nil, fmt.Errorf("parsing checkpoint file: %w", err)
	}
	return &checkpoint, nil
}

// SaveCheckpoint overwrites the stored checkpoint atomically.
func (s *FileStore) SaveCheckpoint(ctx context.Context, checkpoint models.RunCheckpoint) error {
	if checkpoint.RunAt.IsZero() {
		checkpoint.RunAt = time.Now().UTC()
	}
	data, err := json.MarshalIndent(checkpoint, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling checkpoint: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "checkpoint-*.json")
	if err != nil {
		return fmt.Errorf("creating temp checkpoint: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing checkpoint: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing checkpoint: %w", err)
	}
	return nil
}
