// Package registry loads the per-run membership snapshot produced by the
// external import step. The import itself (parsing the upstream registry
// dumps) is not this program's concern; the handoff is a JSON document.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/wingops/registry-workspace-sync/internal/models"
)

// FileImporter reads the snapshot from a local file refreshed by the import
// collaborator before each run.
type FileImporter struct {
	path string
}

// NewFileImporter creates a snapshot importer for the given file.
func NewFileImporter(path string) (*FileImporter, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot file path is required")
	}
	return &FileImporter{path: path}, nil
}

// LoadSnapshot reads and validates the snapshot. Any failure here is
// run-fatal: the engine must not mutate the directory from a missing or
// malformed snapshot.
func (i *FileImporter) LoadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	data, err := os.ReadFile(i.path)
	if err != nil {
		return nil, fmt.Errorf("reading registry snapshot: %w", err)
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing registry snapshot: %w", err)
	}

	if len(snapshot.Members) == 0 {
		return nil, fmt.Errorf("registry snapshot has no members")
	}

	orgs := snapshot.OrgByID()
	for _, member := range snapshot.Members {
		if member.Email == "" {
			return nil, fmt.Errorf("member %d has no email", member.RegistryID)
		}
		if _, ok := orgs[member.OrgID]; !ok {
			return nil, fmt.Errorf("member %d references unknown organization %q", member.RegistryID, member.OrgID)
		}
	}

	return &snapshot, nil
}

// MockImporter implements RegistryImporter for testing.
type MockImporter struct {
	LoadSnapshotFunc func(ctx context.Context) (*models.Snapshot, error)
}

func (m *MockImporter) LoadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	if m.LoadSnapshotFunc == nil {
		return &models.Snapshot{}, nil
	}
	return m.LoadSnapshotFunc(ctx)
}
