package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSnapshotValid(t *testing.T) {
	path := writeSnapshot(t, `{
		"imported_at": "2026-03-01T05:00:00Z",
		"organizations": [{"id": "SER-113", "squadron_code": "ser113", "wing": "SER", "name": "Squadron 113"}],
		"members": [{"registry_id": 100042, "email": "cadet@squadron.org", "org_id": "SER-113", "type": "cadet", "status": "active"}]
	}`)

	importer, err := NewFileImporter(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	snapshot, err := importer.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(snapshot.Members) != 1 || len(snapshot.Organizations) != 1 {
		t.Fatalf("unexpected snapshot contents: %#v", snapshot)
	}
}

func TestLoadSnapshotMissingFileIsFatal(t *testing.T) {
	importer, _ := NewFileImporter(filepath.Join(t.TempDir(), "missing.json"))
	if _, err := importer.LoadSnapshot(context.Background()); err == nil {
		t.Fatalf("expected error for missing snapshot")
	}
}

func TestLoadSnapshotEmptyMembersIsFatal(t *testing.T) {
	path := writeSnapshot(t, `{"organizations": [], "members": []}`)
	importer, _ := NewFileImporter(path)
	if _, err := importer.LoadSnapshot(context.Background()); err == nil {
		t.Fatalf("expected error for empty snapshot")
	}
}

func TestLoadSnapshotUnknownOrgIsFatal(t *testing.T) {
	path := writeSnapshot(t, `{
		"organizations": [],
		"members": [{"registry_id": 1, "email": "a@squadron.org", "org_id": "NOPE", "type": "senior", "status": "active"}]
	}`)
	importer, _ := NewFileImporter(path)
	if _, err := importer.LoadSnapshot(context.Background()); err == nil {
		t.Fatalf("expected error for dangling org reference")
	}
}
