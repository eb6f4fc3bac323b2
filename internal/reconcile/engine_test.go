package reconcile

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/wingops/registry-workspace-sync/internal/config"
	"github.com/wingops/registry-workspace-sync/internal/directory"
	"github.com/wingops/registry-workspace-sync/internal/dynamodb"
	"github.com/wingops/registry-workspace-sync/internal/models"
	"github.com/wingops/registry-workspace-sync/internal/registry"
	"github.com/wingops/registry-workspace-sync/internal/retry"
)

var testNow = time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Google: config.GoogleConfig{
			AdminEmail:     "admin@squadron.org",
			Domain:         "squadron.org",
			ArchiveOrgUnit: "/Archived Members",
			ActiveOrgUnit:  "/Members",
		},
		Lifecycle: config.LifecycleConfig{
			SuspensionGraceDays: 7,
			DaysBeforeArchive:   365,
			DaysBeforeDelete:    1825,
		},
		Run: config.RunConfig{
			BatchSize:        100,
			BudgetSeconds:    330,
			RetryAttempts:    3,
			RetryBackoffMs:   1,
			InterCallDelayMs: 1,
		},
		Groups: config.GroupsConfig{
			RecruitingMailbox: "joinus@wing.org",
			DutyPositions:     []string{"commander", "recruiting-officer"},
		},
	}
}

func newTestEngine(dir *directory.MockClient, store *dynamodb.MockStore, snapshot *models.Snapshot, cfg *config.Config) *Engine {
	importer := &registry.MockImporter{
		LoadSnapshotFunc: func(ctx context.Context) (*models.Snapshot, error) {
			return snapshot, nil
		},
	}
	engine := NewEngine(dir, store, importer, cfg)
	exec := retry.NewExecutor(cfg.Run)
	exec.SetSleep(func(ctx context.Context, d time.Duration) error { return nil })
	engine.SetExecutor(exec)
	engine.SetClock(func() time.Time { return testNow })
	return engine
}

func activeState(daysAgo int) *models.AccountState {
	return &models.AccountState{
		Status:    models.AccountActive,
		ChangedAt: testNow.AddDate(0, 0, -daysAgo),
	}
}

func TestRunFatalWhenSnapshotUnavailable(t *testing.T) {
	dir := &directory.MockClient{}
	store := &dynamodb.MockStore{}
	importer := &registry.MockImporter{
		LoadSnapshotFunc: func(ctx context.Context) (*models.Snapshot, error) {
			return nil, fmt.Errorf("import host unreachable")
		},
	}
	engine := NewEngine(dir, store, importer, testConfig())

	if _, err := engine.Run(context.Background()); err == nil {
		t.Fatalf("expected fatal error for unavailable snapshot")
	}
	if len(dir.Suspended)+len(dir.Reactivated)+len(dir.Archived)+len(dir.Deleted) != 0 {
		t.Fatalf("expected no directory mutations before fatal abort")
	}
	if len(store.Saved) != 0 {
		t.Fatalf("expected no checkpoint writes before fatal abort")
	}
}

func TestRunFatalWhenCheckpointUnreadable(t *testing.T) {
	dir := &directory.MockClient{}
	store := &dynamodb.MockStore{
		GetCheckpointFunc: func(ctx context.Context, domain string) (*models.RunCheckpoint, error) {
			return nil, fmt.Errorf("table missing")
		},
	}
	snapshot := &models.Snapshot{
		Members: []models.Member{{RegistryID: 1, Email: "a@squadron.org", Status: models.RegistryActive}},
	}
	engine := newTestEngine(dir, store, snapshot, testConfig())

	if _, err := engine.Run(context.Background()); err == nil {
		t.Fatalf("expected fatal error for unreadable checkpoint")
	}
	if len(dir.Suspended) != 0 {
		t.Fatalf("expected no directory mutations before fatal abort")
	}
}

func TestRunFatalWhenCheckpointCursorCorrupt(t *testing.T) {
	dir := &directory.MockClient{
		GetAccountStateFunc: func(ctx context.Context, email string) (*models.AccountState, error) {
			return activeState(30), nil
		},
	}
	store := &dynamodb.MockStore{
		GetCheckpointFunc: func(ctx context.Context, domain string) (*models.RunCheckpoint, error) {
			checkpoint := models.NewRunCheckpoint(domain)
			checkpoint.MemberCursor = "not-a-number"
			return &checkpoint, nil
		},
	}
	snapshot := &models.Snapshot{
		Members: []models.Member{
			{RegistryID: 1, Email: "expired@squadron.org", Status: models.RegistryExpired},
		},
	}
	engine := newTestEngine(dir, store, snapshot, testConfig())

	_, err := engine.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "checkpoint corrupt") {
		t.Fatalf("expected fatal error for corrupt cursor, got %v", err)
	}
	if len(dir.Suspended) != 0 {
		t.Fatalf("expected no directory mutations after corrupt cursor, got %v", dir.Suspended)
	}
	if len(store.Saved) != 0 {
		t.Fatalf("expected no checkpoint writes after corrupt cursor")
	}
}

func TestRunGuardsConcurrentInvocation(t *testing.T) {
	dir := &directory.MockClient{}
	store := &dynamodb.MockStore{}
	snapshot := &models.Snapshot{
		Members: []models.Member{{RegistryID: 1, Email: "a@squadron.org", Status: models.RegistryActive}},
	}
	engine := newTestEngine(dir, store, snapshot, testConfig())

	engine.mu.Lock()
	engine.running = true
	engine.mu.Unlock()

	if _, err := engine.Run(context.Background()); err == nil {
		t.Fatalf("expected error when a run is already in progress")
	}
}

func TestDryRunExecutesNothingAndKeepsCheckpoint(t *testing.T) {
	cfg := testConfig()
	cfg.Run.DryRun = true

	dir := &directory.MockClient{
		GetAccountStateFunc: func(ctx context.Context, email string) (*models.AccountState, error) {
			return activeState(30), nil
		},
	}
	store := &dynamodb.MockStore{}
	snapshot := &models.Snapshot{
		Members: []models.Member{
			{RegistryID: 1, Email: "expired@squadron.org", Status: models.RegistryExpired},
		},
	}
	engine := newTestEngine(dir, store, snapshot, cfg)

	result, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.DryRun {
		t.Fatalf("expected dry-run result")
	}
	if len(result.MemberActions) != 1 || result.MemberActions[0].Executed {
		t.Fatalf("expected 1 planned, unexecuted action, got %#v", result.MemberActions)
	}
	if len(dir.Suspended) != 0 {
		t.Fatalf("expected no suspension calls in dry-run")
	}
	if len(store.Saved) != 0 {
		t.Fatalf("expected checkpoint untouched in dry-run")
	}
}

func TestRunIdempotentWhenConverged(t *testing.T) {
	dir := &directory.MockClient{
		GetAccountStateFunc: func(ctx context.Context, email string) (*models.AccountState, error) {
			return activeState(100), nil
		},
	}
	store := &dynamodb.MockStore{}
	snapshot := &models.Snapshot{
		Members: []models.Member{
			{RegistryID: 1, Email: "one@squadron.org", Status: models.RegistryActive},
			{RegistryID: 2, Email: "two@squadron.org", Status: models.RegistryActive},
		},
	}
	engine := newTestEngine(dir, store, snapshot, testConfig())

	for run := 0; run < 2; run++ {
		result, err := engine.Run(context.Background())
		if err != nil {
			t.Fatalf("run %d: expected no error, got %v", run, err)
		}
		s := result.Summary
		if s.Reactivated+s.Suspended+s.Archived+s.Deleted != 0 {
			t.Fatalf("run %d: expected zero lifecycle actions, got %+v", run, s)
		}
		if s.MembersProcessed != 2 {
			t.Fatalf("run %d: expected 2 members examined, got %d", run, s.MembersProcessed)
		}
	}
}

func TestRunSendsNotification(t *testing.T) {
	cfg := testConfig()
	cfg.Notify.Enabled = true
	cfg.Notify.Recipients = []string{"it@wing.org"}

	dir := &directory.MockClient{
		GetAccountStateFunc: func(ctx context.Context, email string) (*models.AccountState, error) {
			return activeState(30), nil
		},
	}
	store := &dynamodb.MockStore{}
	snapshot := &models.Snapshot{
		Members: []models.Member{
			{RegistryID: 1, Email: "expired@squadron.org", Status: models.RegistryExpired},
		},
	}
	engine := newTestEngine(dir, store, snapshot, cfg)

	var sent *models.NotificationSummary
	engine.SetNotifier(&stubNotifier{onSend: func(summary models.NotificationSummary) error {
		sent = &summary
		return nil
	}})

	if _, err := engine.Run(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sent == nil {
		t.Fatalf("expected notification to be sent")
	}
	if len(sent.Recipients) != 1 || sent.Recipients[0] != "it@wing.org" {
		t.Fatalf("expected configured recipients, got %v", sent.Recipients)
	}
	if sent.Summary.Suspended != 1 {
		t.Fatalf("expected suspension in report, got %+v", sent.Summary)
	}
}

func TestRunNotificationFailureIsNonFatal(t *testing.T) {
	cfg := testConfig()
	cfg.Notify.Enabled = true
	cfg.Notify.Recipients = []string{"it@wing.org"}

	dir := &directory.MockClient{
		GetAccountStateFunc: func(ctx context.Context, email string) (*models.AccountState, error) {
			return activeState(1), nil
		},
	}
	snapshot := &models.Snapshot{
		Members: []models.Member{{RegistryID: 1, Email: "a@squadron.org", Status: models.RegistryActive}},
	}
	engine := newTestEngine(dir, &dynamodb.MockStore{}, snapshot, cfg)
	engine.SetNotifier(&stubNotifier{onSend: func(models.NotificationSummary) error {
		return fmt.Errorf("relay down")
	}})

	if _, err := engine.Run(context.Background()); err != nil {
		t.Fatalf("expected delivery failure to be non-fatal, got %v", err)
	}
}

type stubNotifier struct {
	onSend func(models.NotificationSummary) error
}

func (s *stubNotifier) Send(ctx context.Context, summary models.NotificationSummary) error {
	return s.onSend(summary)
}
