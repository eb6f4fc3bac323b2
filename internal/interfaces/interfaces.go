package interfaces

import (
	"context"

	"github.com/wingops/registry-workspace-sync/internal/models"
)

// DirectoryClient defines the remote directory operations the engine drives.
// Every call maps to one remote request; classification of the returned error
// is the retry executor's concern.
type DirectoryClient interface {
	// GetAccountState resolves the lifecycle state of a member's account.
	// A missing account is reported as models.AccountDeleted, not an error.
	GetAccountState(ctx context.Context, email string) (*models.AccountState, error)

	SuspendUser(ctx context.Context, email string) error
	ReactivateUser(ctx context.Context, email string) error
	ArchiveUser(ctx context.Context, email string) error
	DeleteUser(ctx context.Context, email string) error

	GetGroup(ctx context.Context, email string) (*models.DirectoryGroup, error)
	CreateGroup(ctx context.Context, group models.DirectoryGroup) error
	PatchGroup(ctx context.Context, group models.DirectoryGroup) error
	PatchGroupSettings(ctx context.Context, email string, listed bool, moderation models.ModerationPolicy) error
	ListGroupMembers(ctx context.Context, groupEmail string) ([]string, error)
	AddGroupMember(ctx context.Context, groupEmail string, memberEmail string) error
	RemoveGroupMember(ctx context.Context, groupEmail string, memberEmail string) error
}

// RegistryImporter provides the per-run registry snapshot. An unreachable or
// unreadable snapshot is a run-fatal condition.
type RegistryImporter interface {
	LoadSnapshot(ctx context.Context) (*models.Snapshot, error)
}

// CheckpointStore persists the run checkpoint across invocations.
type CheckpointStore interface {
	// GetCheckpoint returns the stored checkpoint, or nil when no run has
	// completed yet.
	GetCheckpoint(ctx context.Context, domain string) (*models.RunCheckpoint, error)
	SaveCheckpoint(ctx context.Context, checkpoint models.RunCheckpoint) error
}

// Notifier delivers the per-run summary to the mail collaborator. Delivery
// failure is logged by callers, never retried.
type Notifier interface {
	Send(ctx context.Context, summary models.NotificationSummary) error
}

// MetricsEmitter publishes run summary counters.
type MetricsEmitter interface {
	EmitSummary(ctx context.Context, summary models.RunSummary) error
}

// Engine defines run orchestration.
type Engine interface {
	Run(ctx context.Context) (*models.RunResult, error)
}
