// Package reconcile orchestrates a reconciliation run: the member lifecycle
// loop, the squadron group loop, checkpointing, and the run report.
package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wingops/registry-workspace-sync/internal/config"
	"github.com/wingops/registry-workspace-sync/internal/interfaces"
	"github.com/wingops/registry-workspace-sync/internal/models"
	"github.com/wingops/registry-workspace-sync/internal/retry"
)

// Engine drives one reconciliation run at a time.
type Engine struct {
	directory interfaces.DirectoryClient
	store     interfaces.CheckpointStore
	importer  interfaces.RegistryImporter
	notifier  interfaces.Notifier
	metrics   interfaces.MetricsEmitter
	exec      *retry.Executor
	cfg       *config.Config
	now       func() time.Time
	mu        sync.Mutex
	running   bool
}

// NewEngine creates a reconciliation engine.
func NewEngine(directory interfaces.DirectoryClient, store interfaces.CheckpointStore, importer interfaces.RegistryImporter, cfg *config.Config) *Engine {
	return &Engine{
		directory: directory,
		store:     store,
		importer:  importer,
		exec:      retry.NewExecutor(cfg.Run),
		cfg:       cfg,
		now:       time.Now,
	}
}

// SetNotifier sets the run-report notifier. If nil, reporting is skipped.
func (e *Engine) SetNotifier(n interfaces.Notifier) {
	e.notifier = n
}

// SetMetrics sets the metrics emitter. If nil, metric emission is skipped.
func (e *Engine) SetMetrics(m interfaces.MetricsEmitter) {
	e.metrics = m
}

// SetClock overrides the engine clock; tests use this to simulate budget
// expiry without waiting.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// SetExecutor replaces the retry executor; tests use this to strip delays.
func (e *Engine) SetExecutor(exec *retry.Executor) {
	e.exec = exec
}

// Run performs one reconciliation run. Fatal conditions (snapshot or
// checkpoint unavailable) abort before any directory mutation; per-entity
// failures are isolated, counted, and reported.
func (e *Engine) Run(ctx context.Context) (*models.RunResult, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, fmt.Errorf("run already in progress")
	}
	e.running = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	start := e.now()
	deadline := start.Add(time.Duration(e.cfg.Run.BudgetSeconds) * time.Second)

	snapshot, err := e.importer.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("registry snapshot unavailable: %w", err)
	}

	checkpoint, err := e.store.GetCheckpoint(ctx, e.cfg.Google.Domain)
	if err != nil {
		return nil, fmt.Errorf("checkpoint unreadable: %w", err)
	}
	if checkpoint == nil {
		first := models.NewRunCheckpoint(e.cfg.Google.Domain)
		checkpoint = &first
	}
	memberCursorID, err := parseMemberCursor(checkpoint.MemberCursor)
	if err != nil {
		// A cursor that does not parse is corrupt state, same as an
		// unreadable checkpoint. Restarting from the top instead would
		// silently re-mutate accounts the cursor was meant to skip.
		return nil, fmt.Errorf("checkpoint corrupt: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"members":       len(snapshot.Members),
		"organizations": len(snapshot.Organizations),
		"member_cursor": checkpoint.MemberCursor,
		"org_cursor":    checkpoint.OrgCursor,
		"dry_run":       e.cfg.Run.DryRun,
	}).Info("[1/4] registry snapshot loaded")

	memberActions, memberCursor, examined, expired := e.runMemberPhase(ctx, snapshot, memberCursorID, deadline)
	logrus.WithFields(logrus.Fields{
		"examined":       examined,
		"actions":        len(memberActions),
		"cursor":         memberCursor,
		"budget_expired": expired,
	}).Info("[2/4] member lifecycle phase done")

	var groupActions []models.GroupAction
	orgCursor := checkpoint.OrgCursor
	if !expired {
		groupActions, orgCursor, expired = e.runGroupPhase(ctx, snapshot, checkpoint.OrgCursor, deadline)
		logrus.WithFields(logrus.Fields{
			"actions":        len(groupActions),
			"cursor":         orgCursor,
			"budget_expired": expired,
		}).Info("[3/4] squadron group phase done")
	} else {
		logrus.Info("[3/4] squadron group phase skipped, budget expired")
	}

	summary := buildSummary(memberActions, groupActions)
	summary.MembersProcessed = examined
	summary.Skipped = examined - len(memberActions)

	updated := *checkpoint
	updated.MemberCursor = memberCursor
	updated.OrgCursor = orgCursor
	updated.RunAt = start.UTC()
	updated.Counts = models.RunCounts{
		Processed: summary.MembersProcessed,
		Executed:  summary.Reactivated + summary.Suspended + summary.Archived + summary.Deleted,
		Failed:    summary.Failures,
	}

	if e.cfg.Run.DryRun {
		// A preview run takes no actions and must not advance the cursor.
		for _, action := range memberActions {
			logrus.WithFields(action.LogFields()).Info("  [DRY RUN] would execute")
		}
		for _, action := range groupActions {
			logrus.WithFields(action.LogFields()).Info("  [DRY RUN] would execute")
		}
	} else {
		if err := e.store.SaveCheckpoint(ctx, updated); err != nil {
			return nil, fmt.Errorf("persisting checkpoint: %w", err)
		}
	}

	end := e.now()
	result := &models.RunResult{
		DryRun:        e.cfg.Run.DryRun,
		StartTime:     start,
		EndTime:       end,
		DurationMs:    end.Sub(start).Milliseconds(),
		BudgetExpired: expired,
		MemberActions: memberActions,
		GroupActions:  groupActions,
		Summary:       summary,
		Checkpoint:    updated,
	}

	e.report(ctx, result)
	logrus.Info("[4/4] " + summary.String())

	return result, nil
}

// report delivers the run summary and metrics. Both are non-critical:
// failures are logged, never retried, and never fail the run.
func (e *Engine) report(ctx context.Context, result *models.RunResult) {
	if e.notifier != nil && e.cfg.Notify.Enabled {
		notification := buildNotification(e.cfg.Notify.Recipients, result)
		if err := e.notifier.Send(ctx, notification); err != nil {
			logrus.WithError(err).Warn("run report delivery failed")
		}
	}
	if e.metrics != nil && e.cfg.Metrics.Enabled {
		if err := e.metrics.EmitSummary(ctx, result.Summary); err != nil {
			logrus.WithError(err).Warn("metric emission failed")
		}
	}
}
