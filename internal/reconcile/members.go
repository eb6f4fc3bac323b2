package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wingops/registry-workspace-sync/internal/lifecycle"
	"github.com/wingops/registry-workspace-sync/internal/models"
	"github.com/wingops/registry-workspace-sync/internal/retry"
)

const hoursPerDay = 24

// runMemberPhase walks the member set in registry-ID order starting after
// the checkpoint cursor, computes the required lifecycle transition for each
// member, and executes it. The loop stops at the batch cap or the wall-clock
// deadline, whichever comes first; an in-flight remote call always finishes
// before the deadline is honored. Returns the actions taken, the new cursor
// (empty after a full pass), the number of members examined, and whether the
// budget expired.
func (e *Engine) runMemberPhase(ctx context.Context, snapshot *models.Snapshot, cursorID uint64, deadline time.Time) ([]models.MemberAction, string, int, bool) {
	members := make([]models.Member, len(snapshot.Members))
	copy(members, snapshot.Members)
	sort.Slice(members, func(i, j int) bool { return members[i].RegistryID < members[j].RegistryID })

	orgs := snapshot.OrgByID()

	var actions []models.MemberAction
	processed := 0

	for i, member := range members {
		if cursorID != 0 && member.RegistryID <= cursorID {
			continue
		}

		org := orgs[member.OrgID]
		if action, ok := e.processMember(ctx, member, org); ok {
			actions = append(actions, action)
		}
		processed++

		// An empty cursor after the final member means a full pass; the next
		// run wraps around to the top.
		resumeCursor := strconv.FormatUint(member.RegistryID, 10)
		if i == len(members)-1 {
			resumeCursor = ""
		}

		if e.now().After(deadline) {
			logrus.Info("wall-clock budget expired during member phase")
			return actions, resumeCursor, processed, true
		}
		if processed >= e.cfg.Run.BatchSize && resumeCursor != "" {
			logrus.WithField("batch_size", e.cfg.Run.BatchSize).Info("member batch cap reached")
			return actions, resumeCursor, processed, false
		}
	}

	// Full pass: clear the cursor so the next run starts from the top.
	return actions, "", processed, false
}

// parseMemberCursor resolves a checkpoint member cursor to the registry ID
// the next pass resumes after. An empty cursor means start from the top; a
// non-empty cursor that is not a registry ID is corrupt and run-fatal.
func parseMemberCursor(cursor string) (uint64, error) {
	if cursor == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(cursor, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("member cursor %q is not a registry ID", cursor)
	}
	return id, nil
}

// processMember computes and executes the transition for one member.
// Returns false when no action is needed. Failures never propagate; they are
// recorded on the action and counted into the summary.
func (e *Engine) processMember(ctx context.Context, member models.Member, org models.Organization) (models.MemberAction, bool) {
	var state *models.AccountState
	result := e.exec.Execute(ctx, func(ctx context.Context) error {
		var err error
		state, err = e.directory.GetAccountState(ctx, member.Email)
		return err
	})
	if !result.OK() {
		return failedAction(member, models.ActionNone, "account state lookup failed", result), true
	}

	daysSince := 0
	if !state.ChangedAt.IsZero() {
		daysSince = int(e.now().Sub(state.ChangedAt).Hours() / hoursPerDay)
	}

	action := lifecycle.NextAction(lifecycle.Input{
		RegistryStatus:  member.Status,
		AccountStatus:   state.Status,
		DaysSinceChange: daysSince,
		ExcludedOrg:     org.Excluded,
	}, e.cfg.Lifecycle)

	if action == models.ActionNone {
		return models.MemberAction{}, false
	}

	record := models.MemberAction{
		Action:     action,
		RegistryID: member.RegistryID,
		Email:      member.Email,
		OrgID:      member.OrgID,
		Reason:     transitionReason(action, member.Status, state.Status, daysSince),
	}

	if e.cfg.Run.DryRun {
		return record, true
	}

	result = e.exec.Execute(ctx, func(ctx context.Context) error {
		switch action {
		case models.ActionSuspend:
			return e.directory.SuspendUser(ctx, member.Email)
		case models.ActionReactivate:
			return e.directory.ReactivateUser(ctx, member.Email)
		case models.ActionArchive:
			return e.directory.ArchiveUser(ctx, member.Email)
		case models.ActionDelete:
			return e.directory.DeleteUser(ctx, member.Email)
		}
		return nil
	})
	if !result.OK() {
		errMsg := result.Err.Error()
		record.FailureCode = result.Code
		record.Error = &errMsg
		logrus.WithFields(record.LogFields()).Warn("lifecycle action failed")
		return record, true
	}

	record.Executed = true
	t := e.now()
	record.Timestamp = &t
	logrus.WithFields(record.LogFields()).Info("lifecycle action applied")
	return record, true
}

func failedAction(member models.Member, action models.LifecycleAction, reason string, result retry.Result) models.MemberAction {
	errMsg := ""
	if result.Err != nil {
		errMsg = result.Err.Error()
	}
	return models.MemberAction{
		Action:      action,
		RegistryID:  member.RegistryID,
		Email:       member.Email,
		OrgID:       member.OrgID,
		Reason:      reason,
		FailureCode: result.Code,
		Error:       &errMsg,
	}
}

func transitionReason(action models.LifecycleAction, registry models.RegistryStatus, account models.AccountStatus, daysSince int) string {
	switch action {
	case models.ActionSuspend:
		return "registry expired, grace period elapsed"
	case models.ActionReactivate:
		return "registry active, account " + string(account)
	case models.ActionArchive:
		return "registry expired, suspension period elapsed"
	case models.ActionDelete:
		return "registry expired, archive period elapsed"
	}
	return string(registry)
}
